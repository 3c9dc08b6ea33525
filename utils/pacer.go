package utils

import "time"

// Pacer spaces out successive calls so that at least interval elapses between
// them. The run is sequential, so no locking is needed.
type Pacer struct {
	interval time.Duration
	last     time.Time
	sleep    func(time.Duration)
}

// NewPacer creates a Pacer; the first Wait also honours the interval, measured
// from construction.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		last:     time.Now(),
		sleep:    time.Sleep,
	}
}

// NewPacerMs is a convenience wrapper for millisecond config values.
func NewPacerMs(ms int) *Pacer {
	return NewPacer(time.Duration(ms) * time.Millisecond)
}

// Wait blocks until the interval since the previous call has passed.
func (p *Pacer) Wait() {
	if p.interval > 0 {
		if elapsed := time.Since(p.last); elapsed < p.interval {
			p.sleep(p.interval - elapsed)
		}
	}
	p.last = time.Now()
}

// URLSet tracks URLs already handled within one adapter pass.
type URLSet struct {
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Contains reports whether the URL has been added.
func (s *URLSet) Contains(url string) bool {
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	return len(s.seen)
}
