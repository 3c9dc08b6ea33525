package services

import (
	"sort"
	"strings"

	"deal-finder/models"
	"deal-finder/utils"
)

// junkTitles are placeholder link texts the broker pages emit instead of a
// listing name.
var junkTitles = map[string]struct{}{
	"all matching deals":  {},
	"businesses for sale": {},
	"search results":      {},
	"business for sale":   {},
	"view listing":        {},
	"":                    {},
}

const minTitleLength = 5

// Cleaner drops duplicate and junk listings and orders the rest by score.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean keeps the first listing for each URL, removes junk entries and
// returns the survivors stably sorted by score, highest first.
func (c *Cleaner) Clean(listings []*models.Listing) []*models.Listing {
	seen := make(map[string]struct{})
	result := make([]*models.Listing, 0, len(listings))
	dropped := 0

	for _, l := range listings {
		if _, dup := seen[l.URL]; dup {
			c.logger.Debug("[cleaner] Duplicate URL skipped: %s", l.URL)
			continue
		}
		if reason := junkReason(l); reason != "" {
			c.logger.Debug("[cleaner] Dropping %q: %s", l.Title, reason)
			dropped++
			continue
		}
		seen[l.URL] = struct{}{}
		result = append(result, l)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	if dropped > 0 {
		c.logger.Info("[cleaner] Filtered out %d junk entries", dropped)
	}
	c.logger.Info("[cleaner] Cleaned %d → %d listings", len(listings), len(result))
	return result
}

func junkReason(l *models.Listing) string {
	if _, junk := junkTitles[strings.ToLower(strings.TrimSpace(l.Title))]; junk {
		return "placeholder title"
	}
	if strings.Contains(strings.ToLower(l.Description), "no listings found") {
		return "empty search page"
	}
	if len([]rune(l.Title)) <= minTitleLength {
		return "title too short"
	}
	return ""
}
