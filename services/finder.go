package services

import (
	"context"
	"time"

	"deal-finder/config"
	"deal-finder/models"
	"deal-finder/scraper"
	"deal-finder/utils"
)

// SearchResult is the outcome of one pass over every source.
type SearchResult struct {
	// Raw holds every candidate the adapters produced, before any filtering.
	Raw []*models.RawListing
	// Listings are the in-range, scored, cleaned survivors, best first.
	Listings []*models.Listing
	// PriceRejected counts candidates dropped by the price window.
	PriceRejected int
}

// Finder runs the sources in order and turns their raw output into scored listings.
type Finder struct {
	sources  []scraper.Source
	criteria config.Criteria
	filter   PriceFilter
	cleaner  *Cleaner
	logger   *utils.Logger
	now      func() time.Time
}

// NewFinder creates a Finder over sources using the given buyer criteria.
func NewFinder(sources []scraper.Source, criteria config.Criteria, logger *utils.Logger) *Finder {
	return &Finder{
		sources:  sources,
		criteria: criteria,
		filter:   PriceFilter{Min: criteria.MinPrice, Max: criteria.MaxPrice},
		cleaner:  NewCleaner(logger),
		logger:   logger,
		now:      time.Now,
	}
}

// Search scrapes every source sequentially. A source that yields nothing
// never stops the run.
func (f *Finder) Search(ctx context.Context) *SearchResult {
	res := &SearchResult{}
	foundDate := f.now().Format("2006-01-02")
	var scored []*models.Listing

	for _, src := range f.sources {
		if ctx.Err() != nil {
			f.logger.Warn("[finder] Stopping before %s: %v", src.Name(), ctx.Err())
			break
		}
		raw := src.Scrape(ctx)
		f.logger.Info("[finder] %s returned %d candidates", src.Name(), len(raw))
		res.Raw = append(res.Raw, raw...)

		for _, r := range raw {
			if !f.filter.Admits(r.AskingPrice) {
				res.PriceRejected++
				continue
			}
			l := models.NewListing(r, foundDate)
			ScoreListing(f.criteria, l)
			scored = append(scored, l)
		}
	}

	if res.PriceRejected > 0 {
		f.logger.Info("[finder] %d candidates outside the %s-%s window",
			res.PriceRejected, FormatDollars(f.filter.Min), FormatDollars(f.filter.Max))
	}
	res.Listings = f.cleaner.Clean(scored)
	return res
}
