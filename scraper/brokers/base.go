// Package brokers holds one adapter per business-for-sale website. Each
// adapter walks its search pages sequentially, pausing between requests, and
// extracts whatever listing fields it can find.
package brokers

import (
	"context"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"deal-finder/scraper"
	"deal-finder/services"
	"deal-finder/utils"
)

// Deps are the collaborators every adapter needs.
type Deps struct {
	Fetcher scraper.Fetcher
	// Pacer spaces search-page requests; DetailPacer spaces detail-page requests.
	Pacer       *utils.Pacer
	DetailPacer *utils.Pacer
	Logger      *utils.Logger
}

// All returns every adapter in the order they are searched.
func All(d Deps) []scraper.Source {
	return []scraper.Source{
		NewBizBuySell(d),
		NewDealStream(d),
		NewAmericanHealthcareCapital(d),
		NewSynergy(d),
		NewTransitionConsultants(d),
		NewLoopNet(d),
		NewBusinessesForSale(d),
	}
}

type base struct {
	name string
	Deps
}

func (b *base) Name() string { return b.name }

// page fetches and parses a search page, logging and returning nil on any failure.
func (b *base) page(ctx context.Context, pageURL string, render bool) *goquery.Document {
	if b.Pacer != nil {
		b.Pacer.Wait()
	}
	return b.load(ctx, pageURL, render)
}

// detail is page for individual listing pages.
func (b *base) detail(ctx context.Context, pageURL string) *goquery.Document {
	if b.DetailPacer != nil {
		b.DetailPacer.Wait()
	}
	return b.load(ctx, pageURL, false)
}

func (b *base) load(ctx context.Context, pageURL string, render bool) *goquery.Document {
	resp, err := b.Fetcher.Fetch(ctx, pageURL, render)
	if err != nil {
		b.Logger.Warn("[%s] Fetch error for %s: %v", b.name, pageURL, err)
		return nil
	}
	if !resp.OK() {
		b.Logger.Warn("[%s] Got status %d from %s", b.name, resp.StatusCode, pageURL)
		return nil
	}
	doc, err := scraper.ParseHTML(resp.Body)
	if err != nil {
		b.Logger.Warn("[%s] Could not parse %s: %v", b.name, pageURL, err)
		return nil
	}
	return doc
}

// Financial figure patterns shared by the detail-page adapters.
var (
	askingPriceRegexp = regexp.MustCompile(`(?i)(?:asking price|price)[:\s]*\$?([\d,\.]+[MK]?)`)
	cardPriceRegexp   = regexp.MustCompile(`\$[\d,]+`)
	dollarRegexp      = regexp.MustCompile(`\$([\d,]+)`)
)

// plausiblePrice reports whether raw parses to an amount at least min.
func plausiblePrice(raw string, min int64) bool {
	p, ok := services.ParsePrice(raw)
	return ok && p >= min
}
