package brokers

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"deal-finder/models"
	"deal-finder/scraper"
	"deal-finder/utils"
)

const (
	dealStreamName  = "DealStream"
	dealStreamBase  = "https://dealstream.com"
	dealStreamCards = 20
)

var (
	dealStreamLinkRegexp    = regexp.MustCompile(`dealstream\.com/[^/]+/[^/]+-\d+`)
	dealStreamIDRegexp      = regexp.MustCompile(`-\d+$`)
	dealStreamRevenueRegexp = regexp.MustCompile(`(?i)(?:revenue|gross)[:\s]*\$?([\d,\.]+[MK]?)`)
	dealStreamCashRegexp    = regexp.MustCompile(`(?i)(?:cash flow|SDE|EBITDA)[:\s]*\$?([\d,\.]+[MK]?)`)

	dealStreamPriceRegexps = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:asking|price)[:\s]*\$?([\d,\.]+[MK]?)`),
		regexp.MustCompile(`\$([\d,]{7,})`),
		regexp.MustCompile(`\$([\d,]+)`),
	}

	// Category and off-site links that share the card markup.
	dealStreamSkip = []string{
		"/businesses-for-sale", "/small-businesses", "/search",
		"inc.com", "facebook.com", "twitter.com", "linkedin.com",
	}

	dealStreamPlaceholders = map[string]struct{}{
		"healthcare business": {},
		"business for sale":   {},
		"view listing":        {},
		"":                    {},
	}
)

// DealStream scrapes category pages by their listing cards.
type DealStream struct {
	base
	urls []string
}

func NewDealStream(d Deps) *DealStream {
	return &DealStream{
		base: base{name: dealStreamName, Deps: d},
		urls: []string{
			"https://dealstream.com/california/health-care-businesses-for-sale",
			"https://dealstream.com/california/behavioral-health-businesses-for-sale",
			"https://dealstream.com/california/home-health-care-businesses-for-sale",
			"https://dealstream.com/california/medical-practices-for-sale",
			"https://dealstream.com/kentucky/health-care-businesses-for-sale",
			"https://dealstream.com/home-health-care-businesses-for-sale",
			"https://dealstream.com/counseling-businesses-for-sale",
		},
	}
}

func (s *DealStream) Scrape(ctx context.Context) []*models.RawListing {
	s.Logger.Info("[%s] Searching %d pages", s.name, len(s.urls))
	var out []*models.RawListing

	for _, searchURL := range s.urls {
		doc := s.page(ctx, searchURL, true)
		if doc == nil {
			continue
		}
		slug := searchURL[strings.LastIndex(searchURL, "/")+1:]

		linkCount := 0
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if dealStreamLinkRegexp.MatchString(scraper.Resolve(dealStreamBase, href)) {
				linkCount++
			}
		})
		cards := doc.Find(`[class*="listing"], [class*="card"], [class*="result"], article`)
		s.Logger.Info("[%s] Found %d listing links, %d cards on %s", s.name, linkCount, cards.Length(), slug)

		added := 0
		cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
			if i >= dealStreamCards {
				return false
			}
			if l := s.extract(card); l != nil {
				out = append(out, l)
				added++
			}
			return true
		})
		s.Logger.Info("[%s] Added %d listings from %s", s.name, added, slug)
	}
	return out
}

func (s *DealStream) extract(card *goquery.Selection) *models.RawListing {
	linkTag := card
	if goquery.NodeName(card) != "a" {
		linkTag = card.Find("a[href]").First()
	}
	href, ok := linkTag.Attr("href")
	if !ok {
		return nil
	}

	fullURL := scraper.Resolve(dealStreamBase, href)
	if !dealStreamListingURL(fullURL) {
		return nil
	}

	text := scraper.Text(card)
	titleTag := card.Find("h2, h3, h4, h5").First()
	if titleTag.Length() == 0 {
		titleTag = card.Find(`[class*="title"], [class*="name"], [class*="heading"]`).First()
	}
	title := scraper.Text(titleTag)
	if title == "" {
		title = scraper.Text(linkTag)
	}

	if _, placeholder := dealStreamPlaceholders[strings.ToLower(title)]; placeholder {
		return nil
	}
	if strings.Contains(strings.ToLower(text), "no listings found") {
		return nil
	}

	location := scraper.Text(card.Find(`[class*="location"], [class*="city"], [class*="state"], [class*="geo"]`).First())

	return &models.RawListing{
		Title:       utils.Clip(title, 100),
		Source:      s.name,
		AskingPrice: dealStreamPrice(text),
		Revenue:     scraper.Dollars(dealStreamRevenueRegexp, text),
		CashFlow:    scraper.Dollars(dealStreamCashRegexp, text),
		Location:    location,
		Description: utils.Clip(text, 300),
		URL:         fullURL,
		ScrapedAt:   time.Now(),
	}
}

// dealStreamListingURL rejects off-site, home-page and category links unless
// the URL ends in a numeric listing ID.
func dealStreamListingURL(fullURL string) bool {
	if !strings.Contains(fullURL, "dealstream.com") {
		return false
	}
	trimmed := strings.TrimRight(fullURL, "/")
	if trimmed == dealStreamBase {
		return false
	}
	lower := strings.ToLower(fullURL)
	for _, pat := range dealStreamSkip {
		if strings.Contains(lower, pat) {
			return dealStreamIDRegexp.MatchString(trimmed)
		}
	}
	return true
}

// dealStreamPrice tries each price pattern in turn, keeping the first that
// looks like a business price rather than a fee.
func dealStreamPrice(text string) string {
	for _, re := range dealStreamPriceRegexps {
		if v := scraper.Dollars(re, text); v != "" && plausiblePrice(v, 100_000) {
			return v
		}
	}
	return ""
}
