package brokers

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"deal-finder/models"
	"deal-finder/scraper"
	"deal-finder/services"
	"deal-finder/utils"
)

const (
	bizBuySellName  = "BizBuySell"
	bizBuySellBase  = "https://www.bizbuysell.com"
	bizBuySellLinks = 25
)

var (
	bizOpportunityRegexp = regexp.MustCompile(`/[Bb]usiness-[Oo]pportunity/`)
	bizAskingRegexp      = regexp.MustCompile(`(?i)(?:asking|price)[:\s]*\$?([\d,]+)`)
	bizCashFlowRegexp    = regexp.MustCompile(`(?i)Cash Flow[:\s]*\$?([\d,]+)`)
	bizRevenueRegexp     = regexp.MustCompile(`(?i)Revenue[:\s]*\$?([\d,]+)`)
	bizLocationRegexp    = regexp.MustCompile(`((?:Louisville|Lexington|Bowling Green|San Diego|Los Angeles|Sacramento|San Francisco|Fresno|[\w\s]+ County)[,\s]*(?:CA|KY|California|Kentucky)?)`)

	// Link text runs title, location and teaser together; these mark where
	// the title ends.
	bizTitleSplits = []*regexp.Regexp{
		regexp.MustCompile(`(?:Louisville|Lexington|Bowling Green|San Diego|Los Angeles|Sacramento|San Francisco|Fresno)`),
		regexp.MustCompile(`(?:California|Kentucky|CA|KY)`),
		regexp.MustCompile(`(?:\w+ County)`),
	}
)

// BizBuySell scrapes the state health-care category pages. The site renders
// client-side, so every search page is fetched with rendering.
type BizBuySell struct {
	base
	urls []string
}

func NewBizBuySell(d Deps) *BizBuySell {
	return &BizBuySell{
		base: base{name: bizBuySellName, Deps: d},
		urls: []string{
			"https://www.bizbuysell.com/california/health-care-and-fitness-businesses-for-sale/",
			"https://www.bizbuysell.com/kentucky/health-care-and-fitness-businesses-for-sale/",
		},
	}
}

func (s *BizBuySell) Scrape(ctx context.Context) []*models.RawListing {
	s.Logger.Info("[%s] Searching %d pages", s.name, len(s.urls))
	var out []*models.RawListing

	for _, searchURL := range s.urls {
		doc := s.page(ctx, searchURL, true)
		if doc == nil {
			continue
		}

		defaultLocation := "Kentucky"
		if strings.Contains(searchURL, "california") {
			defaultLocation = "California"
		}

		links := scraper.LinksMatching(doc, bizOpportunityRegexp)
		s.Logger.Info("[%s] Found %d Business-Opportunity links on %s", s.name, len(links), searchURL)

		seen := utils.NewURLSet()
		added := 0
		for i, link := range links {
			if i >= bizBuySellLinks {
				break
			}
			href, _ := link.Attr("href")
			fullURL := scraper.Resolve(bizBuySellBase, href)
			if !seen.Add(fullURL) {
				continue
			}
			if l := s.extract(link, fullURL, defaultLocation); l != nil {
				out = append(out, l)
				added++
			}
		}
		s.Logger.Info("[%s] Added %d listings from %s", s.name, added, searchURL)
	}
	return out
}

func (s *BizBuySell) extract(link *goquery.Selection, fullURL, defaultLocation string) *models.RawListing {
	rawTitle := scraper.Text(link)
	if len(rawTitle) < 5 {
		return nil
	}

	contextText := bizContext(link)
	if contextText == "" {
		contextText = rawTitle
	}

	location := defaultLocation
	locInput := rawTitle + " " + utils.Clip(contextText, 200)
	if m := bizLocationRegexp.FindStringSubmatch(locInput); m != nil {
		location = strings.TrimRight(strings.TrimSpace(m[1]), ",")
	}

	description := rawTitle
	if contextText != rawTitle {
		description = utils.Clip(contextText, 400)
	}

	return &models.RawListing{
		Title:       utils.Clip(bizTitle(rawTitle), 100),
		Source:      s.name,
		AskingPrice: bizPrice(contextText),
		Revenue:     scraper.Dollars(bizRevenueRegexp, contextText),
		CashFlow:    scraper.Dollars(bizCashFlowRegexp, contextText),
		Location:    location,
		Description: description,
		URL:         fullURL,
		ScrapedAt:   time.Now(),
	}
}

// bizTitle cuts the link text at the first location marker that leaves at
// least 15 characters of title.
func bizTitle(rawTitle string) string {
	for _, re := range bizTitleSplits {
		if loc := re.FindStringIndex(rawTitle); loc != nil && loc[0] > 15 {
			return strings.TrimRight(rawTitle[:loc[0]], " ,.-")
		}
	}
	return rawTitle
}

// bizContext walks up to five ancestors of the link looking for the card
// that carries dollar figures.
func bizContext(link *goquery.Selection) string {
	ctxSel := link.Parent()
	for i := 0; i < 5; i++ {
		if ctxSel.Length() == 0 || ctxSel.Parent().Length() == 0 {
			break
		}
		text := scraper.Text(ctxSel)
		if strings.Contains(text, "$") && len(text) > 50 {
			break
		}
		ctxSel = ctxSel.Parent()
	}
	if ctxSel.Length() == 0 {
		return ""
	}
	return scraper.Text(ctxSel)
}

// bizPrice prefers an explicit asking price, then the first dollar amount
// in a plausible business-sale range.
func bizPrice(contextText string) string {
	if v := scraper.Dollars(bizAskingRegexp, contextText); v != "" {
		return v
	}
	for _, m := range dollarRegexp.FindAllStringSubmatch(contextText, -1) {
		candidate := "$" + m[1]
		if p, ok := services.ParsePrice(candidate); ok && p >= 100_000 && p <= 50_000_000 {
			return candidate
		}
	}
	return ""
}
