package brokers

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"deal-finder/models"
	"deal-finder/scraper"
	"deal-finder/utils"
)

// cardSite scrapes listing cards straight off the search results, with no
// detail fetches. These sites only show a headline price on the card.
type cardSite struct {
	base
	baseURL      string
	urls         []string
	cardSelector string
	titleSel     string
	defaultTitle string
	maxCards     int
	// onSite, when set, must appear in the resolved listing URL.
	onSite string
}

func (s *cardSite) Scrape(ctx context.Context) []*models.RawListing {
	s.Logger.Info("[%s] Searching %d pages", s.name, len(s.urls))
	var out []*models.RawListing

	for _, searchURL := range s.urls {
		doc := s.page(ctx, searchURL, false)
		if doc == nil {
			continue
		}

		cards := doc.Find(s.cardSelector)
		s.Logger.Debug("[%s] %d cards on %s", s.name, cards.Length(), searchURL)

		added := 0
		cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
			if i >= s.maxCards {
				return false
			}
			if l := s.extract(card); l != nil {
				out = append(out, l)
				added++
			}
			return true
		})
		s.Logger.Info("[%s] Added %d listings from %s", s.name, added, searchURL)
	}
	return out
}

func (s *cardSite) extract(card *goquery.Selection) *models.RawListing {
	href, ok := card.Find("a[href]").First().Attr("href")
	if !ok {
		return nil
	}
	fullURL := scraper.Resolve(s.baseURL, href)
	if s.onSite != "" && !strings.Contains(fullURL, s.onSite) {
		return nil
	}

	title := s.defaultTitle
	if t := scraper.Text(card.Find(s.titleSel).First()); t != "" {
		title = t
	}
	text := scraper.Text(card)

	return &models.RawListing{
		Title:       utils.Clip(title, 100),
		Source:      s.name,
		AskingPrice: cardPriceRegexp.FindString(text),
		Location:    "CA/KY",
		Description: utils.Clip(text, 300),
		URL:         fullURL,
		ScrapedAt:   time.Now(),
	}
}

func NewLoopNet(d Deps) scraper.Source {
	return &cardSite{
		base:    base{name: "LoopNet", Deps: d},
		baseURL: "https://www.loopnet.com",
		urls: []string{
			"https://www.loopnet.com/search/businesses-for-sale/california/for-sale/?sk=healthcare",
			"https://www.loopnet.com/search/businesses-for-sale/kentucky/for-sale/?sk=healthcare",
		},
		cardSelector: `[class*="listing"], [class*="property-card"], article`,
		titleSel:     "h2, h3, h4",
		defaultTitle: "Business for Sale",
		maxCards:     10,
		onSite:       "loopnet.com",
	}
}

func NewBusinessesForSale(d Deps) scraper.Source {
	return &cardSite{
		base:    base{name: "BusinessesForSale", Deps: d},
		baseURL: "https://www.businessesforsale.com",
		urls: []string{
			"https://www.businessesforsale.com/us/search/healthcare-businesses-for-sale-in-california",
			"https://www.businessesforsale.com/us/search/healthcare-businesses-for-sale-in-kentucky",
		},
		cardSelector: `.listing, .search-result, [itemtype*="Product"]`,
		titleSel:     "h2, h3, h4, .title",
		defaultTitle: "Healthcare Business",
		maxCards:     10,
	}
}
