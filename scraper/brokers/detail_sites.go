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

// The sites in this file list bare links on their search pages, so each
// listing's figures come from its own detail page.

var (
	ahcLinkRegexp     = regexp.MustCompile(`/listing/`)
	ahcRevenueRegexp  = regexp.MustCompile(`(?i)(?:revenue|gross revenue)[:\s]*\$?([\d,\.]+[MK]?)`)
	ahcEBITDARegexp   = regexp.MustCompile(`(?i)(?:EBITDA)[:\s]*\$?([\d,\.]+[MK]?)`)
	ahcCashFlowRegexp = regexp.MustCompile(`(?i)(?:cash flow|SDE)[:\s]*\$?([\d,\.]+[MK]?)`)
	ahcLocationRegexp = regexp.MustCompile(`(?i)(?:location|based in|located in)[:\s]*([\w\s,]+?)(?:\.|$)`)

	synergyLinkRegexp     = regexp.MustCompile(`/listings/`)
	synergyRevenueRegexp  = regexp.MustCompile(`(?i)(?:revenue|gross)[:\s]*\$?([\d,\.]+[MK]?)`)
	synergyCashFlowRegexp = regexp.MustCompile(`(?i)(?:cash flow|SDE|EBITDA|profit)[:\s]*\$?([\d,\.]+[MK]?)`)

	tcLinkRegexp     = regexp.MustCompile(`/practices-for-sale/`)
	tcPriceRegexp    = regexp.MustCompile(`(?i)(?:asking price|price|listed at)[:\s]*\$?([\d,\.]+[MK]?)`)
	tcRevenueRegexp  = regexp.MustCompile(`(?i)(?:revenue|collections|gross)[:\s]*\$?([\d,\.]+[MK]?)`)
	tcLocationRegexp = regexp.MustCompile(`(?i)(California|CA|Kentucky|KY|[\w\s]+County)`)
)

// detailExtractor turns one fetched detail page into a listing.
type detailExtractor func(doc *goquery.Document, title, fullURL string) *models.RawListing

// detailSite is an adapter whose search pages only carry links.
type detailSite struct {
	base
	baseURL  string
	urls     []string
	linkRe   *regexp.Regexp
	maxLinks int
	// accept filters links by raw href and title before the detail fetch.
	accept  func(href, title string) bool
	extract detailExtractor
}

func (s *detailSite) Scrape(ctx context.Context) []*models.RawListing {
	s.Logger.Info("[%s] Searching %d pages", s.name, len(s.urls))
	var out []*models.RawListing

	for _, searchURL := range s.urls {
		doc := s.page(ctx, searchURL, false)
		if doc == nil {
			continue
		}

		links := scraper.LinksMatching(doc, s.linkRe)
		s.Logger.Info("[%s] Found %d listing links on %s", s.name, len(links), searchURL)

		seen := utils.NewURLSet()
		added := 0
		for i, link := range links {
			if i >= s.maxLinks {
				break
			}
			href, _ := link.Attr("href")
			fullURL := scraper.Resolve(s.baseURL, href)
			if !seen.Add(fullURL) {
				continue
			}

			title := scraper.Text(link)
			if len(title) < 5 || (s.accept != nil && !s.accept(href, title)) {
				continue
			}

			detail := s.detail(ctx, fullURL)
			if detail == nil {
				continue
			}
			l := s.extract(detail, title, fullURL)
			l.Title = utils.Clip(title, 100)
			l.Source = s.name
			l.URL = fullURL
			l.ScrapedAt = time.Now()
			out = append(out, l)
			added++
		}
		s.Logger.Info("[%s] Added %d listings from %s", s.name, added, searchURL)
	}
	return out
}

// detailDescription prefers the meta description, then the first paragraph.
func detailDescription(doc *goquery.Document) string {
	if desc := scraper.MetaDescription(doc); desc != "" {
		return utils.Clip(desc, 500)
	}
	return utils.Clip(scraper.Text(doc.Find("p").First()), 500)
}

func NewAmericanHealthcareCapital(d Deps) scraper.Source {
	return &detailSite{
		base:    base{name: "American Healthcare Capital", Deps: d},
		baseURL: "https://americanhealthcarecapital.com",
		urls: []string{
			"https://americanhealthcarecapital.com/current-listings/",
			"https://americanhealthcarecapital.com/listings-by-category/",
		},
		linkRe:   ahcLinkRegexp,
		maxLinks: 25,
		extract: func(doc *goquery.Document, _, _ string) *models.RawListing {
			text := scraper.Text(doc.Selection)
			return &models.RawListing{
				AskingPrice: scraper.Dollars(askingPriceRegexp, text),
				Revenue:     scraper.Dollars(ahcRevenueRegexp, text),
				CashFlow:    scraper.Dollars(ahcCashFlowRegexp, text),
				EBITDA:      scraper.Dollars(ahcEBITDARegexp, text),
				Location:    strings.TrimSpace(scraper.FirstMatch(ahcLocationRegexp, text)),
				Description: detailDescription(doc),
			}
		},
	}
}

func NewSynergy(d Deps) scraper.Source {
	return &detailSite{
		base:    base{name: "Synergy Business Brokers", Deps: d},
		baseURL: "https://synergybb.com",
		urls: []string{
			"https://synergybb.com/businesses-for-sale/mental-healthcare-facilities-for-sale/",
			"https://synergybb.com/businesses-for-sale/medical-practices-for-sale/",
			"https://synergybb.com/industries/buy-a-health-care-company/",
		},
		linkRe:   synergyLinkRegexp,
		maxLinks: 15,
		extract: func(doc *goquery.Document, title, fullURL string) *models.RawListing {
			text := scraper.Text(doc.Selection)
			return &models.RawListing{
				AskingPrice: scraper.Dollars(askingPriceRegexp, text),
				Revenue:     scraper.Dollars(synergyRevenueRegexp, text),
				CashFlow:    scraper.Dollars(synergyCashFlowRegexp, text),
				Location:    scraper.LocationFromURL(fullURL, text, title),
				Description: detailDescription(doc),
			}
		},
	}
}

func NewTransitionConsultants(d Deps) scraper.Source {
	return &detailSite{
		base:     base{name: "Transition Consultants", Deps: d},
		baseURL:  "https://www.transitionconsultants.com",
		urls:     []string{"https://www.transitionconsultants.com/practices-for-sale"},
		linkRe:   tcLinkRegexp,
		maxLinks: 15,
		accept: func(href, title string) bool {
			// Category links have fewer path segments than practice pages.
			return strings.Count(href, "/") >= 4 && !strings.Contains(strings.ToUpper(title), "SOLD")
		},
		extract: func(doc *goquery.Document, title, _ string) *models.RawListing {
			text := scraper.Text(doc.Selection)
			desc := scraper.MetaDescription(doc)
			if desc == "" {
				desc = scraper.Text(doc.Find("article, .content, main").First())
			}
			return &models.RawListing{
				AskingPrice: scraper.Dollars(tcPriceRegexp, text),
				Revenue:     scraper.Dollars(tcRevenueRegexp, text),
				Location:    strings.TrimSpace(scraper.FirstMatch(tcLocationRegexp, title+" "+utils.Clip(text, 500))),
				Description: utils.Clip(desc, 500),
			}
		},
	}
}
