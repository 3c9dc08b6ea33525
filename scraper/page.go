package scraper

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"deal-finder/models"
	"deal-finder/utils"
)

// Source is one brokerage site adapter. Scrape never fails the run: fetch
// and extraction problems are logged and yield fewer (or zero) listings.
type Source interface {
	Name() string
	Scrape(ctx context.Context) []*models.RawListing
}

// ParseHTML builds a queryable document from page text.
func ParseHTML(body string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

// Text returns the visible text under sel: every text node trimmed, with
// whitespace collapsed, joined by single spaces. Script and style contents
// are skipped.
func Text(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := utils.NormaliseText(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// LinksMatching returns anchors whose href matches re, in document order.
func LinksMatching(doc *goquery.Document, re *regexp.Regexp) []*goquery.Selection {
	var links []*goquery.Selection
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, _ := a.Attr("href"); re.MatchString(href) {
			links = append(links, a)
		}
	})
	return links
}

// Resolve turns href into an absolute URL against base. Unparseable input
// is returned unchanged.
func Resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// MetaDescription returns the page's <meta name="description"> content.
func MetaDescription(doc *goquery.Document) string {
	content, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

// FirstMatch returns the first capture group of re in text, or "".
func FirstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return ""
}

// Dollars returns "$" + the first capture of re in text, or "" when absent.
func Dollars(re *regexp.Regexp, text string) string {
	if v := FirstMatch(re, text); v != "" {
		return "$" + v
	}
	return ""
}

// stateNames maps two-letter slugs to state names.
var stateNames = map[string]string{
	"al": "Alabama", "ak": "Alaska", "az": "Arizona", "ar": "Arkansas",
	"ca": "California", "co": "Colorado", "ct": "Connecticut", "de": "Delaware",
	"fl": "Florida", "ga": "Georgia", "hi": "Hawaii", "id": "Idaho",
	"il": "Illinois", "in": "Indiana", "ia": "Iowa", "ks": "Kansas",
	"ky": "Kentucky", "la": "Louisiana", "me": "Maine", "md": "Maryland",
	"ma": "Massachusetts", "mi": "Michigan", "mn": "Minnesota", "ms": "Mississippi",
	"mo": "Missouri", "mt": "Montana", "ne": "Nebraska", "nv": "Nevada",
	"nh": "New Hampshire", "nj": "New Jersey", "nm": "New Mexico", "ny": "New York",
	"nc": "North Carolina", "nd": "North Dakota", "oh": "Ohio", "ok": "Oklahoma",
	"or": "Oregon", "pa": "Pennsylvania", "ri": "Rhode Island", "sc": "South Carolina",
	"sd": "South Dakota", "tn": "Tennessee", "tx": "Texas", "ut": "Utah",
	"vt": "Vermont", "va": "Virginia", "wa": "Washington", "wv": "West Virginia",
	"wi": "Wisconsin", "wy": "Wyoming", "dc": "Washington DC",
}

// stateSearchOrder is checked against title and page text when the URL slug
// carries no state.
var stateSearchOrder = []string{
	"California", "Kentucky", "New York", "New Jersey", "Virginia",
	"Maryland", "Arizona", "Texas", "Connecticut", "Florida",
	"Pennsylvania", "Illinois", "Ohio", "Colorado", "Georgia",
	"Massachusetts", "Oregon", "Washington", "Tennessee", "Michigan",
	"North Carolina", "South Carolina", "Minnesota", "Indiana",
}

var cityStates = [][2]string{
	{"San Diego", "California"}, {"Los Angeles", "California"},
	{"San Francisco", "California"}, {"Houston", "Texas"},
	{"New York", "New York"}, {"Chicago", "Illinois"},
	{"Phoenix", "Arizona"}, {"Denver", "Colorado"},
	{"Fresno", "California"}, {"Sacramento", "California"},
}

var stateSlugRegexp = regexp.MustCompile(`-([a-z]{2})/?$`)

// LocationFromURL infers a location from a listing URL slug such as
// ".../behavioral-clinic-nj/", then from state or city names in the title and
// the first 500 characters of page text.
func LocationFromURL(listingURL, pageText, title string) string {
	slug := strings.ToLower(strings.TrimRight(listingURL, "/"))
	if code := FirstMatch(stateSlugRegexp, slug); code != "" {
		if name, ok := stateNames[code]; ok {
			return name
		}
	}

	combined := title + " " + utils.Clip(pageText, 500)
	for _, state := range stateSearchOrder {
		if strings.Contains(combined, state) {
			return state
		}
	}
	for _, cs := range cityStates {
		if strings.Contains(combined, cs[0]) {
			return cs[0] + ", " + cs[1]
		}
	}
	return ""
}
