// Package report renders scored listings as HTML: a table fragment with
// summary cards, a standalone dated page wrapping it, and the hub page that
// switches between dated reports.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"deal-finder/config"
	"deal-finder/models"
	"deal-finder/services"
	"deal-finder/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// SourceURLs maps an adapter name to the search page a reader can browse.
var SourceURLs = map[string]string{
	"DealStream":                  "https://dealstream.com/california/health-care-businesses-for-sale",
	"Synergy Business Brokers":    "https://synergybb.com/businesses-for-sale/mental-healthcare-facilities-for-sale/",
	"American Healthcare Capital": "https://americanhealthcarecapital.com/current-listings/",
	"Transition Consultants":      "https://www.transitionconsultants.com/practices-for-sale",
	"BizBuySell":                  "https://www.bizbuysell.com/california/health-care-and-fitness-businesses-for-sale/",
	"LoopNet":                     "https://www.loopnet.com/search/businesses-for-sale/california/for-sale/?sk=healthcare",
	"BusinessesForSale":           "https://www.businessesforsale.com/us/search/healthcare-businesses-for-sale-in-california",
}

// QuickLink is a shortcut to a broker search page shown on the hub.
type QuickLink struct {
	Label string
	URL   string
}

var quickLinks = []QuickLink{
	{"DealStream: CA Healthcare", "https://dealstream.com/california/health-care-businesses-for-sale"},
	{"DealStream: CA Behavioral", "https://dealstream.com/california/behavioral-health-businesses-for-sale"},
	{"DealStream: KY Healthcare", "https://dealstream.com/kentucky/health-care-businesses-for-sale"},
	{"DealStream: Counseling", "https://dealstream.com/counseling-businesses-for-sale"},
	{"Synergy: Mental Health", "https://synergybb.com/businesses-for-sale/mental-healthcare-facilities-for-sale/"},
	{"Synergy: Medical Practices", "https://synergybb.com/businesses-for-sale/medical-practices-for-sale/"},
	{"American Healthcare Capital", "https://americanhealthcarecapital.com/current-listings/"},
	{"Transition Consultants", "https://www.transitionconsultants.com/practices-for-sale"},
	{"BizBuySell: CA", "https://www.bizbuysell.com/california/health-care-and-fitness-businesses-for-sale/"},
	{"BizBuySell: KY", "https://www.bizbuysell.com/kentucky/health-care-and-fitness-businesses-for-sale/"},
	{"BusinessesForSale: CA", "https://www.businessesforsale.com/us/search/healthcare-businesses-for-sale-in-california"},
}

const descriptionLimit = 200

// Partition splits listings into tier 1, tier 2 and everything else
// (tier 3 and unscored), keeping the incoming order within each group.
func Partition(listings []*models.Listing) (tier1, tier2, rest []*models.Listing) {
	for _, l := range listings {
		switch l.Tier {
		case 1:
			tier1 = append(tier1, l)
		case 2:
			tier2 = append(tier2, l)
		default:
			rest = append(rest, l)
		}
	}
	return tier1, tier2, rest
}

// Tag is a rendered criterion pill.
type Tag struct {
	Label string
	Class string
}

// Row is one listing prepared for the table template.
type Row struct {
	Index         int
	Title         string
	URL           string
	Description   string
	Location      string
	LocationClass string
	Revenue       string
	CashFlow      string
	AskingPrice   string
	Grade         string
	GradeClass    string
	Tags          []Tag
	Notes         string
	Source        string
	SourceURL     string
	NextStep      string
}

// Section is a tier heading with its rows.
type Section struct {
	Heading string
	Rows    []Row
}

type tableData struct {
	Total       int
	Pursue      int
	Investigate int
	Skip        int
	Sections    []Section
	PriceWindow string
	Sources     string
	Generated   string
}

type pageData struct {
	Date     string
	Fragment template.HTML
}

type tabData struct {
	Date   string
	Label  string
	Count  int
	Active bool
}

type hubData struct {
	DateDisplay string
	Sources     string
	Criteria    string
	Tabs        []tabData
	QuickLinks  []QuickLink
	CurrentDate string
	Fragment    template.HTML
	Generated   string
}

// Renderer turns listings into HTML pages.
type Renderer struct {
	criteria config.Criteria
	tmpl     *template.Template
	now      func() time.Time
}

// NewRenderer parses the embedded templates.
func NewRenderer(criteria config.Criteria) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse report templates: %w", err)
	}
	return &Renderer{criteria: criteria, tmpl: tmpl, now: time.Now}, nil
}

// Table renders the summary cards, the tiered listing table and the report footer.
func (r *Renderer) Table(listings []*models.Listing) (template.HTML, error) {
	pursue, investigate, skip := services.CountRecommendations(listings)
	data := tableData{
		Total:       len(listings),
		Pursue:      pursue,
		Investigate: investigate,
		Skip:        skip,
		PriceWindow: r.priceWindow(),
		Sources:     sourceList(listings),
		Generated:   r.now().Format("2006-01-02 15:04"),
	}

	tier1, tier2, rest := Partition(listings)
	idx := 1
	for _, group := range []struct {
		heading  string
		listings []*models.Listing
	}{
		{"TIER 1: Strongest Matches (Pursue)", tier1},
		{"TIER 2: Worth Investigating", tier2},
		{"TIER 3: Marginal / Watch List", rest},
	} {
		if len(group.listings) == 0 {
			continue
		}
		sec := Section{Heading: group.heading}
		for _, l := range group.listings {
			sec.Rows = append(sec.Rows, r.row(idx, l))
			idx++
		}
		data.Sections = append(data.Sections, sec)
	}

	out, err := r.execute("table", data)
	return template.HTML(out), err
}

// Standalone wraps a table fragment in a complete page for reports/<date>.html.
func (r *Renderer) Standalone(date string, fragment template.HTML) (string, error) {
	return r.execute("standalone", pageData{Date: date, Fragment: fragment})
}

// Hub renders index.html: criteria banner, one tab per archived report and
// the current fragment embedded.
func (r *Renderer) Hub(currentDate string, archive []models.ArchiveEntry, listings []*models.Listing, fragment template.HTML) (string, error) {
	now := r.now()
	data := hubData{
		DateDisplay: now.Format("January 02, 2006"),
		Sources:     sourceList(listings),
		Criteria:    r.criteriaBanner(),
		QuickLinks:  quickLinks,
		CurrentDate: currentDate,
		Fragment:    fragment,
		Generated:   now.Format("2006-01-02 15:04"),
	}
	for _, e := range archive {
		data.Tabs = append(data.Tabs, tabData{
			Date:   e.Date,
			Label:  TabLabel(e.Date),
			Count:  e.DealCount,
			Active: e.Date == currentDate,
		})
	}
	return r.execute("hub", data)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) row(idx int, l *models.Listing) Row {
	row := Row{
		Index:         idx,
		Title:         l.Title,
		URL:           l.URL,
		Description:   utils.Clip(l.Description, descriptionLimit),
		Location:      l.Location,
		LocationClass: LocationClass(l.Location, r.criteria.RegionCodes),
		Revenue:       orNA(l.Revenue),
		CashFlow:      orNA(firstNonEmpty(l.CashFlow, l.EBITDA)),
		AskingPrice:   orNA(l.AskingPrice),
		Grade:         l.FitScore,
		GradeClass:    GradeClass(l.FitScore),
		Notes:         firstNonEmpty(l.KeyDetails, l.Recommendation, "No analysis available"),
		Source:        l.Source,
		SourceURL:     SourceURL(l.Source),
		NextStep:      l.NextStep,
	}
	if row.Location == "" {
		row.Location = "Unknown"
	}
	if row.Grade == "" {
		row.Grade = "?"
	}
	for _, t := range l.Tags {
		row.Tags = append(row.Tags, Tag{Label: t.Label, Class: TagClass(t.Status)})
	}
	return row
}

func (r *Renderer) priceWindow() string {
	return services.FormatDollars(r.criteria.MinPrice) + " - " + services.FormatDollars(r.criteria.MaxPrice)
}

func (r *Renderer) criteriaBanner() string {
	parts := []string{"Asking Price " + r.priceWindow()}
	if len(r.criteria.Industries) > 0 {
		parts = append(parts, "Industries: "+strings.Join(head(r.criteria.Industries, 6), ", "))
	}
	if len(r.criteria.Locations) > 0 {
		parts = append(parts, "Prefer "+strings.Join(head(r.criteria.Locations, 4), " / "))
	}
	if len(r.criteria.PositiveKeywords) > 0 {
		parts = append(parts, "Looking for: "+strings.Join(head(r.criteria.PositiveKeywords, 5), ", "))
	}
	return strings.Join(parts, " • ")
}

// LocationClass picks the badge class for a location: in-region when any
// region code appears in it, unknown when empty.
func LocationClass(location string, regionCodes []string) string {
	if location == "" {
		return "tag-maybe"
	}
	upper := strings.ToUpper(location)
	for _, code := range regionCodes {
		if strings.Contains(upper, strings.ToUpper(code)) {
			return "tag-region"
		}
	}
	return "tag-outside"
}

// GradeClass maps a letter grade to its colour class. An empty grade is
// shown as medium.
func GradeClass(grade string) string {
	switch {
	case grade == "", strings.HasPrefix(grade, "B"):
		return "fit-med"
	case strings.HasPrefix(grade, "A"):
		return "fit-high"
	default:
		return "fit-low"
	}
}

func TagClass(s models.TagStatus) string {
	switch s {
	case models.TagMeets:
		return "tag-hit"
	case models.TagFails:
		return "tag-miss"
	default:
		return "tag-maybe"
	}
}

// SourceURL returns the browse page for a source, or "#" when unknown.
func SourceURL(source string) string {
	if u, ok := SourceURLs[source]; ok {
		return u
	}
	return "#"
}

// TabLabel formats a YYYY-MM-DD archive date as "Jan 02".
func TabLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Jan 02")
}

func sourceList(listings []*models.Listing) string {
	set := make(map[string]struct{})
	for _, l := range listings {
		set[l.Source] = struct{}{}
	}
	if len(set) == 0 {
		return "None"
	}
	names := make([]string, 0, len(set))
	for s := range set {
		names = append(names, s)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
