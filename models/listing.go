package models

import "time"

// RawListing holds unprocessed data exactly as a broker adapter extracted it.
// Financial fields are free text ("$1,200,000", "1.2M") and may be empty.
type RawListing struct {
	Title       string
	Source      string
	AskingPrice string
	Revenue     string
	CashFlow    string
	EBITDA      string
	Location    string
	Description string
	URL         string
	ScrapedAt   time.Time
}

// TagStatus says whether a listing meets a single buyer criterion.
type TagStatus string

const (
	TagMeets   TagStatus = "hit"
	TagFails   TagStatus = "miss"
	TagUnknown TagStatus = "maybe"
)

// Tag is one labelled criterion verdict produced by the rater.
type Tag struct {
	Label  string    `json:"label"`
	Status TagStatus `json:"type"`
}

// Annotation is the qualitative verdict the external rater attaches to a listing.
type Annotation struct {
	FitScore       string
	Tier           int
	Recommendation string
	Tags           []Tag
	KeyDetails     string
	NextStep       string
}

// Listing is a scored deal. The URL is the natural key and is never rewritten
// once the adapter assigns it. Price fields keep their display formatting.
type Listing struct {
	Title       string
	Source      string
	AskingPrice string
	Revenue     string
	CashFlow    string
	EBITDA      string
	Location    string
	Description string
	URL         string
	FoundDate   string

	Score            int
	OwnerInvolvement string
	SBAEligible      string

	// Tier 1 = strong match, 2 = worth watching, 3 = marginal, 0 = unscored.
	Tier           int
	FitScore       string
	Recommendation string
	Tags           []Tag
	KeyDetails     string
	NextStep       string
}

// NewListing copies a raw candidate into an unscored Listing.
func NewListing(r *RawListing, foundDate string) *Listing {
	return &Listing{
		Title:       r.Title,
		Source:      r.Source,
		AskingPrice: r.AskingPrice,
		Revenue:     r.Revenue,
		CashFlow:    r.CashFlow,
		EBITDA:      r.EBITDA,
		Location:    r.Location,
		Description: r.Description,
		URL:         r.URL,
		FoundDate:   foundDate,
	}
}

// Apply copies a rater annotation onto the listing.
func (l *Listing) Apply(a Annotation) {
	l.FitScore = a.FitScore
	l.Tier = a.Tier
	l.Recommendation = a.Recommendation
	l.Tags = a.Tags
	l.KeyDetails = a.KeyDetails
	l.NextStep = a.NextStep
}

// ArchiveEntry is one dated report tracked in archive.json.
type ArchiveEntry struct {
	Date        string `json:"date"`
	File        string `json:"file"`
	DealCount   int    `json:"deal_count"`
	PursueCount int    `json:"pursue_count"`
}

// InsightReport holds run-level counts over the final listing set.
type InsightReport struct {
	TotalListings int
	Pursue        int
	Investigate   int
	Skip          int
	ByTier        map[int]int
	BySource      map[string]int
	Sources       []string
	TopScored     []*Listing
}
