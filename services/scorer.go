package services

import (
	"strings"

	"deal-finder/config"
	"deal-finder/models"
)

const (
	locationPoints = 20
	positivePoints = 10
	negativePoints = -15
	industryPoints = 5

	OwnerInvolvementLow  = "Low (absentee mentioned)"
	OwnerInvolvementHigh = "High (owner-operator mentioned)"
	SBALikely            = "Likely (SBA mentioned)"
)

// ScoreResult is the heuristic relevance of one listing.
type ScoreResult struct {
	Score            int
	OwnerInvolvement string
	SBAEligible      string
}

// Score computes the keyword/location heuristic over title, description and
// location. It depends only on its arguments.
func Score(c config.Criteria, title, description, location string) ScoreResult {
	var r ScoreResult
	text := strings.ToLower(title + " " + description + " " + location)

	for _, loc := range c.Locations {
		if strings.Contains(text, strings.ToLower(loc)) {
			r.Score += locationPoints
			break
		}
	}

	for _, kw := range c.PositiveKeywords {
		kw = strings.ToLower(kw)
		if !strings.Contains(text, kw) {
			continue
		}
		r.Score += positivePoints
		if strings.Contains(kw, "absentee") {
			r.OwnerInvolvement = OwnerInvolvementLow
		}
		if strings.Contains(kw, "sba") {
			r.SBAEligible = SBALikely
		}
	}

	// Negative keywords run after positive ones so an owner-operator
	// requirement always wins the owner-involvement annotation.
	for _, kw := range c.NegativeKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			r.Score += negativePoints
			r.OwnerInvolvement = OwnerInvolvementHigh
		}
	}

	for _, ind := range c.Industries {
		if strings.Contains(text, strings.ToLower(ind)) {
			r.Score += industryPoints
		}
	}

	return r
}

// ScoreListing scores l in place.
func ScoreListing(c config.Criteria, l *models.Listing) {
	r := Score(c, l.Title, l.Description, l.Location)
	l.Score = r.Score
	l.OwnerInvolvement = r.OwnerInvolvement
	l.SBAEligible = r.SBAEligible
}
