package services

import (
	"testing"

	"deal-finder/config"
	"deal-finder/models"
)

func testCriteria() config.Criteria {
	return config.Criteria{
		Industries:       []string{"behavioral health", "clinic", "dental practice"},
		Locations:        []string{"California", "CA", "Kentucky"},
		PositiveKeywords: []string{"absentee", "SBA", "turnkey"},
		NegativeKeywords: []string{"owner-operator required", "full-time owner"},
		MinPrice:         1_000_000,
		MaxPrice:         5_000_000,
	}
}

func TestScoreLocationCountsOnce(t *testing.T) {
	c := testCriteria()
	r := Score(c, "Practice in California", "Kentucky too", "CA")
	if r.Score != locationPoints {
		t.Errorf("Score: got %d, want %d", r.Score, locationPoints)
	}
}

func TestScorePositiveKeywordsStack(t *testing.T) {
	c := testCriteria()
	r := Score(c, "Turnkey absentee business", "SBA financing available", "")
	// "absentee", "SBA" and "turnkey" all match.
	if r.Score != 3*positivePoints {
		t.Errorf("Score: got %d, want %d", r.Score, 3*positivePoints)
	}
	if r.OwnerInvolvement != OwnerInvolvementLow {
		t.Errorf("OwnerInvolvement: got %q", r.OwnerInvolvement)
	}
	if r.SBAEligible != SBALikely {
		t.Errorf("SBAEligible: got %q", r.SBAEligible)
	}
}

func TestScoreNegativeOverridesOwnerInvolvement(t *testing.T) {
	c := testCriteria()
	r := Score(c, "Absentee run shop", "Owner-operator required for licensing", "")
	if r.OwnerInvolvement != OwnerInvolvementHigh {
		t.Errorf("OwnerInvolvement: got %q, want %q", r.OwnerInvolvement, OwnerInvolvementHigh)
	}
	if want := positivePoints + negativePoints; r.Score != want {
		t.Errorf("Score: got %d, want %d", r.Score, want)
	}
}

func TestScoreNegativeKeywordsStack(t *testing.T) {
	c := testCriteria()
	r := Score(c, "Full-time owner needed", "owner-operator required", "")
	if r.Score != 2*negativePoints {
		t.Errorf("Score: got %d, want %d", r.Score, 2*negativePoints)
	}
}

func TestScoreIndustryKeywords(t *testing.T) {
	c := testCriteria()
	r := Score(c, "Behavioral Health Clinic", "", "")
	if r.Score != 2*industryPoints {
		t.Errorf("Score: got %d, want %d", r.Score, 2*industryPoints)
	}
}

func TestScoreDeterministic(t *testing.T) {
	c := testCriteria()
	first := Score(c, "Behavioral Health Clinic - Absentee Owner, CA", "SBA eligible", "Los Angeles, CA")
	for i := 0; i < 5; i++ {
		if got := Score(c, "Behavioral Health Clinic - Absentee Owner, CA", "SBA eligible", "Los Angeles, CA"); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestScoreEmptyText(t *testing.T) {
	if r := Score(testCriteria(), "", "", ""); r != (ScoreResult{}) {
		t.Errorf("expected zero result, got %+v", r)
	}
}

func TestScoreListing(t *testing.T) {
	l := &models.Listing{Title: "Absentee dental practice", Location: "Kentucky"}
	ScoreListing(testCriteria(), l)
	if want := locationPoints + positivePoints + industryPoints; l.Score != want {
		t.Errorf("Score: got %d, want %d", l.Score, want)
	}
	if l.OwnerInvolvement != OwnerInvolvementLow {
		t.Errorf("OwnerInvolvement: got %q", l.OwnerInvolvement)
	}
}
