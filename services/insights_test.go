package services

import (
	"testing"

	"deal-finder/models"
)

func sampleListings() []*models.Listing {
	return []*models.Listing{
		{Title: "Clinic A", Source: "DealStream", Score: 40, Tier: 1, Recommendation: "Pursue - great fit"},
		{Title: "Clinic B", Source: "DealStream", Score: 10, Tier: 2, Recommendation: "Investigate - thin financials"},
		{Title: "Clinic C", Source: "BizBuySell", Score: 55, Tier: 3, Recommendation: "Skip - wrong state"},
		{Title: "Clinic D", Source: "LoopNet", Score: 20, Tier: 0},
		{Title: "Clinic E", Source: "BizBuySell", Score: 5, Tier: 2, Recommendation: "Investigate - analysis failed"},
		{Title: "Clinic F", Source: "BizBuySell", Score: 30, Tier: 1, Recommendation: "garbled"},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	if r.TotalListings != 6 {
		t.Errorf("TotalListings: got %d, want 6", r.TotalListings)
	}
	if r.Pursue != 1 || r.Investigate != 2 || r.Skip != 1 {
		t.Errorf("recommendations: got %d/%d/%d, want 1/2/1", r.Pursue, r.Investigate, r.Skip)
	}
	if r.ByTier[1] != 2 || r.ByTier[2] != 2 || r.ByTier[3] != 1 || r.ByTier[0] != 1 {
		t.Errorf("ByTier: got %v", r.ByTier)
	}
}

func TestInsightSources(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	want := []string{"BizBuySell", "DealStream", "LoopNet"}
	if len(r.Sources) != len(want) {
		t.Fatalf("Sources: got %v", r.Sources)
	}
	for i := range want {
		if r.Sources[i] != want[i] {
			t.Errorf("Sources[%d]: got %q, want %q", i, r.Sources[i], want[i])
		}
	}
	if r.BySource["BizBuySell"] != 3 {
		t.Errorf("BizBuySell count: got %d, want 3", r.BySource["BizBuySell"])
	}
}

func TestInsightTopScored(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	in := sampleListings()
	r := svc.Generate(in)
	if len(r.TopScored) != topScoredLimit {
		t.Fatalf("TopScored len: got %d, want %d", len(r.TopScored), topScoredLimit)
	}
	if r.TopScored[0].Title != "Clinic C" {
		t.Errorf("TopScored[0]: got %q, want Clinic C", r.TopScored[0].Title)
	}
	if in[0].Title != "Clinic A" {
		t.Error("Generate must not reorder its input")
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(nil)
	if r.TotalListings != 0 || len(r.TopScored) != 0 {
		t.Errorf("expected empty report, got %+v", r)
	}
}
