package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"deal-finder/models"
	"deal-finder/utils"
)

const sampleReply = `Here is my analysis.

FIT_SCORE: A-
TIER: 1
RECOMMENDATION: Pursue - strong behavioral health fit in California
CRITERIA_TAGS: +CA, +Multi-provider, -Too expensive, ?EBITDA unknown, Telehealth
KEY_DETAILS: Insurance-paneled group with two prescribers.
NEXT_STEP: Sign NDA to see CIM`

func TestParseAnalysisFullReply(t *testing.T) {
	a, err := ParseAnalysis(sampleReply)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if a.FitScore != "A-" {
		t.Errorf("FitScore: got %q", a.FitScore)
	}
	if a.Tier != 1 {
		t.Errorf("Tier: got %d, want 1", a.Tier)
	}
	if !strings.HasPrefix(a.Recommendation, "Pursue") {
		t.Errorf("Recommendation: got %q", a.Recommendation)
	}
	if a.NextStep != "Sign NDA to see CIM" {
		t.Errorf("NextStep: got %q", a.NextStep)
	}

	want := []models.Tag{
		{Label: "CA", Status: models.TagMeets},
		{Label: "Multi-provider", Status: models.TagMeets},
		{Label: "Too expensive", Status: models.TagFails},
		{Label: "EBITDA unknown", Status: models.TagUnknown},
		{Label: "Telehealth", Status: models.TagUnknown},
	}
	if len(a.Tags) != len(want) {
		t.Fatalf("Tags: got %d, want %d", len(a.Tags), len(want))
	}
	for i, tag := range a.Tags {
		if tag != want[i] {
			t.Errorf("Tags[%d]: got %+v, want %+v", i, tag, want[i])
		}
	}
}

func TestParseAnalysisMalformedTier(t *testing.T) {
	tests := []struct {
		reply string
		want  int
	}{
		{"TIER: high", 2},
		{"TIER:", 2},
		{"TIER: 3 (marginal)", 3},
		{"FIT_SCORE: B", 0},
	}
	for _, tt := range tests {
		a, err := ParseAnalysis(tt.reply)
		if err != nil {
			t.Fatalf("ParseAnalysis(%q): %v", tt.reply, err)
		}
		if a.Tier != tt.want {
			t.Errorf("ParseAnalysis(%q).Tier = %d; want %d", tt.reply, a.Tier, tt.want)
		}
	}
}

func TestParseAnalysisNoLabels(t *testing.T) {
	for _, reply := range []string{"", "I cannot help with that."} {
		if _, err := ParseAnalysis(reply); !errors.Is(err, ErrNoAnalysis) {
			t.Errorf("ParseAnalysis(%q): got err %v, want ErrNoAnalysis", reply, err)
		}
	}
}

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestLLMRaterBuildsPromptAndParses(t *testing.T) {
	fc := &fakeCompleter{reply: sampleReply}
	r := NewLLMRater(fc, testCriteria())

	l := &models.Listing{Title: "Behavioral Health Clinic", Source: "DealStream", URL: "https://example.com/1"}
	a, err := r.Rate(context.Background(), l)
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if a.Tier != 1 {
		t.Errorf("Tier: got %d", a.Tier)
	}
	if len(fc.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(fc.prompts))
	}
	p := fc.prompts[0]
	for _, want := range []string{"Behavioral Health Clinic", "Asking Price: Not listed", "$1,000,000 - $5,000,000", "FIT_SCORE:"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

type stubRater struct {
	byURL map[string]models.Annotation
	fail  map[string]bool
	calls int
}

func (s *stubRater) Rate(_ context.Context, l *models.Listing) (models.Annotation, error) {
	s.calls++
	if s.fail[l.URL] {
		return models.Annotation{}, errors.New("network down")
	}
	return s.byURL[l.URL], nil
}

func TestAnalyzerAppliesFallbackOnFailure(t *testing.T) {
	stub := &stubRater{
		byURL: map[string]models.Annotation{"u1": {FitScore: "A", Tier: 1, Recommendation: "Pursue - fit"}},
		fail:  map[string]bool{"u2": true},
	}
	a := NewAnalyzer(stub, utils.NewPacerMs(0), newTestLogger())

	listings := []*models.Listing{{URL: "u1"}, {URL: "u2"}}
	a.AnalyzeAll(context.Background(), listings)

	if stub.calls != 2 {
		t.Errorf("calls: got %d, want 2", stub.calls)
	}
	if listings[0].Tier != 1 || listings[0].FitScore != "A" {
		t.Errorf("listing 1 not annotated: %+v", listings[0])
	}
	if listings[1].Tier != 2 || listings[1].FitScore != "?" || listings[1].Recommendation != "Investigate - analysis failed" {
		t.Errorf("listing 2 should carry fallback annotation, got %+v", listings[1])
	}
}

func TestAnalyzerDisabled(t *testing.T) {
	a := NewAnalyzer(nil, nil, newTestLogger())
	listings := []*models.Listing{{URL: "u1"}}
	a.AnalyzeAll(context.Background(), listings)
	if listings[0].Tier != 0 {
		t.Errorf("disabled analyzer should leave tier 0, got %d", listings[0].Tier)
	}
}

func TestFormatDollars(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1,000"},
		{1_000_000, "$1,000,000"},
		{12_345_678, "$12,345,678"},
	}
	for _, tt := range tests {
		if got := FormatDollars(tt.n); got != tt.want {
			t.Errorf("FormatDollars(%d) = %q; want %q", tt.n, got, tt.want)
		}
	}
}
