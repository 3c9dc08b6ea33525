package services

import (
	"testing"

	"deal-finder/models"
	"deal-finder/utils"
)

func newTestLogger() *utils.Logger { return utils.NewDiscardLogger() }

func TestCleanerDeduplicatesURLFirstWins(t *testing.T) {
	c := NewCleaner(newTestLogger())
	in := []*models.Listing{
		{Title: "First home health agency", URL: "https://example.com/1", Score: 5},
		{Title: "Second home health agency", URL: "https://example.com/1", Score: 50},
	}

	out := c.Clean(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 listing after deduplication, got %d", len(out))
	}
	if out[0].Title != "First home health agency" {
		t.Errorf("expected first occurrence to win, got %q", out[0].Title)
	}
}

func TestCleanerDropsJunk(t *testing.T) {
	c := NewCleaner(newTestLogger())
	in := []*models.Listing{
		{Title: "  View Listing ", URL: "https://example.com/a"},
		{Title: "Search Results", URL: "https://example.com/b"},
		{Title: "", URL: "https://example.com/c"},
		{Title: "Counseling group practice", Description: "No Listings Found for this query", URL: "https://example.com/d"},
		{Title: "Dent", URL: "https://example.com/e"},
		{Title: "Clinc", URL: "https://example.com/f"},
		{Title: "Psychiatry group", URL: "https://example.com/g"},
	}

	out := c.Clean(in)
	if len(out) != 1 || out[0].URL != "https://example.com/g" {
		t.Fatalf("expected only the psychiatry listing to survive, got %d listings", len(out))
	}
}

func TestCleanerJunkDoesNotBlockLaterURL(t *testing.T) {
	c := NewCleaner(newTestLogger())
	in := []*models.Listing{
		{Title: "View Listing", URL: "https://example.com/1"},
		{Title: "Home care agency in Fresno", URL: "https://example.com/1"},
	}

	out := c.Clean(in)
	if len(out) != 1 || out[0].Title != "Home care agency in Fresno" {
		t.Fatalf("expected the real listing to survive, got %+v", out)
	}
}

func TestCleanerStableSortByScore(t *testing.T) {
	c := NewCleaner(newTestLogger())
	in := []*models.Listing{
		{Title: "Listing alpha", URL: "u1", Score: 10},
		{Title: "Listing bravo", URL: "u2", Score: 30},
		{Title: "Listing charlie", URL: "u3", Score: 10},
		{Title: "Listing delta", URL: "u4", Score: 30},
	}

	out := c.Clean(in)
	want := []string{"u2", "u4", "u1", "u3"}
	for i, l := range out {
		if l.URL != want[i] {
			t.Errorf("position %d: got %s, want %s", i, l.URL, want[i])
		}
	}
}

func TestCleanerEmptyInput(t *testing.T) {
	c := NewCleaner(newTestLogger())
	if out := c.Clean(nil); len(out) != 0 {
		t.Errorf("expected empty output, got %d", len(out))
	}
}
