package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"deal-finder/models"
	"deal-finder/utils"
)

func newTestStore(t *testing.T, max int) (*ReportStore, string) {
	t.Helper()
	root := t.TempDir()
	return NewReportStore(root, "reports", "archive.json", "index.html", max, utils.NewDiscardLogger()), root
}

func TestUpdateArchivePrunesOldest(t *testing.T) {
	s, root := newTestStore(t, 3)

	dates := []string{"2025-01-01", "2025-01-08", "2025-01-15"}
	for _, d := range dates {
		if _, err := s.SaveDated(d, "<html>"+d+"</html>"); err != nil {
			t.Fatalf("SaveDated: %v", err)
		}
		if _, err := s.UpdateArchive(models.ArchiveEntry{Date: d, File: s.ReportPath(d), DealCount: 1}); err != nil {
			t.Fatalf("UpdateArchive: %v", err)
		}
	}

	if _, err := s.SaveDated("2025-01-22", "<html>new</html>"); err != nil {
		t.Fatalf("SaveDated: %v", err)
	}
	archive, err := s.UpdateArchive(models.ArchiveEntry{Date: "2025-01-22", File: s.ReportPath("2025-01-22"), DealCount: 4})
	if err != nil {
		t.Fatalf("UpdateArchive: %v", err)
	}

	if len(archive) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(archive))
	}
	want := []string{"2025-01-22", "2025-01-15", "2025-01-08"}
	for i, e := range archive {
		if e.Date != want[i] {
			t.Errorf("entry %d: got %s, want %s", i, e.Date, want[i])
		}
	}
	if _, err := os.Stat(filepath.Join(root, "reports", "2025-01-01.html")); !os.IsNotExist(err) {
		t.Errorf("oldest report file should be deleted, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "reports", "2025-01-08.html")); err != nil {
		t.Errorf("kept report file missing: %v", err)
	}

	var onDisk []models.ArchiveEntry
	data, err := os.ReadFile(filepath.Join(root, "archive.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("archive.json is not valid JSON: %v", err)
	}
	if len(onDisk) != 3 || onDisk[0].DealCount != 4 {
		t.Errorf("unexpected manifest on disk: %+v", onDisk)
	}
	if !strings.Contains(string(data), `"deal_count": 4`) {
		t.Errorf("manifest should use snake_case keys:\n%s", data)
	}
}

func TestUpdateArchiveReplacesSameDate(t *testing.T) {
	s, _ := newTestStore(t, 12)
	if _, err := s.UpdateArchive(models.ArchiveEntry{Date: "2025-02-01", DealCount: 2}); err != nil {
		t.Fatal(err)
	}
	archive, err := s.UpdateArchive(models.ArchiveEntry{Date: "2025-02-01", DealCount: 7, PursueCount: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(archive) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(archive))
	}
	if archive[0].DealCount != 7 || archive[0].PursueCount != 1 {
		t.Errorf("same-date entry should be replaced, got %+v", archive[0])
	}
}

func TestUpdateArchiveToleratesCorruptManifest(t *testing.T) {
	s, root := newTestStore(t, 12)
	if err := os.WriteFile(filepath.Join(root, "archive.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	archive, err := s.UpdateArchive(models.ArchiveEntry{Date: "2025-02-01"})
	if err != nil {
		t.Fatalf("UpdateArchive: %v", err)
	}
	if len(archive) != 1 {
		t.Errorf("expected fresh manifest with 1 entry, got %d", len(archive))
	}
}

func TestSaveHubAndDated(t *testing.T) {
	s, root := newTestStore(t, 12)
	hub, err := s.SaveHub("<html>hub</html>")
	if err != nil {
		t.Fatal(err)
	}
	if hub != filepath.Join(root, "index.html") {
		t.Errorf("hub path: got %s", hub)
	}
	dated, err := s.SaveDated("2025-03-01", "first")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveDated("2025-03-01", "second"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(dated)
	if string(data) != "second" {
		t.Errorf("same-day report should be overwritten, got %q", data)
	}
	if s.ReportPath("2025-03-01") != "reports/2025-03-01.html" {
		t.Errorf("ReportPath: got %s", s.ReportPath("2025-03-01"))
	}
}

func TestCSVWriterWritesAllRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "raw.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	var raw []*models.RawListing
	for i := 0; i < 12; i++ {
		raw = append(raw, &models.RawListing{
			Source:      "DealStream",
			Title:       "Clinic, \"quoted\"",
			AskingPrice: "$1,200,000",
			URL:         "https://example.com/x",
			ScrapedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		})
	}
	if err := w.WriteRaw(raw); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 13 {
		t.Fatalf("expected header + 12 rows, got %d", len(rows))
	}
	if rows[0][2] != "asking_price" {
		t.Errorf("header: %v", rows[0])
	}
	if rows[1][1] != `Clinic, "quoted"` || rows[1][9] != "2025-01-02T03:04:05Z" {
		t.Errorf("row: %v", rows[1])
	}
}

func TestBuildUpsert(t *testing.T) {
	batch := []*models.Listing{
		{FoundDate: "2025-01-02", URL: "https://example.com/1", Title: "A", Tags: []models.Tag{{Label: "CA", Status: models.TagMeets}}},
		{FoundDate: "2025-01-02", URL: "https://example.com/2", Title: "B"},
	}
	query, args, err := buildUpsert(batch)
	if err != nil {
		t.Fatal(err)
	}
	if len(args) != 2*len(dealColumns) {
		t.Fatalf("expected %d args, got %d", 2*len(dealColumns), len(args))
	}
	if !strings.Contains(query, "$30)") {
		t.Errorf("placeholders should run to $30:\n%s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (found_date, url) DO UPDATE SET source = EXCLUDED.source") {
		t.Errorf("missing upsert clause:\n%s", query)
	}
	if strings.Contains(query, "url = EXCLUDED.url") {
		t.Error("key columns must not be updated")
	}
	if args[13] != `[{"label":"CA","type":"hit"}]` {
		t.Errorf("tags arg: got %v", args[13])
	}
	if args[len(dealColumns)+13] != "[]" {
		t.Errorf("nil tags should encode as [], got %v", args[len(dealColumns)+13])
	}
}
