package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"deal-finder/models"
	"deal-finder/utils"
)

// ReportStore lays out the report directory:
//
//	<root>/index.html          hub page
//	<root>/archive.json        manifest, newest first
//	<root>/reports/<date>.html one standalone page per run date
type ReportStore struct {
	root        string
	reportsDir  string
	archiveFile string
	hubFile     string
	maxReports  int
	logger      *utils.Logger
}

// NewReportStore creates a store rooted at root. reportsDir, archiveFile and
// hubFile are relative to root.
func NewReportStore(root, reportsDir, archiveFile, hubFile string, maxReports int, logger *utils.Logger) *ReportStore {
	return &ReportStore{
		root:        root,
		reportsDir:  reportsDir,
		archiveFile: archiveFile,
		hubFile:     hubFile,
		maxReports:  maxReports,
		logger:      logger,
	}
}

// ReportPath returns the manifest-relative path of a dated report.
func (s *ReportStore) ReportPath(date string) string {
	return filepath.ToSlash(filepath.Join(s.reportsDir, date+".html"))
}

// SaveDated writes the standalone report for date, replacing any earlier
// report from the same day. It returns the absolute file path.
func (s *ReportStore) SaveDated(date, html string) (string, error) {
	dir := filepath.Join(s.root, s.reportsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("reports: create dir: %w", err)
	}
	path := filepath.Join(s.root, filepath.FromSlash(s.ReportPath(date)))
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("reports: write %q: %w", path, err)
	}
	return path, nil
}

// UpdateArchive records entry in the manifest. A same-date entry is replaced,
// entries are kept newest first, and anything beyond the configured maximum
// is dropped along with its report file. An unreadable manifest is treated as
// empty.
func (s *ReportStore) UpdateArchive(entry models.ArchiveEntry) ([]models.ArchiveEntry, error) {
	archive := s.LoadArchive()

	kept := archive[:0]
	for _, e := range archive {
		if e.Date != entry.Date {
			kept = append(kept, e)
		}
	}
	archive = append(kept, entry)

	// ISO dates sort lexically.
	sort.SliceStable(archive, func(i, j int) bool {
		return archive[i].Date > archive[j].Date
	})

	for len(archive) > s.maxReports {
		old := archive[len(archive)-1]
		archive = archive[:len(archive)-1]
		s.prune(old)
	}

	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("archive: encode: %w", err)
	}
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return nil, fmt.Errorf("archive: create dir: %w", err)
	}
	path := filepath.Join(s.root, s.archiveFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("archive: write %q: %w", path, err)
	}
	return archive, nil
}

// LoadArchive reads the manifest, returning an empty list when it is missing
// or cannot be decoded.
func (s *ReportStore) LoadArchive() []models.ArchiveEntry {
	path := filepath.Join(s.root, s.archiveFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("[store] Could not read %s: %v", path, err)
		}
		return nil
	}
	var archive []models.ArchiveEntry
	if err := json.Unmarshal(data, &archive); err != nil {
		s.logger.Warn("[store] Ignoring unreadable archive %s: %v", path, err)
		return nil
	}
	return archive
}

func (s *ReportStore) prune(e models.ArchiveEntry) {
	path := filepath.Join(s.root, filepath.FromSlash(e.File))
	err := os.Remove(path)
	switch {
	case err == nil:
		s.logger.Info("[store] Pruned old report: %s", e.Date)
	case !errors.Is(err, os.ErrNotExist):
		s.logger.Warn("[store] Could not delete %s: %v", path, err)
	}
}

// SaveHub writes the hub page and returns its path.
func (s *ReportStore) SaveHub(html string) (string, error) {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("hub: create dir: %w", err)
	}
	path := filepath.Join(s.root, s.hubFile)
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("hub: write %q: %w", path, err)
	}
	return path, nil
}
