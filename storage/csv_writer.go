package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"deal-finder/models"
)

var rawHeader = []string{
	"source", "title", "asking_price", "revenue", "cash_flow", "ebitda",
	"location", "url", "description", "scraped_at",
}

// CSVWriter dumps raw candidates to a CSV file so extraction problems can be
// inspected after a run.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(rawHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends one row per candidate.
func (c *CSVWriter) WriteRaw(listings []*models.RawListing) error {
	for _, l := range listings {
		row := []string{
			l.Source,
			l.Title,
			l.AskingPrice,
			l.Revenue,
			l.CashFlow,
			l.EBITDA,
			l.Location,
			l.URL,
			l.Description,
			l.ScrapedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
