package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"deal-finder/models"
)

// dealColumns is the insert order used by buildUpsert.
var dealColumns = []string{
	"found_date", "url", "source", "title", "asking_price", "revenue",
	"cash_flow", "ebitda", "location", "score", "tier", "fit_score",
	"recommendation", "tags", "next_step",
}

const upsertBatchSize = 50

// PostgresWriter appends each run's listings to a deals history table.
// Rows are keyed by (found_date, url); the table is never read back by the
// finder.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, creates the schema if
// needed, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS deals (
			id             SERIAL PRIMARY KEY,
			found_date     DATE        NOT NULL,
			url            TEXT        NOT NULL,
			source         VARCHAR(64) NOT NULL,
			title          TEXT        NOT NULL,
			asking_price   TEXT        NOT NULL DEFAULT '',
			revenue        TEXT        NOT NULL DEFAULT '',
			cash_flow      TEXT        NOT NULL DEFAULT '',
			ebitda         TEXT        NOT NULL DEFAULT '',
			location       TEXT        NOT NULL DEFAULT '',
			score          INTEGER     NOT NULL DEFAULT 0,
			tier           SMALLINT    NOT NULL DEFAULT 0,
			fit_score      VARCHAR(8)  NOT NULL DEFAULT '',
			recommendation TEXT        NOT NULL DEFAULT '',
			tags           JSONB       NOT NULL DEFAULT '[]',
			next_step      TEXT        NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (found_date, url)
		);

		CREATE INDEX IF NOT EXISTS idx_deals_source ON deals(source);
		CREATE INDEX IF NOT EXISTS idx_deals_tier   ON deals(tier);
	`)
	return err
}

// Write upserts listings in batches. Re-running on the same day overwrites
// that day's rows instead of duplicating them.
func (pw *PostgresWriter) Write(ctx context.Context, listings []*models.Listing) error {
	for i := 0; i < len(listings); i += upsertBatchSize {
		end := i + upsertBatchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args, err := buildUpsert(listings[i:end])
		if err != nil {
			return err
		}
		if _, err := pw.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: upsert batch at %d: %w", i, err)
		}
	}
	return nil
}

func buildUpsert(batch []*models.Listing) (string, []any, error) {
	n := len(dealColumns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*n)

	for idx, l := range batch {
		tags := l.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		tagJSON, err := json.Marshal(tags)
		if err != nil {
			return "", nil, fmt.Errorf("postgres: encode tags for %s: %w", l.URL, err)
		}

		placeholders := make([]string, n)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*n+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.FoundDate, l.URL, l.Source, l.Title, l.AskingPrice, l.Revenue,
			l.CashFlow, l.EBITDA, l.Location, l.Score, l.Tier, l.FitScore,
			l.Recommendation, string(tagJSON), l.NextStep)
	}

	updates := make([]string, 0, n-2)
	for _, c := range dealColumns[2:] {
		updates = append(updates, c+" = EXCLUDED."+c)
	}

	query := fmt.Sprintf(`
		INSERT INTO deals (%s)
		VALUES %s
		ON CONFLICT (found_date, url) DO UPDATE SET %s
	`, strings.Join(dealColumns, ", "), strings.Join(valueStrings, ","), strings.Join(updates, ", "))
	return query, valueArgs, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
