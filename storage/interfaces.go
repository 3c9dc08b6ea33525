package storage

import (
	"context"

	"deal-finder/models"
)

// ListingWriter persists a run's final listings.
type ListingWriter interface {
	Write(ctx context.Context, listings []*models.Listing) error
	Close() error
}

// RawListingWriter persists every candidate the adapters produced, before filtering.
type RawListingWriter interface {
	WriteRaw(listings []*models.RawListing) error
	Close() error
}

var (
	_ ListingWriter    = (*PostgresWriter)(nil)
	_ RawListingWriter = (*CSVWriter)(nil)
)
