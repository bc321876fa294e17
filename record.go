package serp

import (
	"context"
	"time"
)

// Record is a parsed page as stored by a PageService.
type Record struct {
	ID          string    `json:"id"`
	Page        *Page     `json:"page"`
	ContentHash string    `json:"contentHash"`
	ParsedAt    time.Time `json:"parsedAt"`

	// HTML is the raw markup the page was parsed from. Services hash it
	// into ContentHash; it is not stored.
	HTML string `json:"-"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.Page == nil {
		return Errorf(EINVALID, "record page required")
	}
	if r.Page.SourceURL == "" {
		return Errorf(EINVALID, "record source URL required")
	}
	return nil
}

// PageService represents a service for storing parsed pages.
type PageService interface {
	// CreateRecord stores a new record. ID, ParsedAt and ContentHash are
	// assigned by the service.
	CreateRecord(ctx context.Context, rec *Record) error

	// FindRecordByID retrieves a record by ID.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByID(ctx context.Context, id string) (*Record, error)

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// DeleteRecord permanently removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, id string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	ID        *string `json:"id"`
	Domain    *string `json:"domain"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordWriter writes records outside of the database, e.g. to files.
type RecordWriter interface {
	WriteRecord(ctx context.Context, rec *Record) error
}
