package mock

import (
	"context"

	"github.com/fwojciec/serp"
)

// Compile-time interface verification.
var (
	_ serp.PageService  = (*PageService)(nil)
	_ serp.RecordWriter = (*RecordWriter)(nil)
)

// PageService is a mock implementation of serp.PageService.
type PageService struct {
	CreateRecordFn   func(ctx context.Context, rec *serp.Record) error
	FindRecordByIDFn func(ctx context.Context, id string) (*serp.Record, error)
	FindRecordsFn    func(ctx context.Context, filter serp.RecordFilter) ([]*serp.Record, error)
	DeleteRecordFn   func(ctx context.Context, id string) error
}

func (s *PageService) CreateRecord(ctx context.Context, rec *serp.Record) error {
	return s.CreateRecordFn(ctx, rec)
}

func (s *PageService) FindRecordByID(ctx context.Context, id string) (*serp.Record, error) {
	return s.FindRecordByIDFn(ctx, id)
}

func (s *PageService) FindRecords(ctx context.Context, filter serp.RecordFilter) ([]*serp.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *PageService) DeleteRecord(ctx context.Context, id string) error {
	return s.DeleteRecordFn(ctx, id)
}

// RecordWriter is a mock implementation of serp.RecordWriter.
type RecordWriter struct {
	WriteRecordFn func(ctx context.Context, rec *serp.Record) error
}

func (w *RecordWriter) WriteRecord(ctx context.Context, rec *serp.Record) error {
	return w.WriteRecordFn(ctx, rec)
}
