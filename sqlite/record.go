package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/serp"
	"github.com/google/uuid"
)

var _ serp.PageService = (*PageService)(nil)

// PageService implements serp.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// hashContent returns the big-endian hex xxHash of content.
func hashContent(content string) string {
	var b [8]byte
	h := xxhash.Sum64String(content)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b[:])
}

const recordColumns = `id, engine, source_url, protocol, domain, start_offset, page_number,
	total_results, retrieval_time, previous_page_link, skipped_previous,
	next_page_link, skipped_next, location, content_hash, parsed_at`

// CreateRecord stores a parsed page and its result links in one transaction.
func (s *PageService) CreateRecord(ctx context.Context, rec *serp.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.ParsedAt = time.Now().UTC()
	rec.ContentHash = hashContent(rec.HTML)

	p := rec.Page
	skippedPrev, err := encodeLinks(p.SkippedPreviousPageLinks)
	if err != nil {
		return err
	}
	skippedNext, err := encodeLinks(p.SkippedNextPageLinks)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(p.Engine), p.SourceURL, p.Protocol, p.Domain, p.StartOffset, p.PageNumber,
		p.TotalResults, p.RetrievalTime, p.PreviousPageLink, skippedPrev,
		p.NextPageLink, skippedNext, p.Location, rec.ContentHash, rec.ParsedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	for i, link := range p.ResultLinks {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO result_links (record_id, position, url) VALUES (?, ?, ?)",
			rec.ID, i, link); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRecordByID retrieves a record by ID.
func (s *PageService) FindRecordByID(ctx context.Context, id string) (*serp.Record, error) {
	recs, err := s.FindRecords(ctx, serp.RecordFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, serp.Errorf(serp.ENOTFOUND, "record not found")
	}
	return recs[0], nil
}

// FindRecords retrieves records matching the filter, newest first.
func (s *PageService) FindRecords(ctx context.Context, filter serp.RecordFilter) ([]*serp.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM records WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Domain != nil {
		query.WriteString(" AND domain = ?")
		args = append(args, *filter.Domain)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY parsed_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	recs, err := s.queryRecords(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}

	// Links are loaded after the records cursor is closed; the pool holds a
	// single connection.
	for _, rec := range recs {
		if rec.Page.ResultLinks, err = s.findResultLinks(ctx, rec.ID); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// DeleteRecord permanently removes a record and its result links.
func (s *PageService) DeleteRecord(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return serp.Errorf(serp.ENOTFOUND, "record not found")
	}
	return nil
}

func (s *PageService) queryRecords(ctx context.Context, query string, args ...any) ([]*serp.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*serp.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *PageService) findResultLinks(ctx context.Context, recordID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT url FROM result_links WHERE record_id = ? ORDER BY position ASC", recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func scanRecord(rows *sql.Rows) (*serp.Record, error) {
	var (
		rec         serp.Record
		p           serp.Page
		engine      string
		total       sql.NullInt64
		elapsed     sql.NullFloat64
		prev, next  sql.NullString
		location    sql.NullString
		skippedPrev string
		skippedNext string
		parsedAt    string
	)

	if err := rows.Scan(&rec.ID, &engine, &p.SourceURL, &p.Protocol, &p.Domain,
		&p.StartOffset, &p.PageNumber, &total, &elapsed, &prev, &skippedPrev,
		&next, &skippedNext, &location, &rec.ContentHash, &parsedAt); err != nil {
		return nil, err
	}

	p.Engine = serp.Engine(engine)
	if total.Valid {
		p.TotalResults = &total.Int64
	}
	if elapsed.Valid {
		p.RetrievalTime = &elapsed.Float64
	}
	p.PreviousPageLink = nullString(prev)
	p.NextPageLink = nullString(next)
	p.Location = nullString(location)

	var err error
	if p.SkippedPreviousPageLinks, err = decodeLinks(skippedPrev, "skipped_previous"); err != nil {
		return nil, err
	}
	if p.SkippedNextPageLinks, err = decodeLinks(skippedNext, "skipped_next"); err != nil {
		return nil, err
	}
	if rec.ParsedAt, err = parseRFC3339(parsedAt, "parsed_at"); err != nil {
		return nil, err
	}

	rec.Page = &p
	return &rec, nil
}
