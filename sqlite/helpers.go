package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// parseRFC3339 parses a stored timestamp, naming the column on failure.
func parseRFC3339(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses for positive values.
// SQLite only accepts OFFSET after a LIMIT, so an offset without a limit
// is written as LIMIT -1 (no upper bound).
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// encodeLinks stores a link list as a JSON array; nil is stored as [].
func encodeLinks(links []string) (string, error) {
	if links == nil {
		links = []string{}
	}
	b, err := json.Marshal(links)
	if err != nil {
		return "", fmt.Errorf("failed to encode links: %w", err)
	}
	return string(b), nil
}

// decodeLinks returns nil for an empty list so stored pages compare equal to
// freshly parsed ones.
func decodeLinks(value, column string) ([]string, error) {
	var links []string
	if err := json.Unmarshal([]byte(value), &links); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", column, err)
	}
	if len(links) == 0 {
		return nil, nil
	}
	return links, nil
}
