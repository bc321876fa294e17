// Package fs writes parsed results pages to a directory as markdown files.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/serp"
	"github.com/google/uuid"
)

var _ serp.RecordWriter = (*Store)(nil)

// Store implements serp.RecordWriter with atomic update semantics.
// Records are written to baseDir/name.tmp and moved to baseDir/name on Commit,
// so a failed run never leaves a partial output directory behind.
type Store struct {
	baseDir string
	name    string

	mu sync.Mutex
}

// NewStore creates a new Store.
func NewStore(baseDir, name string) *Store {
	return &Store{baseDir: baseDir, name: name}
}

func (s *Store) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *Store) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// RecordPath returns the path of rec relative to the output directory:
// <domain>/<id>.md.
func RecordPath(rec *serp.Record) (string, error) {
	domain := rec.Page.Domain
	if domain == "" {
		domain = "unknown"
	}
	if strings.ContainsAny(domain, `/\`) || strings.Contains(domain, "..") {
		return "", serp.Errorf(serp.EINVALID, "path traversal in domain %q", domain)
	}
	if strings.ContainsAny(rec.ID, `/\`) || strings.Contains(rec.ID, "..") {
		return "", serp.Errorf(serp.EINVALID, "path traversal in id %q", rec.ID)
	}
	return filepath.Join(domain, rec.ID+".md"), nil
}

// WriteRecord writes rec to the temporary directory. Records without an ID
// are assigned one, and a zero ParsedAt is set to the current time.
func (s *Store) WriteRecord(ctx context.Context, rec *serp.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.ParsedAt.IsZero() {
		rec.ParsedAt = time.Now().UTC()
	}

	relPath, err := RecordPath(rec)
	if err != nil {
		return err
	}

	content, err := FormatRecord(rec)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit replaces the output directory with everything written so far.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		return fmt.Errorf("nothing to commit in %s", s.tempDir())
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything written since the last Commit.
func (s *Store) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(s.tempDir())
}
