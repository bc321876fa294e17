package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	main "github.com/fwojciec/serp/cmd/serp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Store and Inspect Parsed Pages
// Parsed pages saved to the database can be listed, shown and deleted

func run(t *testing.T, dbPath, stdin string, args ...string) (string, string, error) {
	t.Helper()

	m := main.NewMain()
	m.DBPath = dbPath
	m.Stdin = strings.NewReader(stdin)
	m.Fetcher = pagesFetcher(map[string]string{sourceURL: resultsPage})

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

var recordID = regexp.MustCompile(`Saved record ([0-9a-f-]{36})`)

func TestMain_Run_SaveListShowDelete(t *testing.T) {
	t.Parallel()

	// Given an empty database
	dbPath := filepath.Join(t.TempDir(), "serp.db")

	// When I parse a page from stdin with --save
	stdout, stderr, err := run(t, dbPath, resultsPage, "parse", "--url", sourceURL, "--start", "10", "--page", "2", "--save")

	// Then the page summary is printed and a record ID reported
	require.NoError(t, err)
	assert.Contains(t, stdout, "results (2):")
	m := recordID.FindStringSubmatch(stderr)
	require.Len(t, m, 2, "stderr: %s", stderr)
	id := m[1]

	// And the record appears in the list
	stdout, _, err = run(t, dbPath, "", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, id)
	assert.Contains(t, stdout, "google.com")

	// And show prints the stored page
	stdout, _, err = run(t, dbPath, "", "show", id)
	require.NoError(t, err)
	assert.Contains(t, stdout, "id: "+id)
	assert.Contains(t, stdout, "total results: 2000")
	assert.Contains(t, stdout, "next: https://www.google.com/search?q=golang&start=20")

	// When I delete it
	_, _, err = run(t, dbPath, "", "delete", id, "--force")
	require.NoError(t, err)

	// Then the list is empty again
	stdout, _, err = run(t, dbPath, "", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No records found")
}

func TestMain_Run_ParseWithoutSaveSkipsDatabase(t *testing.T) {
	t.Parallel()

	// Given a database path in a directory that does not exist
	dbPath := filepath.Join(t.TempDir(), "missing", "serp.db")

	// When I parse without --save
	stdout, _, err := run(t, dbPath, resultsPage, "parse", "--url", sourceURL, "--page", "2")

	// Then parsing succeeds without touching the database
	require.NoError(t, err)
	assert.Contains(t, stdout, "total results: 2000")
	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMain_Run_FetchDerivesPageFromURL(t *testing.T) {
	t.Parallel()

	// Given a fetcher that serves one results page
	dbPath := filepath.Join(t.TempDir(), "serp.db")

	// When I fetch its URL and save the result
	stdout, stderr, err := run(t, dbPath, "", "fetch", "--save", sourceURL)

	// Then the page number is derived from the start parameter
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "page: 2 (start 10)")
	assert.Contains(t, stdout, "record: ")

	// And the record is stored
	stdout, _, err = run(t, dbPath, "", "list", "--domain", "google.com")
	require.NoError(t, err)
	assert.Contains(t, stdout, sourceURL)
}

func TestMain_Run_ReportsDatabaseErrors(t *testing.T) {
	t.Parallel()

	// Given a database path that cannot be created
	dbPath := filepath.Join(t.TempDir(), "missing", "serp.db")

	// When I list records
	_, stderr, err := run(t, dbPath, "", "list")

	// Then the error includes a hint
	require.Error(t, err)
	assert.Contains(t, stderr, "SERP_DB")
}
