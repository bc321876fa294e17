package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/serp"
	"github.com/fwojciec/serp/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCreateRecord measures inserts of a ten-result page, the shape a
// fetch run writes.
func BenchmarkCreateRecord(b *testing.B) {
	b.Run("memory", func(b *testing.B) {
		benchmarkCreateRecord(b, ":memory:")
	})

	b.Run("wal_file", func(b *testing.B) {
		benchmarkCreateRecord(b, filepath.Join(b.TempDir(), "bench.db"))
	})
}

func benchmarkCreateRecord(b *testing.B, path string) {
	b.Helper()

	db := sqlite.NewDB(path)
	require.NoError(b, db.Open())
	defer db.Close()

	svc := sqlite.NewPageService(db)
	ctx := context.Background()

	links := make([]string, 10)
	for i := range links {
		links[i] = fmt.Sprintf("https://example.com/result%d", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := &serp.Record{
			Page: &serp.Page{
				Engine:      serp.EngineGoogle,
				SourceURL:   fmt.Sprintf("https://www.google.com/search?q=q%d", i),
				Domain:      "google.com",
				PageNumber:  1,
				ResultLinks: links,
			},
			HTML: fmt.Sprintf("<html>%d</html>", i),
		}
		if err := svc.CreateRecord(ctx, rec); err != nil {
			b.Fatal(err)
		}
	}
}
