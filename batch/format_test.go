package batch_test

import (
	"testing"

	"github.com/fwojciec/serp/batch"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when it fits", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.com", batch.TruncateURL("https://x.com", 50))
	})

	t.Run("keeps the tail with an ellipsis", func(t *testing.T) {
		t.Parallel()
		got := batch.TruncateURL("https://www.google.com/search?q=golang&start=20", 20)
		assert.Equal(t, "...q=golang&start=20", got)
		assert.Len(t, got, 20)
	})

	t.Run("returns empty string for non-positive lengths", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, batch.TruncateURL("https://example.com", 0))
		assert.Empty(t, batch.TruncateURL("https://example.com", -1))
	})

	t.Run("returns a prefix when too short for an ellipsis", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "htt", batch.TruncateURL("https://example.com", 3))
		assert.Equal(t, "ab", batch.TruncateURL("ab", 3))
	})
}
