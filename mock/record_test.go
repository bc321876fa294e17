package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/serp"
	"github.com/fwojciec/serp/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWriter_WriteRecord(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteRecordFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *serp.Record
		w := &mock.RecordWriter{
			WriteRecordFn: func(_ context.Context, rec *serp.Record) error {
				calledWith = rec
				return nil
			},
		}

		rec := &serp.Record{ID: "abc"}
		err := w.WriteRecord(context.Background(), rec)

		require.NoError(t, err)
		assert.Same(t, rec, calledWith)
	})
}
