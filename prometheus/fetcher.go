package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/serp"
)

var _ serp.Fetcher = (*Fetcher)(nil)

// Fetcher counts fetches and observes their duration.
type Fetcher struct {
	next    serp.Fetcher
	metrics *Metrics
}

// NewFetcher wraps next with metrics.
func NewFetcher(next serp.Fetcher, metrics *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: metrics}
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()
	html, err := f.next.Fetch(ctx, url)
	f.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	status := StatusOK
	if err != nil {
		status = StatusError
	}
	f.metrics.FetchesTotal.WithLabelValues(status).Inc()
	return html, err
}

// Close closes the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}
