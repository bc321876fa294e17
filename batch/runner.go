// Package batch fetches and parses independent results pages concurrently.
// Each source is a separate query; pages of one query are never followed.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/serp"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when Runner.Concurrency is not positive.
const DefaultConcurrency = 4

// Runner fetches, parses and optionally stores a set of results pages.
type Runner struct {
	Fetcher  serp.Fetcher
	Parser   serp.Parser
	Detector serp.PageDetector

	// Optional. Nil skips the step.
	RateLimiter serp.DomainLimiter
	Pages       serp.PageService
	Writer      serp.RecordWriter
	Logger      *slog.Logger

	Concurrency int
	RetryDelays []time.Duration
}

// Result is the outcome for one source.
type Result struct {
	Source serp.Source
	Page   *serp.Page

	// Record is set once the page is stored in Pages, even if a later
	// write failed.
	Record *serp.Record

	// Kind is set when parsing failed, to explain the failure.
	Kind serp.PageKind
	Err  error
}

// ProgressEvent reports a finished source.
type ProgressEvent struct {
	Completed int
	Total     int
	Result    Result
}

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Run processes every source and returns results in input order. A failure
// on one source never stops the others; only ctx cancellation does.
func (r *Runner) Run(ctx context.Context, sources []serp.Source, progress ProgressFunc) []Result {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(sources))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = r.process(gctx, src)
			if progress != nil {
				progress(ProgressEvent{
					Completed: int(completed.Add(1)),
					Total:     len(sources),
					Result:    results[i],
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) process(ctx context.Context, src serp.Source) Result {
	result := Result{Source: src}

	u, err := url.Parse(src.URL)
	if err != nil || u.Host == "" {
		result.Err = serp.Errorf(serp.EINVALID, "invalid source url %q", src.URL)
		return result
	}

	if r.RateLimiter != nil {
		if err := r.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.Err = err
			return result
		}
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetry(ctx, r.Fetcher, src.URL, delays, r.Logger)
	if err != nil {
		result.Err = err
		return result
	}

	page, err := r.Parser.Parse(html, src)
	if err != nil {
		result.Err = err
		var xe *serp.ExtractionError
		if errors.As(err, &xe) && r.Detector != nil {
			result.Kind = r.Detector.Detect(html)
		}
		return result
	}

	if r.Pages == nil && r.Writer == nil {
		result.Page = page
		return result
	}

	// Page is only reported once every store succeeded. A record created
	// in Pages is not removed when Writer fails; Record carries its ID.
	rec := &serp.Record{Page: page, HTML: html}
	if r.Pages != nil {
		if err := r.Pages.CreateRecord(ctx, rec); err != nil {
			result.Err = err
			return result
		}
		result.Record = rec
	}
	if r.Writer != nil {
		if err := r.Writer.WriteRecord(ctx, rec); err != nil {
			result.Err = err
			return result
		}
	}
	result.Page = page
	result.Record = rec
	return result
}

// Failed counts results that carry an error.
func Failed(results []Result) int {
	var n int
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}
