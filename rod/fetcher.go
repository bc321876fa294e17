// Package rod fetches JavaScript-rendered results pages with headless Chrome.
package rod

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/serp"
	"github.com/go-rod/rod/lib/proto"
)

var _ serp.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 30 * time.Second

// DefaultRecycleAfter is the number of pages a browser serves before it is
// replaced by a fresh one.
const DefaultRecycleAfter = 50

// Fetcher retrieves rendered HTML from headless Chrome. After recycleAfter
// pages it launches a new browser for subsequent fetches; the old one is shut
// down once its in-flight pages finish.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout      time.Duration
	userAgent    string
	recycleAfter int64

	mu      sync.Mutex
	current *browser
	closed  bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each page load. Zero disables the bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRecycleAfter replaces the browser after n pages. Zero or less keeps
// one browser for the Fetcher's lifetime.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(f)
	}

	b, err := launch()
	if err != nil {
		return nil, err
	}
	f.current = b
	return f, nil
}

// Fetch navigates to url, waits for the load event and returns the rendered
// HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b, err := f.acquire()
	if err != nil {
		return "", err
	}
	defer f.release(b)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := b.rod.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()
	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", err
		}
	}
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// acquire returns the browser for the next page, replacing the current one
// first when it has served recycleAfter pages. A failed relaunch keeps the
// current browser in service.
func (f *Fetcher) acquire() (*browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, serp.Errorf(serp.EINVALID, "fetcher is closed")
	}

	if f.recycleAfter > 0 && f.current.served >= f.recycleAfter {
		if next, err := launch(); err == nil {
			old := f.current
			f.current = next
			old.retired = true
			if old.inflight == 0 {
				_ = old.close()
			}
		}
	}

	b := f.current
	b.served++
	b.inflight++
	return b, nil
}

// release finishes a page on b and shuts b down if it was retired and this
// was its last page.
func (f *Fetcher) release(b *browser) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b.inflight--
	if b.retired && b.inflight == 0 {
		_ = b.close()
	}
}

// LauncherPID returns the process ID of the browser serving new fetches, or
// 0 once closed.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.pid()
}

// Close shuts down the current browser. Fetches still in flight fail.
// Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	f.current.retired = true
	return f.current.close()
}
