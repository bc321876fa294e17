package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/fwojciec/serp"
	"github.com/fwojciec/serp/goquery"
	serphttp "github.com/fwojciec/serp/http"
	"github.com/fwojciec/serp/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsHTML = `<html><body><div id="search">
<h3 class="r"><a href="/url?q=https://golang.org/&amp;sa=U">Go</a></h3>
</div>
<div id="resultStats">About 2,000 results (0.12 seconds)</div>
</body></html>`

func parseURL(params url.Values) string {
	return "/parse?" + params.Encode()
}

func TestServer_Parse(t *testing.T) {
	t.Parallel()

	t.Run("returns the parsed page as JSON", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), goquery.NewDetector())
		params := url.Values{"url": {"https://www.google.com/search?q=go"}, "start": {"10"}, "page": {"2"}}
		req := httptest.NewRequest(http.MethodPost, parseURL(params), strings.NewReader(resultsHTML))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var page serp.Page
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
		assert.Equal(t, []string{"https://golang.org/"}, page.ResultLinks)
		assert.Equal(t, "google.com", page.Domain)
		assert.Equal(t, 10, page.StartOffset)
		assert.Equal(t, 2, page.PageNumber)
		require.NotNil(t, page.TotalResults)
		assert.Equal(t, int64(2000), *page.TotalResults)
		assert.Nil(t, page.NextPageLink)
	})

	t.Run("rejects requests without a source url", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), goquery.NewDetector())
		req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(resultsHTML))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "url query parameter required")
	})

	t.Run("rejects invalid page numbers", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), goquery.NewDetector())
		params := url.Values{"url": {"https://www.google.com/search?q=go"}, "page": {"zero"}}
		req := httptest.NewRequest(http.MethodPost, parseURL(params), strings.NewReader(resultsHTML))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reports extraction failures with the detected page kind", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), goquery.NewDetector())
		params := url.Values{"url": {"https://www.google.com/search?q=go"}}
		body := `<html><body><form id="captcha-form"></form></body></html>`
		req := httptest.NewRequest(http.MethodPost, parseURL(params), strings.NewReader(body))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, serp.EEXTRACT, resp["code"])
		assert.Equal(t, "blocked", resp["kind"])
		assert.Contains(t, resp["error"], "search result urls")
	})

	t.Run("stores the page when asked to save", func(t *testing.T) {
		t.Parallel()

		var stored *serp.Record
		s := serphttp.NewServer(goquery.NewParser(), goquery.NewDetector())
		s.Pages = &mock.PageService{
			CreateRecordFn: func(_ context.Context, rec *serp.Record) error {
				rec.ID = "rec-1"
				stored = rec
				return nil
			},
		}
		params := url.Values{"url": {"https://www.google.com/search?q=go"}, "save": {"true"}}
		req := httptest.NewRequest(http.MethodPost, parseURL(params), strings.NewReader(resultsHTML))
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, stored)
		assert.Equal(t, resultsHTML, stored.HTML)
		assert.Contains(t, rec.Body.String(), `"id":"rec-1"`)
		assert.NotContains(t, rec.Body.String(), "resultStats")
	})

	t.Run("rejects other methods", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), goquery.NewDetector())
		req := httptest.NewRequest(http.MethodGet, "/parse", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	})
}

func TestServer_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("fetches and parses the page, deriving the page number from the url", func(t *testing.T) {
		t.Parallel()

		var fetched, waited string
		s := serphttp.NewServer(goquery.NewParser(), goquery.NewDetector())
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, u string) (string, error) {
				fetched = u
				return resultsHTML, nil
			},
		}
		s.Limiter = limiterFunc(func(_ context.Context, domain string) error {
			waited = domain
			return nil
		})
		target := "https://www.google.com/search?q=go&start=20"
		req := httptest.NewRequest(http.MethodPost, "/fetch?"+url.Values{"url": {target}}.Encode(), nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, target, fetched)
		assert.Equal(t, "www.google.com", waited)
		var page serp.Page
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
		assert.Equal(t, []string{"https://golang.org/"}, page.ResultLinks)
		assert.Equal(t, 20, page.StartOffset)
		assert.Equal(t, 3, page.PageNumber)
	})

	t.Run("maps fetch failures to bad gateway", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), goquery.NewDetector())
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, u string) (string, error) {
				return "", errors.New("HTTP 503 for " + u)
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/fetch?url=https://www.google.com/search?q=go", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "HTTP 503")
	})

	t.Run("rejects a missing url", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), nil)
		s.Fetcher = &mock.Fetcher{}
		req := httptest.NewRequest(http.MethodPost, "/fetch", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 404 without a fetcher", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), nil)
		req := httptest.NewRequest(http.MethodPost, "/fetch?url=https://www.google.com/search?q=go", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

type limiterFunc func(ctx context.Context, domain string) error

func (f limiterFunc) Wait(ctx context.Context, domain string) error { return f(ctx, domain) }

func TestServer_Records(t *testing.T) {
	t.Parallel()

	t.Run("lists records filtered by domain", func(t *testing.T) {
		t.Parallel()

		var got serp.RecordFilter
		s := serphttp.NewServer(goquery.NewParser(), nil)
		s.Pages = &mock.PageService{
			FindRecordsFn: func(_ context.Context, filter serp.RecordFilter) ([]*serp.Record, error) {
				got = filter
				return []*serp.Record{{ID: "a", Page: &serp.Page{SourceURL: "https://www.google.com/search?q=go"}}}, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/records?domain=google.com&limit=5", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got.Domain)
		assert.Equal(t, "google.com", *got.Domain)
		assert.Equal(t, 5, got.Limit)
		assert.Contains(t, rec.Body.String(), `"id":"a"`)
	})

	t.Run("maps not found errors to 404", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), nil)
		s.Pages = &mock.PageService{
			FindRecordByIDFn: func(_ context.Context, id string) (*serp.Record, error) {
				return nil, serp.Errorf(serp.ENOTFOUND, "record not found")
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/records/missing", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "record not found")
	})

	t.Run("deletes records", func(t *testing.T) {
		t.Parallel()

		var deleted string
		s := serphttp.NewServer(goquery.NewParser(), nil)
		s.Pages = &mock.PageService{
			DeleteRecordFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}
		req := httptest.NewRequest(http.MethodDelete, "/records/abc", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "abc", deleted)
	})

	t.Run("returns 404 without a page service", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), nil)
		req := httptest.NewRequest(http.MethodGet, "/records", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s := serphttp.NewServer(goquery.NewParser(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	t.Run("serves the configured metrics handler", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), nil)
		s.Metrics = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("serp_parse_total 1\n"))
		})
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "serp_parse_total 1\n", rec.Body.String())
	})

	t.Run("returns 404 without metrics", func(t *testing.T) {
		t.Parallel()

		s := serphttp.NewServer(goquery.NewParser(), nil)
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
