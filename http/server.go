package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/serp"
)

// MaxBodyBytes caps the size of markup accepted by the parse endpoint.
const MaxBodyBytes = 10 << 20

// Server exposes the parser over HTTP.
type Server struct {
	Parser   serp.Parser
	Detector serp.PageDetector

	// Pages stores parsed pages when a request asks for it. Optional.
	Pages serp.PageService

	// Fetcher retrieves pages for the fetch endpoint, paced by Limiter.
	// The endpoint is disabled when Fetcher is nil. Optional.
	Fetcher serp.Fetcher
	Limiter serp.DomainLimiter

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler

	mux *http.ServeMux
}

// NewServer wires handlers onto an HTTP mux.
func NewServer(parser serp.Parser, detector serp.PageDetector) *Server {
	s := &Server{
		Parser:   parser,
		Detector: detector,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP satisfies the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/parse", s.handleParse)
	s.mux.HandleFunc("/fetch", s.handleFetch)
	s.mux.HandleFunc("/records", s.handleRecords)
	s.mux.HandleFunc("/records/", s.handleRecordByID)
	s.mux.HandleFunc("/metrics", s.handleMetrics)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	s.Metrics.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// handleParse parses the request body as a results page. The query string
// carries the source: url (required), start and page.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	src, err := sourceFromQuery(r)
	if err != nil {
		writeError(w, err, serp.PageKindUnknown)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Code:    serp.EINVALID,
			Message: fmt.Sprintf("body exceeds %d bytes", maxErr.Limit),
		})
		return
	} else if err != nil {
		writeError(w, serp.Errorf(serp.EINVALID, "failed to read body: %v", err), serp.PageKindUnknown)
		return
	}
	s.respondParsed(w, r, string(body), src)
}

// handleFetch retrieves the page named by the url query parameter and
// parses it. Start offset and page number come from the URL itself.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if s.Fetcher == nil {
		http.NotFound(w, r)
		return
	}

	rawURL := r.URL.Query().Get("url")
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		writeError(w, serp.Errorf(serp.EINVALID, "valid url query parameter required"), serp.PageKindUnknown)
		return
	}

	if s.Limiter != nil {
		if err := s.Limiter.Wait(r.Context(), u.Host); err != nil {
			writeError(w, err, serp.PageKindUnknown)
			return
		}
	}

	html, err := s.Fetcher.Fetch(r.Context(), rawURL)
	if err != nil {
		if serp.ErrorCode(err) != serp.EINTERNAL {
			writeError(w, err, serp.PageKindUnknown)
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Code:    serp.EINTERNAL,
			Message: fmt.Sprintf("fetch failed: %v", err),
		})
		return
	}

	s.respondParsed(w, r, html, serp.NewSource(rawURL))
}

// respondParsed parses html and writes the page, storing it first when the
// request carries save=true.
func (s *Server) respondParsed(w http.ResponseWriter, r *http.Request, html string, src serp.Source) {
	page, err := s.Parser.Parse(html, src)
	if err != nil {
		kind := serp.PageKindUnknown
		if s.Detector != nil {
			kind = s.Detector.Detect(html)
		}
		writeError(w, err, kind)
		return
	}

	if r.URL.Query().Get("save") == "true" && s.Pages != nil {
		rec := &serp.Record{Page: page, HTML: html}
		if err := s.Pages.CreateRecord(r.Context(), rec); err != nil {
			writeError(w, err, serp.PageKindResults)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if s.Pages == nil {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	var filter serp.RecordFilter
	if domain := q.Get("domain"); domain != "" {
		filter.Domain = &domain
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	recs, err := s.Pages.FindRecords(r.Context(), filter)
	if err != nil {
		writeError(w, err, serp.PageKindUnknown)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleRecordByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/records/"), "/")
	if id == "" || s.Pages == nil {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := s.Pages.FindRecordByID(r.Context(), id)
		if err != nil {
			writeError(w, err, serp.PageKindUnknown)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		if err := s.Pages.DeleteRecord(r.Context(), id); err != nil {
			writeError(w, err, serp.PageKindUnknown)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

func sourceFromQuery(r *http.Request) (serp.Source, error) {
	q := r.URL.Query()
	src := serp.Source{URL: q.Get("url"), PageNumber: 1}
	if src.URL == "" {
		return src, serp.Errorf(serp.EINVALID, "url query parameter required")
	}

	if v := q.Get("start"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return src, serp.Errorf(serp.EINVALID, "invalid start offset %q", v)
		}
		src.StartOffset = n
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return src, serp.Errorf(serp.EINVALID, "invalid page number %q", v)
		}
		src.PageNumber = n
	}
	return src, nil
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"error"`
	Kind    serp.PageKind `json:"kind,omitempty"`
}

// Map of application error codes to HTTP status codes.
var codes = map[string]int{
	serp.EINVALID:  http.StatusBadRequest,
	serp.ENOTFOUND: http.StatusNotFound,
	serp.EEXTRACT:  http.StatusUnprocessableEntity,
	serp.EINTERNAL: http.StatusInternalServerError,
}

func writeError(w http.ResponseWriter, err error, kind serp.PageKind) {
	code := serp.ErrorCode(err)
	status, ok := codes[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: serp.ErrorMessage(err),
		Kind:    kind,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
