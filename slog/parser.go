// Package slog provides logging decorators for serp services.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/serp"
)

// Ensure LoggingParser implements serp.Parser.
var _ serp.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with one log line per parse.
type LoggingParser struct {
	next   serp.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next serp.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the outcome. Absent
// optional fields are reported as counts, never as errors.
func (p *LoggingParser) Parse(html string, src serp.Source) (page *serp.Page, err error) {
	defer func(begin time.Time) {
		if err != nil {
			p.logger.Warn("parse",
				"url", src.URL,
				"page", src.PageNumber,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		p.logger.Info("parse",
			"url", src.URL,
			"page", src.PageNumber,
			"results", page.NumResults(),
			"absent", absentFields(page),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.Parse(html, src)
}

// absentFields counts the optional scalar fields missing from page.
func absentFields(page *serp.Page) int {
	n := 0
	if page.TotalResults == nil {
		n++
	}
	if page.RetrievalTime == nil {
		n++
	}
	if page.PreviousPageLink == nil {
		n++
	}
	if page.NextPageLink == nil {
		n++
	}
	if page.Location == nil {
		n++
	}
	return n
}
