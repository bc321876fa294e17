package prometheus

import (
	"time"

	"github.com/fwojciec/serp"
)

var _ serp.Parser = (*Parser)(nil)

// Parser counts parses, failures and absent optional fields.
type Parser struct {
	next    serp.Parser
	metrics *Metrics
}

// NewParser wraps next with metrics.
func NewParser(next serp.Parser, metrics *Metrics) *Parser {
	return &Parser{next: next, metrics: metrics}
}

// Parse delegates to the wrapped parser and records the outcome.
func (p *Parser) Parse(html string, src serp.Source) (*serp.Page, error) {
	start := time.Now()
	page, err := p.next.Parse(html, src)
	elapsed := time.Since(start)

	engine := string(serp.EngineGoogle)
	if page != nil {
		engine = string(page.Engine)
	}
	p.metrics.ParseDuration.WithLabelValues(engine).Observe(elapsed.Seconds())

	if err != nil {
		p.metrics.ParsesTotal.WithLabelValues(engine, StatusError).Inc()
		return nil, err
	}
	p.metrics.ParsesTotal.WithLabelValues(engine, StatusOK).Inc()
	p.metrics.ResultLinks.Observe(float64(page.NumResults()))

	for field, absent := range map[string]bool{
		"total_results":  page.TotalResults == nil,
		"retrieval_time": page.RetrievalTime == nil,
		"previous_page":  page.PreviousPageLink == nil,
		"next_page":      page.NextPageLink == nil,
		"location":       page.Location == nil,
	} {
		if absent {
			p.metrics.FieldAbsent.WithLabelValues(field).Inc()
		}
	}
	return page, nil
}
