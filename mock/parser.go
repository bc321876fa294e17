package mock

import "github.com/fwojciec/serp"

var _ serp.Parser = (*Parser)(nil)

// Parser is a mock implementation of serp.Parser.
type Parser struct {
	ParseFn func(html string, src serp.Source) (*serp.Page, error)
}

func (p *Parser) Parse(html string, src serp.Source) (*serp.Page, error) {
	return p.ParseFn(html, src)
}

var _ serp.PageDetector = (*PageDetector)(nil)

// PageDetector is a mock implementation of serp.PageDetector.
type PageDetector struct {
	DetectFn func(html string) serp.PageKind
}

func (d *PageDetector) Detect(html string) serp.PageKind {
	return d.DetectFn(html)
}
