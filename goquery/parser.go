package goquery

import "github.com/fwojciec/serp"

// Markers are the element identifiers the parser looks for.
type Markers struct {
	// ResultClass is the class of each organic result element.
	ResultClass string

	// StatsID is the id of the result statistics element and StatsNoteTag
	// the tag of the note inside it that holds the retrieval time.
	StatsID      string
	StatsNoteTag string

	// NavID is the id of the pagination container and NavCellTag the tag of
	// its page cells.
	NavID      string
	NavCellTag string

	LocationID string

	// ResultsSelector matches the container present on every results page.
	ResultsSelector string
}

// GoogleMarkers returns the markers of Google's basic HTML results page.
func GoogleMarkers() Markers {
	return Markers{
		ResultClass:     "r",
		StatsID:         "resultStats",
		StatsNoteTag:    "nobr",
		NavID:           "nav",
		NavCellTag:      "td",
		LocationID:      "swml_addr",
		ResultsSelector: "#search",
	}
}

// Ensure Parser implements serp.Parser at compile time.
var _ serp.Parser = (*Parser)(nil)

// Parser extracts pages from Google results markup.
// Parser holds no mutable state and is safe for concurrent use.
type Parser struct {
	markers Markers
}

// Option configures a Parser or Detector.
type Option func(*Markers)

// WithMarkers overrides the element identifiers.
func WithMarkers(m Markers) Option {
	return func(markers *Markers) {
		*markers = m
	}
}

// NewParser creates a new Parser.
func NewParser(opts ...Option) *Parser {
	markers := GoogleMarkers()
	for _, opt := range opts {
		opt(&markers)
	}
	return &Parser{markers: markers}
}

// Parse extracts a page from html. It fails with *serp.ExtractionError only
// when no result link can be extracted; every other field is left nil or
// empty when missing.
func (p *Parser) Parse(html string, src serp.Source) (*serp.Page, error) {
	doc, err := NewDocument(html)
	if err != nil {
		return nil, err
	}

	links, ok := extractResultLinks(doc, p.markers.ResultClass)
	if !ok {
		return nil, &serp.ExtractionError{Engine: serp.EngineGoogle, Stage: serp.StageResultURLs}
	}

	protocol, domain := serp.SplitSourceURL(src.URL)
	stats := doc.ByID(p.markers.StatsID).First()
	nav := classifyNavigation(doc, src.URL, src.PageNumber, p.markers)

	return &serp.Page{
		Engine:      serp.EngineGoogle,
		SourceURL:   src.URL,
		Protocol:    protocol,
		Domain:      domain,
		StartOffset: src.StartOffset,
		PageNumber:  src.PageNumber,

		ResultLinks: links,

		TotalResults:  extractTotalResults(stats),
		RetrievalTime: extractRetrievalTime(stats, p.markers.StatsNoteTag),

		PreviousPageLink:         nav.previous,
		SkippedPreviousPageLinks: nav.skippedPrevious,
		NextPageLink:             nav.next,
		SkippedNextPageLinks:     nav.skippedNext,

		Location: extractLocation(doc, p.markers.LocationID),
	}, nil
}
