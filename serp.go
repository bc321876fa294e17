// Package serp extracts structured data from a rendered search engine
// results page: organic result links, the total result count, the
// retrieval time, pagination links and an optional location.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package serp

// Engine identifies the search engine whose markup conventions a parser
// understands.
type Engine string

// Known search engines.
const (
	EngineGoogle Engine = "google"
)

// Parsing stages reported by ExtractionError.
const (
	StageResultURLs = "search result urls"
)

// PageKind classifies a fetched document before or after parsing.
type PageKind string

// Page kinds returned by a PageDetector.
const (
	PageKindUnknown PageKind = ""
	PageKindResults PageKind = "results"
	PageKindBlocked PageKind = "blocked"
)

// Parser extracts a Page from the raw markup of one results page.
type Parser interface {
	// Parse returns the parsed page or an *ExtractionError when no result
	// links could be extracted. Every other field is optional and never
	// causes Parse to fail.
	Parse(html string, src Source) (*Page, error)
}

// PageDetector tells results pages apart from interstitials such as
// captcha challenges.
type PageDetector interface {
	Detect(html string) PageKind
}
