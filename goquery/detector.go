package goquery

import (
	"strings"

	"github.com/fwojciec/serp"
)

// Ensure Detector implements serp.PageDetector at compile time.
var _ serp.PageDetector = (*Detector)(nil)

// Detector tells results pages apart from the interstitials served instead
// of them, such as the captcha page shown to suspected automated traffic.
type Detector struct {
	markers Markers
}

// NewDetector creates a new Detector.
func NewDetector(opts ...Option) *Detector {
	markers := GoogleMarkers()
	for _, opt := range opts {
		opt(&markers)
	}
	return &Detector{markers: markers}
}

// Detect classifies html. Returns PageKindUnknown if the page is neither a
// results page nor a recognized block page.
func (d *Detector) Detect(html string) serp.PageKind {
	doc, err := NewDocument(html)
	if err != nil {
		return serp.PageKindUnknown
	}

	if doc.Exists(d.markers.ResultsSelector) {
		return serp.PageKindResults
	}

	// The block page posts its captcha to /sorry/.
	if doc.Exists("#captcha-form") ||
		doc.Exists("form[action*='sorry']") ||
		strings.Contains(doc.Text(), "unusual traffic") {
		return serp.PageKindBlocked
	}

	return serp.PageKindUnknown
}
