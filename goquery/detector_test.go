package goquery_test

import (
	"testing"

	"github.com/fwojciec/serp"
	"github.com/fwojciec/serp/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("detects results pages by the search container", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewDetector()

		assert.Equal(t, serp.PageKindResults, d.Detect(resultsPage))
	})

	t.Run("detects captcha forms", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><form id="captcha-form" action="index"><input name="q"></form></body></html>`

		assert.Equal(t, serp.PageKindBlocked, goquery.NewDetector().Detect(html))
	})

	t.Run("detects the sorry interstitial", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><form action="https://www.google.com/sorry/index" method="post"></form></body></html>`

		assert.Equal(t, serp.PageKindBlocked, goquery.NewDetector().Detect(html))
	})

	t.Run("detects unusual traffic notices", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Our systems have detected unusual traffic from your computer network.</p></body></html>`

		assert.Equal(t, serp.PageKindBlocked, goquery.NewDetector().Detect(html))
	})

	t.Run("returns unknown for other pages", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Welcome</h1></body></html>`

		assert.Equal(t, serp.PageKindUnknown, goquery.NewDetector().Detect(html))
	})

	t.Run("uses a custom results selector", func(t *testing.T) {
		t.Parallel()

		markers := goquery.GoogleMarkers()
		markers.ResultsSelector = "#rso"
		d := goquery.NewDetector(goquery.WithMarkers(markers))

		assert.Equal(t, serp.PageKindResults, d.Detect(`<html><body><div id="rso"></div></body></html>`))
		assert.Equal(t, serp.PageKindUnknown, d.Detect(`<html><body><div id="search"></div></body></html>`))
	})
}
