package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// Matches "About 1234 results" once thousands separators are removed.
	totalResultsPattern = regexp.MustCompile(`bout (\d+) results`)

	// Matches "(0.45 seconds)" and "(1seconds)".
	retrievalTimePattern = regexp.MustCompile(`\((\d+(?:\.\d+)?) ?seconds\)`)
)

// extractTotalResults parses the total result count from the result
// statistics element. Returns nil when the element or the count is missing.
func extractTotalResults(stats *goquery.Selection) *int64 {
	if stats.Length() == 0 {
		return nil
	}

	text := strings.ReplaceAll(stats.Text(), ",", "")
	m := totalResultsPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// extractRetrievalTime parses the query time in seconds from the note
// nested in the result statistics element, or from the element itself when
// it has no note.
func extractRetrievalTime(stats *goquery.Selection, noteTag string) *float64 {
	if stats.Length() == 0 {
		return nil
	}

	text := stats.Text()
	if note := stats.Find(noteTag).First(); note.Length() > 0 {
		text = note.Text()
	}

	m := retrievalTimePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil
	}

	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &seconds
}
