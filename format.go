package serp

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPage renders a page as human-readable text, one field per line.
// Absent fields are shown as "-".
func FormatPage(p *Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "source: %s\n", p.SourceURL)
	fmt.Fprintf(&b, "engine: %s\n", p.Engine)
	fmt.Fprintf(&b, "domain: %s://%s\n", p.Protocol, p.Domain)
	fmt.Fprintf(&b, "page: %d (start %d)\n", p.PageNumber, p.StartOffset)

	total := "-"
	if p.TotalResults != nil {
		total = strconv.FormatInt(*p.TotalResults, 10)
	}
	fmt.Fprintf(&b, "total results: %s\n", total)

	elapsed := "-"
	if p.RetrievalTime != nil {
		elapsed = strconv.FormatFloat(*p.RetrievalTime, 'f', -1, 64) + "s"
	}
	fmt.Fprintf(&b, "retrieval time: %s\n", elapsed)
	fmt.Fprintf(&b, "location: %s\n", orDash(p.Location))
	fmt.Fprintf(&b, "previous: %s\n", orDash(p.PreviousPageLink))
	writeList(&b, "skipped previous", p.SkippedPreviousPageLinks)
	fmt.Fprintf(&b, "next: %s\n", orDash(p.NextPageLink))
	writeList(&b, "skipped next", p.SkippedNextPageLinks)
	writeList(&b, fmt.Sprintf("results (%d)", p.NumResults()), p.ResultLinks)

	return b.String()
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: -\n", label)
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for i, item := range items {
		fmt.Fprintf(b, "  %d. %s\n", i+1, item)
	}
}
