package goquery

import "strings"

// extractLocation returns the trimmed text of the location element, or nil
// when there is none.
func extractLocation(doc *Document, id string) *string {
	sel := doc.ByID(id).First()
	if sel.Length() == 0 {
		return nil
	}

	location := strings.TrimSpace(sel.Text())
	if location == "" {
		return nil
	}
	return &location
}
