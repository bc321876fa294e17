package goquery

import (
	"net/url"
	"strconv"
	"strings"
)

// navigation holds pagination links classified relative to the current
// page. The current page link is kept for bookkeeping only.
type navigation struct {
	previous        *string
	skippedPrevious []string
	current         *string
	next            *string
	skippedNext     []string
}

// classifyNavigation builds absolute pagination links from the navigation
// container and sorts them by page number relative to pageNumber. Cells
// without a numeric label are ignored. Any irregularity (an unparseable
// current URL, an anchor without href) yields an empty navigation, as does
// a missing container.
func classifyNavigation(doc *Document, currentURL string, pageNumber int, m Markers) navigation {
	u, err := url.Parse(currentURL)
	if err != nil {
		return navigation{}
	}
	base := u.Scheme + "://" + u.Host

	container := doc.ByID(m.NavID).First()
	if container.Length() == 0 {
		return navigation{}
	}

	var nav navigation
	cells := container.Find(m.NavCellTag)
	for i := range cells.Nodes {
		cell := cells.Eq(i)

		anchors := cell.Find("a")
		if anchors.Length() == 0 {
			continue
		}
		href, ok := anchors.First().Attr("href")
		if !ok {
			return navigation{}
		}
		link := base + href

		n, ok := pageLabel(cell.Text())
		if !ok {
			continue
		}
		nav.place(link, n, pageNumber)
	}

	return nav
}

func (nav *navigation) place(link string, n, current int) {
	switch {
	case n == current-1:
		nav.previous = &link
	case n < current:
		nav.skippedPrevious = append(nav.skippedPrevious, link)
	case n == current:
		nav.current = &link
	case n == current+1:
		nav.next = &link
	default:
		nav.skippedNext = append(nav.skippedNext, link)
	}
}

// pageLabel parses a cell label consisting only of ASCII digits.
func pageLabel(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}
