package serp

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultResultsPerPage is the page size assumed when a results URL carries
// no num parameter.
const DefaultResultsPerPage = 10

// Source is the caller-supplied context of a parse: the URL that produced
// the markup and where the page sits in the query's result sequence.
type Source struct {
	URL string

	// StartOffset is the zero-based index of the first result on the page.
	StartOffset int

	// PageNumber is the one-based number of the page. Pagination links are
	// classified relative to it.
	PageNumber int
}

// NewSource derives a Source from a results page URL using its start and num
// query parameters. Missing or malformed values fall back to the first page
// of DefaultResultsPerPage results.
func NewSource(rawURL string) Source {
	src := Source{URL: rawURL, PageNumber: 1}
	u, err := url.Parse(rawURL)
	if err != nil {
		return src
	}
	q := u.Query()

	perPage := DefaultResultsPerPage
	if n, err := strconv.Atoi(q.Get("num")); err == nil && n > 0 {
		perPage = n
	}
	if n, err := strconv.Atoi(q.Get("start")); err == nil && n > 0 {
		src.StartOffset = n
		src.PageNumber = n/perPage + 1
	}
	return src
}

// Page is the data extracted from one results page. A nil pointer field
// means the value was not present or could not be parsed.
type Page struct {
	Engine      Engine `json:"engine"`
	SourceURL   string `json:"sourceUrl"`
	Protocol    string `json:"protocol"`
	Domain      string `json:"domain"`
	StartOffset int    `json:"startOffset"`
	PageNumber  int    `json:"pageNumber"`

	// ResultLinks are organic result URLs in document order.
	ResultLinks []string `json:"resultLinks"`

	TotalResults  *int64   `json:"totalResults"`
	RetrievalTime *float64 `json:"retrievalTime"` // seconds

	PreviousPageLink         *string  `json:"previousPageLink"`
	SkippedPreviousPageLinks []string `json:"skippedPreviousPageLinks"`
	NextPageLink             *string  `json:"nextPageLink"`
	SkippedNextPageLinks     []string `json:"skippedNextPageLinks"`

	Location *string `json:"location"`
}

// NumResults returns the number of result links on the page.
func (p *Page) NumResults() int {
	return len(p.ResultLinks)
}

// SplitSourceURL returns the scheme and host of a results page URL.
// A leading "www." is stripped from the host. Unparseable URLs yield
// empty strings.
func SplitSourceURL(rawURL string) (protocol, domain string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ""
	}
	return u.Scheme, strings.TrimPrefix(u.Host, "www.")
}
