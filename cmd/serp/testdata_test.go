package main_test

import (
	"bytes"
	"context"
	"strings"

	main "github.com/fwojciec/serp/cmd/serp"
	"github.com/fwojciec/serp/goquery"
)

const sourceURL = "https://www.google.com/search?q=golang&start=10"

const resultsPage = `<html><body>
<div id="resultStats">About 2,000 results<nobr> (0.31 seconds)&nbsp;</nobr></div>
<div id="search">
<h3 class="r"><a href="/url?q=https://golang.org/&amp;sa=U">Go</a></h3>
<h3 class="r"><a href="/url?q=https://go.dev/doc/&amp;sa=U">Docs</a></h3>
</div>
<table id="nav"><tr>
<td><a href="/search?q=golang&amp;start=0">1</a></td>
<td>2</td>
<td><a href="/search?q=golang&amp;start=20">3</a></td>
</tr></table>
</body></html>`

const blockedPage = `<html><body><form id="captcha-form"></form>Our systems have detected unusual traffic</body></html>`

// testDeps returns dependencies wired to the real parser and in-memory
// buffers.
func testDeps(stdin string) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdin:    strings.NewReader(stdin),
		Stdout:   stdout,
		Stderr:   stderr,
		Parser:   goquery.NewParser(),
		Detector: goquery.NewDetector(),
	}, stdout, stderr
}
