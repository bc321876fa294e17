package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/serp"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	if c.Page < 1 {
		fmt.Fprintf(deps.Stderr, "error: --page must be at least 1\n")
		return serp.Errorf(serp.EINVALID, "page number must be at least 1")
	}
	if c.Start < 0 {
		fmt.Fprintf(deps.Stderr, "error: --start must not be negative\n")
		return serp.Errorf(serp.EINVALID, "start offset must not be negative")
	}

	html, err := c.readInput(deps.Stdin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	page, err := deps.Parser.Parse(html, serp.Source{URL: c.URL, StartOffset: c.Start, PageNumber: c.Page})
	if err != nil {
		reportParseError(deps, html, err)
		return err
	}

	if c.Save {
		rec := &serp.Record{Page: page, HTML: html}
		if err := deps.Pages.CreateRecord(deps.Ctx, rec); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", serp.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Saved record %s\n", rec.ID)
	}

	return printPage(deps.Stdout, page, c.JSON)
}

func (c *ParseCmd) readInput(stdin io.Reader) (string, error) {
	if c.File == "" || c.File == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(c.File)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	return string(b), nil
}

// reportParseError prints the error and, for an extraction failure, what
// the markup appears to be.
func reportParseError(deps *Dependencies, html string, err error) {
	fmt.Fprintf(deps.Stderr, "error: %s\n", serp.ErrorMessage(err))

	var xe *serp.ExtractionError
	if !errors.As(err, &xe) || deps.Detector == nil {
		return
	}
	switch deps.Detector.Detect(html) {
	case serp.PageKindBlocked:
		fmt.Fprintln(deps.Stderr, "Hint: the page is a captcha or unusual-traffic interstitial")
	case serp.PageKindResults:
		fmt.Fprintln(deps.Stderr, "Hint: the page has a results container but no recognizable result links")
	default:
		fmt.Fprintln(deps.Stderr, "Hint: the page does not look like a results page")
	}
}

func printPage(w io.Writer, page *serp.Page, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	_, err := fmt.Fprint(w, serp.FormatPage(page))
	return err
}
