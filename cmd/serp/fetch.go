package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/serp"
	"github.com/fwojciec/serp/batch"
	"github.com/fwojciec/serp/fs"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	sources := make([]serp.Source, len(c.URLs))
	for i, u := range c.URLs {
		sources[i] = serp.NewSource(u)
	}

	runner := &batch.Runner{
		Fetcher:     deps.Fetcher,
		Parser:      deps.Parser,
		Detector:    deps.Detector,
		RateLimiter: batch.NewDomainLimiter(c.RPS),
		Logger:      deps.Logger,
		Concurrency: c.Concurrency,
	}
	if c.Save {
		runner.Pages = deps.Pages
	}

	var store *fs.Store
	if c.Out != "" {
		store = fs.NewStore(filepath.Dir(c.Out), filepath.Base(c.Out))
		runner.Writer = store
	}

	progress := func(event batch.ProgressEvent) {
		res := event.Result
		if res.Err != nil {
			detail := ""
			if res.Kind != serp.PageKindUnknown {
				detail = fmt.Sprintf(" [%s]", res.Kind)
			}
			if res.Record != nil {
				detail += fmt.Sprintf(" (saved as record %s)", res.Record.ID)
			}
			fmt.Fprintf(deps.Stderr, "  [%d/%d] fail %s: %s%s\n", event.Completed, event.Total,
				batch.TruncateURL(res.Source.URL, 60), serp.ErrorMessage(res.Err), detail)
			return
		}
		fmt.Fprintf(deps.Stderr, "  [%d/%d] ok %s (%d results)\n", event.Completed, event.Total,
			batch.TruncateURL(res.Source.URL, 60), res.Page.NumResults())
	}

	results := runner.Run(deps.Ctx, sources, progress)
	failed := batch.Failed(results)

	if store != nil {
		if failed == len(results) {
			_ = store.Abort()
		} else if err := store.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
	}

	if err := c.print(deps, results); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stderr, "Parsed %d of %d pages\n", len(results)-failed, len(results))
	if failed > 0 {
		return serp.Errorf(serp.EEXTRACT, "%d of %d pages failed", failed, len(results))
	}
	return nil
}

func (c *FetchCmd) print(deps *Dependencies, results []batch.Result) error {
	enc := json.NewEncoder(deps.Stdout)
	for _, res := range results {
		if res.Page == nil {
			continue
		}
		if c.JSON {
			if err := enc.Encode(res.Page); err != nil {
				return err
			}
			continue
		}
		fmt.Fprint(deps.Stdout, serp.FormatPage(res.Page))
		if res.Record != nil {
			fmt.Fprintf(deps.Stdout, "record: %s\n", res.Record.ID)
		}
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}
