package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/serp"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := serp.RecordFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Domain != "" {
		filter.Domain = &c.Domain
	}

	recs, err := deps.Pages.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", serp.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'serp fetch --save' or 'serp parse --save' to store pages.")
		return nil
	}

	for _, rec := range recs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  p%d  %d results  %s\n",
			rec.ID,
			rec.ParsedAt.Format(time.DateTime),
			rec.Page.Domain,
			rec.Page.PageNumber,
			rec.Page.NumResults(),
			rec.Page.SourceURL,
		)
	}

	return nil
}
