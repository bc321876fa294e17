package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/serp"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rec, err := deps.Pages.FindRecordByID(deps.Ctx, c.ID)
	if err != nil {
		if serp.ErrorCode(err) == serp.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: record %q not found. Use 'serp list' to see stored records.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", serp.ErrorMessage(err))
		}
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintf(deps.Stdout, "id: %s\n", rec.ID)
	fmt.Fprintf(deps.Stdout, "parsed: %s\n", rec.ParsedAt.Format(time.RFC3339))
	fmt.Fprintf(deps.Stdout, "hash: %s\n", rec.ContentHash)
	fmt.Fprint(deps.Stdout, serp.FormatPage(rec.Page))
	return nil
}
