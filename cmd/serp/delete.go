package main

import (
	"fmt"

	"github.com/fwojciec/serp"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return serp.Errorf(serp.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Pages.DeleteRecord(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", serp.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted record %s\n", c.ID)
	return nil
}
