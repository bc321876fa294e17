package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fwojciec/serp/batch"
	serphttp "github.com/fwojciec/serp/http"
	serpprom "github.com/fwojciec/serp/prometheus"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := c.NewServer(deps, serpprom.New(serpprom.NewRegistry()))

	fmt.Fprintf(deps.Stderr, "Listening on %s\n", c.Addr)
	if err := srv.ListenAndServe(deps.Ctx, c.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// NewServer wires the parser and fetcher through metrics into the API.
func (c *ServeCmd) NewServer(deps *Dependencies, metrics *serpprom.Metrics) *serphttp.Server {
	srv := serphttp.NewServer(serpprom.NewParser(deps.Parser, metrics), deps.Detector)
	srv.Pages = deps.Pages
	srv.Metrics = metrics.Handler()
	if deps.Fetcher != nil {
		srv.Fetcher = serpprom.NewFetcher(deps.Fetcher, metrics)
		srv.Limiter = batch.NewDomainLimiter(c.RPS)
	}
	return srv
}
