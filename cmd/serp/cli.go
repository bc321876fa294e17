package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/serp"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Parser   serp.Parser
	Detector serp.PageDetector
	Pages    serp.PageService
	Fetcher  serp.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"Load flag values from a YAML file"`
	DB      string          `help:"Database path (overrides SERP_DB)"`
	Verbose bool            `short:"v" help:"Log every fetch and parse"`

	Parse  ParseCmd  `cmd:"" help:"Parse a saved results page"`
	Fetch  FetchCmd  `cmd:"" help:"Fetch and parse results pages"`
	List   ListCmd   `cmd:"" help:"List stored records"`
	Show   ShowCmd   `cmd:"" help:"Show a stored record"`
	Delete DeleteCmd `cmd:"" help:"Delete a stored record"`
	Serve  ServeCmd  `cmd:"" help:"Serve the parse API and metrics over HTTP"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	File  string `arg:"" optional:"" help:"HTML file to parse; stdin when omitted or -"`
	URL   string `required:"" help:"URL the page was retrieved from"`
	Start int    `help:"Zero-based offset of the first result on the page"`
	Page  int    `default:"1" help:"One-based page number"`
	JSON  bool   `help:"Print the page as JSON"`
	Save  bool   `help:"Store the parsed page in the database"`
}

// FetchOptions configures the fetcher shared by fetch and serve.
type FetchOptions struct {
	Render       bool          `help:"Render pages in headless Chrome"`
	RPS          float64       `name:"rps" default:"1" help:"Requests per second per domain; 0 disables limiting"`
	Timeout      time.Duration `default:"30s" help:"Per-page fetch timeout"`
	UserAgent    string        `help:"User-Agent header to send"`
	RecycleAfter int64         `default:"50" help:"Restart the browser after this many rendered pages; 0 never restarts"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URLs        []string `arg:"" name:"url" help:"Results page URLs, one query each"`
	Save        bool     `help:"Store parsed pages in the database"`
	Out         string   `type:"path" help:"Write parsed pages as markdown into this directory"`
	JSON        bool     `help:"Print each page as a JSON line"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`

	FetchOptions `embed:""`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Domain string `help:"Only records from this domain"`
	Limit  int    `short:"n" default:"20" help:"Maximum records to show"`
	Offset int    `help:"Records to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Record ID"`
	JSON bool   `help:"Print the record as JSON"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Record ID"`
	Force bool   `help:"Confirm deletion"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`

	FetchOptions `embed:""`
}
