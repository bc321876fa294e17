package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	charmlog "github.com/charmbracelet/log"
	"github.com/fwojciec/serp"
	"github.com/fwojciec/serp/goquery"
	serphttp "github.com/fwojciec/serp/http"
	"github.com/fwojciec/serp/rod"
	serpslog "github.com/fwojciec/serp/slog"
	"github.com/fwojciec/serp/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Stdin is read by parse when no file is given.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher overrides the HTTP and browser fetchers for end-to-end testing.
	Fetcher serp.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("serp"),
		kong.Description("Extract result links, counts and pagination from search results pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLConfig, defaultConfigPath),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		err := fmt.Errorf("no command specified. Run 'serp --help' to see available commands")
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	cmd = strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)
	deps.Parser = serpslog.NewLoggingParser(goquery.NewParser(), deps.Logger)
	deps.Detector = goquery.NewDetector()

	if needsDB(cmd, cli) {
		if cli.DB != "" {
			m.DBPath = cli.DB
		}
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			err = fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
			fmt.Fprintf(stderr, "error: %v\n", err)
			fmt.Fprintln(stderr, "Hint: Set SERP_DB or --db to use a different database path")
			return err
		}
		defer m.Close()
		deps.Pages = sqlite.NewPageService(m.DB)
	}

	var fetchOpts *FetchOptions
	switch cmd {
	case "fetch":
		fetchOpts = &cli.Fetch.FetchOptions
	case "serve":
		fetchOpts = &cli.Serve.FetchOptions
	}
	if fetchOpts != nil {
		fetcher, err := m.newFetcher(fetchOpts)
		if err != nil {
			err = fmt.Errorf("failed to start browser: %w", err)
			fmt.Fprintf(stderr, "error: %v\n", err)
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --render")
			return err
		}
		deps.Fetcher = serpslog.NewLoggingFetcher(fetcher, deps.Logger)
		defer fetcher.Close()
	}

	return kongCtx.Run(deps)
}

func (m *Main) newFetcher(o *FetchOptions) (serp.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	if o.Render {
		opts := []rod.Option{
			rod.WithFetchTimeout(o.Timeout),
			rod.WithRecycleAfter(o.RecycleAfter),
		}
		if o.UserAgent != "" {
			opts = append(opts, rod.WithUserAgent(o.UserAgent))
		}
		return rod.NewFetcher(opts...)
	}

	opts := []serphttp.Option{serphttp.WithTimeout(o.Timeout)}
	if o.UserAgent != "" {
		opts = append(opts, serphttp.WithUserAgent(o.UserAgent))
	}
	return serphttp.NewFetcher(opts...), nil
}

// needsDB reports whether the selected command reads or writes records.
func needsDB(cmd string, cli *CLI) bool {
	switch cmd {
	case "parse":
		return cli.Parse.Save
	case "fetch":
		return cli.Fetch.Save
	default:
		return true
	}
}

// newLogger returns a slog logger on a charm handler. Only warnings are
// shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "serp",
	})
	return slog.New(handler)
}

func defaultDBPath() string {
	if path := os.Getenv("SERP_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "serp.db"
	}
	dir := filepath.Join(home, ".serp")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "serp.db")
}
