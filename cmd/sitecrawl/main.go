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
	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Getenv looks up API keys. Defaults to os.Getenv.
	Getenv func(string) string

	// Services for end-to-end testing.
	CrawlService    sitecrawl.CrawlService
	DocumentService sitecrawl.DocumentService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
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
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitecrawl"),
		kong.Description("Crawl a website, score pages against instructions, and prepare the results for retrieval."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLLoader),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitecrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	command := strings.Fields(kongCtx.Command())[0]
	if command == "crawl" {
		if err := cli.Crawl.validate(); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
			return err
		}
	}

	if cli.DB != "" {
		if err := m.openDB(cli.DB); err != nil {
			return err
		}
		defer m.Close()
		deps.Crawls = m.CrawlService
		deps.Documents = m.DocumentService
	} else if command != "crawl" {
		fmt.Fprintln(stderr, "Hint: pass --db or set SITECRAWL_DB to the database written by 'sitecrawl crawl --db'")
		return sitecrawl.Errorf(sitecrawl.EINVALID, "database path required")
	}

	if command == "crawl" {
		c := &cli.Crawl
		chunker, err := c.chunker()
		if err != nil {
			return err
		}
		deps.Chunker = chunker

		crawler, cleanup, err := newCrawler(ctx, c, m.getenv, deps.Logger, stderr)
		if err != nil {
			return err
		}
		defer cleanup()
		deps.Crawler = crawler

		if c.CountTokens {
			tokens, err := newTokenCounter()
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			deps.Tokens = tokens
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) openDB(path string) error {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.CrawlService = sqlite.NewCrawlService(m.DB)
	m.DocumentService = sqlite.NewDocumentService(m.DB)
	return nil
}

func (m *Main) getenv(key string) string {
	if m.Getenv == nil {
		return os.Getenv(key)
	}
	return m.Getenv(key)
}

// newLogger returns a text logger on w. Verbose output includes debug
// records from the logging decorators.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
