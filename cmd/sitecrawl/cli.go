package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/rag"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Crawls    sitecrawl.CrawlService
	Documents sitecrawl.DocumentService
	Crawler   *crawl.Crawler
	Chunker   rag.Chunker
	Tokens    sitecrawl.TokenCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"YAML file with flag defaults"`
	DB      string          `env:"SITECRAWL_DB" help:"SQLite database for stored crawls"`
	Verbose bool            `short:"v" help:"Log every fetch and model call"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a website"`
	Crawls CrawlsCmd `cmd:"" help:"List stored crawls"`
	Docs   DocsCmd   `cmd:"" help:"List stored RAG documents"`
	Delete DeleteCmd `cmd:"" help:"Delete a stored crawl and its documents"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL            string  `arg:"" help:"Seed URL"`
	Instructions   string  `short:"i" help:"What to look for; pages are scored against it"`
	Depth          int     `short:"d" default:"1" help:"Maximum link depth from the seed"`
	MaxPages       int     `short:"m" default:"20" help:"Maximum number of pages to visit"`
	Concurrency    int     `short:"c" default:"5" help:"Concurrent fetch limit"`
	FollowExternal bool    `help:"Follow links back to the start domain from other domains"`
	Threshold      float64 `default:"0.3" help:"Minimum relevance score for extraction"`

	ChunkSize    int `default:"1000" help:"RAG chunk size in bytes"`
	ChunkOverlap int `default:"100" help:"RAG chunk overlap in bytes"`

	MaxRetries int           `default:"3" help:"Retries for rate-limited fetches"`
	RetryDelay time.Duration `default:"2s" help:"First backoff delay, doubled on every retry"`
	RPS        float64       `name:"rps" default:"0" help:"Requests per second per domain (0 = unpaced)"`
	Timeout    time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	UserAgent  string        `name:"user-agent" help:"Override the User-Agent sent by fetchers"`
	BrowserBin string        `name:"browser-bin" help:"Path to the Chrome binary for the browser fetcher"`

	Fetcher          string `enum:"http,browser,auto" default:"http" help:"Page fetcher (http, browser, auto)"`
	ContentExtractor string `enum:"trafilatura,readability,none" default:"trafilatura" help:"Main content extractor (trafilatura, readability, none)"`
	AI               string `name:"ai" enum:"auto,gemini,openai,keyword" default:"auto" help:"Relevance and extraction backend (auto, gemini, openai, keyword)"`
	Model            string `help:"Model name for the AI backend"`
	OpenAIBaseURL    string `name:"openai-base-url" env:"OPENAI_BASE_URL" help:"OpenAI-compatible endpoint"`

	Output      string `short:"o" help:"Output file (default: stdout)"`
	Format      string `short:"f" enum:"json,markdown,rag" default:"json" help:"Output format (json, markdown, rag)"`
	PagesDir    string `help:"Also save relevant page markdown as files under this directory"`
	CountTokens bool   `help:"Report the approximate token count of the RAG documents"`
}

// CrawlsCmd is the "crawls" subcommand.
type CrawlsCmd struct {
	URL   string `help:"Only crawls of this seed URL"`
	Limit int    `default:"20" help:"Maximum number of crawls to list"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Crawl     string `arg:"" optional:"" help:"Crawl ID (default: latest crawl)"`
	URL       string `help:"Only documents from this page URL"`
	ChunkType string `name:"type" help:"Only documents of this chunk type (summary, key_point, content)"`
	Full      bool   `help:"Print document content as JSON lines"`
	Limit     int    `help:"Maximum number of documents"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Crawl ID"`
	Force bool   `help:"Confirm deletion"`
}
