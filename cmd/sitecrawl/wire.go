package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/gemini"
	"github.com/fwojciec/sitecrawl/goquery"
	"github.com/fwojciec/sitecrawl/htmltomarkdown"
	schttp "github.com/fwojciec/sitecrawl/http"
	"github.com/fwojciec/sitecrawl/openai"
	"github.com/fwojciec/sitecrawl/rag"
	"github.com/fwojciec/sitecrawl/readability"
	"github.com/fwojciec/sitecrawl/rod"
	scslog "github.com/fwojciec/sitecrawl/slog"
	"github.com/fwojciec/sitecrawl/trafilatura"
	"google.golang.org/genai"
)

// tokenizerModel is the model whose local tokenizer estimates RAG output size.
const tokenizerModel = "gemini-2.5-flash"

// chunker returns the RAG chunker configured by the flags.
func (c *CrawlCmd) chunker() (rag.Chunker, error) {
	chunker := rag.Chunker{ChunkSize: c.ChunkSize, Overlap: c.ChunkOverlap}
	if err := chunker.Validate(); err != nil {
		return rag.Chunker{}, err
	}
	return chunker, nil
}

// newCrawler wires a Crawler from the crawl flags, which must already have
// passed validate. The returned cleanup closes the fetchers.
func newCrawler(ctx context.Context, c *CrawlCmd, getenv func(string) string, logger *slog.Logger, stderr io.Writer) (*crawl.Crawler, func(), error) {
	contentExtractor := newContentExtractor(c.ContentExtractor, c.URL)

	fetcher, cleanup, err := newFetcher(ctx, c, contentExtractor, logger, stderr)
	if err != nil {
		return nil, nil, err
	}

	parser := goquery.NewParser()
	gate, extractor, err := newAI(ctx, c, getenv, parser, logger, stderr)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var converterOpts []htmltomarkdown.Option
	if u, err := url.Parse(c.URL); err == nil && u.Host != "" {
		converterOpts = append(converterOpts, htmltomarkdown.WithDomain(u.Scheme+"://"+u.Host))
	}

	crawler := &crawl.Crawler{
		Fetcher:            scslog.NewLoggingFetcher(fetcher, logger),
		Parser:             parser,
		ContentExtractor:   contentExtractor,
		Converter:          htmltomarkdown.NewConverter(converterOpts...),
		Gate:               gate,
		Extractor:          extractor,
		Logger:             logger,
		RelevanceThreshold: &c.Threshold,
		MaxRetries:         c.MaxRetries,
		RetryDelay:         c.RetryDelay,
	}
	if c.MaxRetries == 0 {
		crawler.MaxRetries = -1
	}
	if c.RPS > 0 {
		crawler.RateLimiter = crawl.NewDomainLimiter(c.RPS)
	}
	return crawler, cleanup, nil
}

func newContentExtractor(name, siteURL string) sitecrawl.ContentExtractor {
	switch name {
	case "readability":
		return readability.NewExtractor(siteURL)
	case "none":
		return nil
	default:
		return trafilatura.NewExtractor()
	}
}

// newFetcher returns the fetcher selected by --fetcher. In auto mode both
// fetchers are started and the seed URL decides which one crawls.
func newFetcher(ctx context.Context, c *CrawlCmd, extractor sitecrawl.ContentExtractor, logger *slog.Logger, stderr io.Writer) (sitecrawl.Fetcher, func(), error) {
	httpOpts := []schttp.Option{schttp.WithTimeout(c.Timeout)}
	if c.UserAgent != "" {
		httpOpts = append(httpOpts, schttp.WithUserAgent(c.UserAgent))
	}
	static := schttp.NewFetcher(httpOpts...)
	if c.Fetcher == "http" {
		return static, func() { _ = static.Close() }, nil
	}

	rodOpts := []rod.Option{
		rod.WithFetchTimeout(c.Timeout),
		rod.WithBrowser(rod.WithManagerLogger(logger), rod.WithBrowserBin(c.BrowserBin)),
	}
	if c.UserAgent != "" {
		rodOpts = append(rodOpts, rod.WithUserAgent(c.UserAgent))
	}
	browser, err := rod.NewFetcher(rodOpts...)
	if err != nil {
		_ = static.Close()
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --fetcher http")
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}
	cleanup := func() {
		_ = browser.Close()
		_ = static.Close()
	}
	if c.Fetcher == "browser" {
		return browser, cleanup, nil
	}

	if extractor == nil {
		extractor = trafilatura.NewExtractor()
	}
	return crawl.ProbeFetcher(ctx, c.URL, static, browser, extractor, logger), cleanup, nil
}

// newAI returns the relevance gate and structured extractor selected by
// --ai. Model-backed components fall back to the keyword gate and the basic
// extractor when a call fails.
func newAI(ctx context.Context, c *CrawlCmd, getenv func(string) string, parser sitecrawl.PageParser, logger *slog.Logger, stderr io.Writer) (sitecrawl.RelevanceGate, sitecrawl.StructuredExtractor, error) {
	backend := c.AI
	if backend == "auto" {
		switch {
		case getenv("GEMINI_API_KEY") != "":
			backend = "gemini"
		case getenv("OPENAI_API_KEY") != "":
			backend = "openai"
		default:
			backend = "keyword"
		}
	}

	var gate sitecrawl.RelevanceGate
	var extractor sitecrawl.StructuredExtractor
	switch backend {
	case "gemini":
		apiKey := getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "Hint: get an API key at https://aistudio.google.com/apikey")
			return nil, nil, sitecrawl.Errorf(sitecrawl.EINVALID, "GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		gate = gemini.NewRelevanceGate(client, c.Model)
		extractor = gemini.NewExtractor(client, c.Model, parser)
	case "openai":
		apiKey := getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, nil, sitecrawl.Errorf(sitecrawl.EINVALID, "OPENAI_API_KEY not set")
		}
		client := openai.NewClient(apiKey, c.OpenAIBaseURL)
		gate = openai.NewRelevanceGate(client, c.Model)
		extractor = openai.NewExtractor(client, c.Model, parser)
	default:
		logger.Info("no AI backend configured, using keyword relevance")
		return sitecrawl.KeywordGate{}, goquery.NewBasicExtractor(), nil
	}

	return &crawl.FallbackGate{
			Primary:  scslog.NewLoggingRelevanceGate(gate, logger),
			Fallback: sitecrawl.KeywordGate{},
			Logger:   logger,
		}, &crawl.FallbackExtractor{
			Primary:  scslog.NewLoggingExtractor(extractor, logger),
			Fallback: goquery.NewBasicExtractor(),
			Logger:   logger,
		}, nil
}

func newTokenCounter() (sitecrawl.TokenCounter, error) {
	return gemini.NewTokenCounter(tokenizerModel)
}
