// Package tools implements the MCP tools exposed by the server.
package tools

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/folio-mcp/internal/cache"
	"github.com/dgallion1/folio-mcp/internal/config"
	"github.com/dgallion1/folio-mcp/internal/format"
	"github.com/dgallion1/folio-mcp/internal/markup"
	"github.com/dgallion1/folio-mcp/internal/pager"
)

// PageFetcher retrieves one raw page with its content type.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) ([]byte, string, error)
}

// FetchTool serves page content as markdown windows with pagination hints.
type FetchTool struct {
	fetcher PageFetcher
	store   *cache.Store
	cfg     config.Config
	log     *slog.Logger
	opts    pager.Options
}

func NewFetchTool(fetcher PageFetcher, store *cache.Store, cfg config.Config, log *slog.Logger) *FetchTool {
	return &FetchTool{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		log:     log,
		opts:    pagerOptions(cfg),
	}
}

func pagerOptions(cfg config.Config) pager.Options {
	opts := pager.DefaultOptions()
	if cfg.SentenceTerminators != "" {
		opts.SentenceTerminators = []rune(cfg.SentenceTerminators)
	}
	return opts
}

func (t *FetchTool) Definition() mcp.Tool {
	return mcp.NewTool("fetch",
		mcp.WithDescription("Fetch a page from the Folio community and return its content as markdown. Long documents are returned in windows; follow the start_index hint in the footer to continue reading."),
		mcp.WithString("url",
			mcp.Description("Full URL of the page to fetch. Must belong to the configured community."),
		),
		mcp.WithArray("urls",
			mcp.Description("Fetch several pages in one call. Results keep request order; start_index and section do not apply."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithNumber("start_index",
			mcp.Description("Character offset to resume reading from, as given by a previous truncated result. Cannot be combined with section."),
		),
		mcp.WithString("section",
			mcp.Description("Heading title to jump to. Matching is case-insensitive and tolerates small typos."),
		),
		mcp.WithNumber("max_length",
			mcp.Description("Maximum characters to return in one window."),
		),
	)
}

func (t *FetchTool) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := t.log.With("request_id", newRequestID(), "tool", "fetch")

	urls := request.GetStringSlice("urls", nil)
	_, hasURLs := request.GetArguments()["urls"]
	url := request.GetString("url", "")
	switch {
	case hasURLs && len(urls) == 0:
		return mcp.NewToolResultError("Error: No URLs provided."), nil
	case url != "" && len(urls) > 0:
		return mcp.NewToolResultError("Error: Provide either 'url' or 'urls', not both."), nil
	case url == "" && len(urls) == 0:
		return mcp.NewToolResultError("Error: Provide either 'url' or 'urls'."), nil
	}

	maxLength := request.GetInt("max_length", t.cfg.FetchMaxLength)

	if len(urls) > 0 {
		return t.handleBatch(ctx, log, urls, maxLength)
	}

	var start *int
	if _, ok := request.GetArguments()["start_index"]; ok {
		v := request.GetInt("start_index", 0)
		start = &v
	}
	section := request.GetString("section", "")

	req := pager.Request{Start: start, Section: section, MaxLength: maxLength}
	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}

	doc, err := t.loadDocument(ctx, log, url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	res, err := pager.Render(doc, req, t.opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}

	out := format.FetchResult(url, format.BalanceFences(res.Window.Text), res.Window.Start)
	out += format.TruncationMetadata(res.Nav, res.Window, url)
	log.Info("page served", "url", url,
		"window_start", res.Window.Start, "window_end", res.Window.End,
		"truncated", res.Window.Truncated)
	return mcp.NewToolResultText(out), nil
}

func (t *FetchTool) handleBatch(ctx context.Context, log *slog.Logger, urls []string, maxLength int) (*mcp.CallToolResult, error) {
	if len(urls) > t.cfg.FetchMaxPages {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Error: Too many URLs requested (%d). Maximum allowed is %d.", len(urls), t.cfg.FetchMaxPages)), nil
	}

	pages := make([]format.PageResult, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			pages[i] = t.fetchOne(ctx, log, u, maxLength)
		}(i, u)
	}
	wg.Wait()

	log.Info("batch served", "pages", len(urls))
	return mcp.NewToolResultText(format.FetchResults(pages, len(urls))), nil
}

// fetchOne reads one batch entry from the document start. Errors stay in the
// entry so one bad page cannot spoil the batch.
func (t *FetchTool) fetchOne(ctx context.Context, log *slog.Logger, url string, maxLength int) format.PageResult {
	doc, err := t.loadDocument(ctx, log, url)
	if err != nil {
		return format.PageResult{URL: url, Err: err}
	}
	w := doc.WindowAt(0, maxLength, t.opts)
	content := format.BalanceFences(w.Text)
	if nav := doc.Navigation(w); nav != nil {
		content += format.TruncationMetadata(nav, w, url)
	}
	return format.PageResult{URL: url, Content: content}
}

// loadDocument returns the indexed document for url, consulting the page
// cache before the network. Cache failures degrade to a plain fetch.
func (t *FetchTool) loadDocument(ctx context.Context, log *slog.Logger, url string) (*pager.Document, error) {
	if text, ok, err := t.store.Get(ctx, url); err != nil {
		log.Warn("page cache read failed", "url", url, "error", err)
	} else if ok {
		log.Debug("page cache hit", "url", url)
		return pager.NewDocument(text), nil
	}

	body, contentType, err := t.fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	text, err := markup.ForContent(contentType, url).Decode(bytes.NewReader(body), url)
	if err != nil {
		return nil, err
	}
	if err := t.store.Put(ctx, url, text); err != nil {
		log.Warn("page cache write failed", "url", url, "error", err)
	}
	return pager.NewDocument(text), nil
}
