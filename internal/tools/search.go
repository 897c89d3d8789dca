package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dgallion1/folio-mcp/internal/config"
	"github.com/dgallion1/folio-mcp/internal/format"
	"github.com/dgallion1/folio-mcp/internal/intranet"
)

// Searcher runs content searches against the community.
type Searcher interface {
	Search(ctx context.Context, q intranet.Query, pageSize int) (intranet.Result, error)
}

// SearchTool exposes community search with application and date filters.
type SearchTool struct {
	searcher Searcher
	cfg      config.Config
	log      *slog.Logger
}

func NewSearchTool(searcher Searcher, cfg config.Config, log *slog.Logger) *SearchTool {
	return &SearchTool{searcher: searcher, cfg: cfg, log: log}
}

func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search content in the Folio community. Returns titles, URLs and snippets; use fetch to read a full page."),
		mcp.WithString("query",
			mcp.Description("Search terms. Leave empty to list everything matching the filters."),
		),
		mcp.WithArray("applications",
			mcp.Description("Restrict to content types: "+strings.Join(intranet.ApplicationNames(), ", ")+"."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("parent_href",
			mcp.Description("Restrict to content under this relative path, e.g. /spaces/engineering."),
		),
		mcp.WithBoolean("search_all",
			mcp.Description("Search the whole community instead of only followed content. Defaults to true."),
		),
		mcp.WithBoolean("include_archived",
			mcp.Description("Include archived content."),
		),
		mcp.WithBoolean("include_microblog",
			mcp.Description("Include microblog posts. Defaults to true."),
		),
		mcp.WithString("updated_date_type",
			mcp.Description("Filter by last update: past_hour, past_24_hours, past_week, past_month, past_year or custom_range."),
		),
		mcp.WithString("updated_date_range_from",
			mcp.Description("Range start as YYYY-MM-DD, used with custom_range."),
		),
		mcp.WithString("updated_date_range_to",
			mcp.Description("Range end as YYYY-MM-DD, used with custom_range."),
		),
		mcp.WithString("sort",
			mcp.Description("Result order: default (platform relevance) or views."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results."),
		),
		mcp.WithNumber("pagination_page_size",
			mcp.Description("Results fetched per platform request."),
		),
	)
}

func (t *SearchTool) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := t.log.With("request_id", newRequestID(), "tool", "search")

	limit := request.GetInt("limit", t.cfg.SearchDefaultLimit)
	if limit <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Error: limit must be positive, got %d", limit)), nil
	}
	pageSize := request.GetInt("pagination_page_size", t.cfg.SearchPageSize)
	if pageSize <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Error: pagination_page_size must be positive, got %d", pageSize)), nil
	}
	sortOrder := request.GetString("sort", "default")

	// Sorting locally only means anything when every match is in hand, so a
	// non-default order searches without a limit and trims afterwards.
	searchLimit := limit
	if sortOrder != "default" {
		searchLimit = 0
	}

	q := intranet.Query{
		Text:             request.GetString("query", ""),
		Applications:     request.GetStringSlice("applications", nil),
		ParentHref:       request.GetString("parent_href", ""),
		SearchAll:        request.GetBool("search_all", true),
		IncludeArchived:  request.GetBool("include_archived", false),
		IncludeMicroblog: request.GetBool("include_microblog", true),
		UpdatedDateType:  request.GetString("updated_date_type", ""),
		UpdatedFrom:      request.GetString("updated_date_range_from", ""),
		UpdatedTo:        request.GetString("updated_date_range_to", ""),
		Limit:            searchLimit,
	}

	res, err := t.searcher.Search(ctx, q, pageSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	items := intranet.SortItems(res.Items, sortOrder)
	totalDisplayed := len(items)
	if len(items) > limit {
		items = items[:limit]
	}

	out := format.SearchResults(format.SearchParams{
		Query:           q.Text,
		Applications:    q.Applications,
		ParentHref:      q.ParentHref,
		UpdatedDateType: q.UpdatedDateType,
		UpdatedFrom:     q.UpdatedFrom,
		UpdatedTo:       q.UpdatedTo,
		Sort:            sortOrder,
		Limit:           limit,
	}, items, totalDisplayed)

	log.Info("search served", "query", q.Text, "results", len(items), "total", res.TotalFound)
	return mcp.NewToolResultText(out), nil
}
