// Package app assembles the MCP server from its parts.
package app

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dgallion1/folio-mcp/internal/cache"
	"github.com/dgallion1/folio-mcp/internal/config"
	"github.com/dgallion1/folio-mcp/internal/intranet"
	"github.com/dgallion1/folio-mcp/internal/tools"
	"github.com/dgallion1/folio-mcp/internal/version"
)

const instructions = `This server reads content from a Folio intranet community.

Use search to find pages, wikis, blog posts and other content. Use fetch to
read a page as markdown. Large documents are returned in windows: when a
result ends with a CONTENT TRUNCATED footer, call fetch again with the
start_index shown there to continue reading, or pass section to jump straight
to a heading. Pass urls (a list) to read several pages in one call.`

// New wires the intranet client, page cache and tools into an MCP server.
// The returned cleanup releases those resources and is always non-nil.
func New(cfg config.Config, log *slog.Logger) (*server.MCPServer, func()) {
	client := intranet.NewClient(cfg.BaseURL, cfg.Username, cfg.Password, cfg.FetchTimeout, log)

	var store *cache.Store
	if cfg.CacheTTL > 0 {
		var err error
		store, err = cache.Open(cfg.CachePath, cfg.CacheTTL)
		if err != nil {
			log.Warn("page cache unavailable, fetches will not be cached", "error", err)
		}
	}

	s := server.NewMCPServer(
		"Folio MCP Server",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	fetchTool := tools.NewFetchTool(client, store, cfg, log)
	s.AddTool(fetchTool.Definition(), fetchTool.Handle)

	searchTool := tools.NewSearchTool(client, cfg, log)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Warn("page cache close failed", "error", err)
		}
		client.Close()
	}
	return s, cleanup
}
