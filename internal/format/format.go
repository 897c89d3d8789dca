// Package format renders tool results as plain text for the assistant.
package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dgallion1/folio-mcp/internal/pager"
)

const maxUpcomingSections = 5

var num = message.NewPrinter(language.English)

// group renders n with thousands separators.
func group(n int) string {
	return num.Sprintf("%d", n)
}

// FetchResult renders one fetched page. startIndex is the offset the window
// was read from, shown only when beyond the document start.
func FetchResult(url, content string, startIndex int) string {
	var b strings.Builder
	b.WriteString("# Fetched Content\n\n")
	b.WriteString("URL: " + url + "\n")
	if startIndex > 0 {
		b.WriteString("Reading from offset: " + group(startIndex) + "\n")
	}
	b.WriteString("\n---\n\n")
	b.WriteString(content)
	return b.String()
}

// TruncationMetadata renders the navigation footer for a truncated window.
// It returns the empty string when the window covers the rest of the document.
func TruncationMetadata(nav *pager.Navigation, w pager.Window, url string) string {
	if nav == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n---\n")
	b.WriteString("⚠️ CONTENT TRUNCATED\n")
	fmt.Fprintf(&b, "Showing %s of %s chars (%d%% of document)\n",
		group(w.End-w.Start), group(nav.TotalLength), nav.PercentShown)
	if w.Boundary == pager.BoundaryHard {
		b.WriteString("Cut at the exact length limit; no sentence or paragraph break was in reach.\n")
	}
	if len(nav.CurrentPath) > 0 {
		b.WriteString("Current section: " + strings.Join(nav.CurrentPath, " > ") + "\n")
	}
	if len(nav.RemainingSections) > 0 {
		preview := nav.RemainingSections
		suffix := ""
		if len(preview) > maxUpcomingSections {
			preview = preview[:maxUpcomingSections]
			suffix = ", ..."
		}
		b.WriteString("Upcoming sections: " + strings.Join(preview, ", ") + suffix + "\n")
	}
	b.WriteString("\nTo continue reading, call fetch with start_index:\n")
	fmt.Fprintf(&b, "  fetch(url=%q, start_index=%d)\n", url, nav.NextStartIndex)
	return b.String()
}

// BalanceFences closes an unterminated code fence so a truncated window still
// renders as markdown.
func BalanceFences(text string) string {
	if strings.Count(text, "```")%2 == 0 {
		return text
	}
	return text + "\n```\n[Code block truncated]"
}

// PageResult is one entry in a multi-URL fetch.
type PageResult struct {
	URL     string
	Content string
	Err     error
}

// FetchResults renders a batch of pages in request order. Failed pages keep
// their slot with the error inline.
func FetchResults(pages []PageResult, total int) string {
	if len(pages) == 0 {
		return "No pages to display."
	}
	blocks := make([]string, len(pages))
	for i, p := range pages {
		url := p.URL
		if url == "" {
			url = "Unknown URL"
		}
		body := p.Content
		if p.Err != nil {
			body = fmt.Sprintf("[Error fetching page: %v]", p.Err)
		}
		blocks[i] = fmt.Sprintf("===== PAGE %d of %d =====\nURL: %s\n\n%s", i+1, total, url, body)
	}
	return strings.Join(blocks, "\n\n")
}
