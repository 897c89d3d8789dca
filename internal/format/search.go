package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dgallion1/folio-mcp/internal/intranet"
)

const (
	separator     = "----------"
	snippetLength = 200
)

// SearchParams echoes the query back in the result header.
type SearchParams struct {
	Query           string
	Applications    []string
	ParentHref      string
	UpdatedDateType string
	UpdatedFrom     string
	UpdatedTo       string
	Sort            string
	Limit           int
}

// SearchResults renders a search response: a one-line header echoing the
// query and its filters, then one block per item between separator lines.
func SearchResults(params SearchParams, items []intranet.Item, total int) string {
	header := searchHeader(params, total)
	if len(items) == 0 {
		return header + "\n\nNo results found."
	}
	var b strings.Builder
	b.WriteString(header)
	for _, item := range items {
		b.WriteString("\n" + separator + "\n")
		b.WriteString(itemBlock(item))
	}
	b.WriteString("\n" + separator)
	return b.String()
}

func searchHeader(params SearchParams, total int) string {
	query := "All"
	if params.Query != "" {
		query = `"` + params.Query + `"`
	}
	apps := "All"
	if len(params.Applications) > 0 {
		apps = strings.Join(params.Applications, ", ")
	}
	parts := []string{"Applications: " + apps}
	if filter := dateFilter(params); filter != "" {
		parts = append(parts, "Date Filter: "+filter)
	}
	if params.ParentHref != "" {
		parts = append(parts, "Parent: "+params.ParentHref)
	}
	sortOrder := params.Sort
	if sortOrder == "" {
		sortOrder = "default"
	}
	parts = append(parts,
		"Sort: "+sortOrder,
		fmt.Sprintf("Limit: %d", params.Limit),
		fmt.Sprintf("Total Results Found: %d", total),
	)
	return fmt.Sprintf("Search Results for Query: %s (%s):", query, strings.Join(parts, " | "))
}

func itemBlock(item intranet.Item) string {
	title := item.Title
	if title == "" {
		title = "Untitled"
	}
	kind := item.Type
	if kind == "" {
		kind = "unknown"
	}
	lines := []string{
		"Title: " + title,
		"Type: " + kind,
		"URL: " + item.FullURL,
	}
	if item.ModifiedDate != "" {
		lines = append(lines, "Last Modified: "+displayDate(item.ModifiedDate))
	}
	// A blank description falls through to the content snippet.
	if desc := strings.TrimSpace(item.Description); desc != "" {
		lines = append(lines, "Description: "+TruncateText(desc, snippetLength))
	} else if content := strings.TrimSpace(item.Content); content != "" {
		lines = append(lines, "Content: "+TruncateText(content, snippetLength))
	}
	lines = append(lines, fmt.Sprintf("Views: %d | Comments: %d | Likes: %d",
		item.ViewsCount, item.CommentsCount, item.LikesCount))
	if labels := labelList(item.Labels); len(labels) > 0 {
		lines = append(lines, "Labels: "+strings.Join(labels, ", "))
	}
	if item.IsRecommended {
		lines = append(lines, "* This item is recommended")
	}
	if item.IsArchived {
		lines = append(lines, "* This item is archived")
	}
	return strings.Join(lines, "\n")
}

// dateFilter renders the date constraint for the header. A custom range with
// both ends shows the dates themselves.
func dateFilter(params SearchParams) string {
	switch {
	case params.UpdatedDateType == "":
		return ""
	case params.UpdatedDateType == "custom_range" && params.UpdatedFrom != "" && params.UpdatedTo != "":
		return params.UpdatedFrom + " to " + params.UpdatedTo
	default:
		return titleCase(params.UpdatedDateType)
	}
}

// titleCase turns a snake_case token into spaced title case.
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// labelList flattens a labels map into values ordered by their numeric keys.
func labelList(labels map[string]any) []string {
	if len(labels) == 0 {
		return nil
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = fmt.Sprint(labels[k])
	}
	return values
}

// displayDate shortens platform timestamps to a calendar date, passing
// through anything it does not recognize.
func displayDate(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02")
	}
	if len(s) >= 10 && dateShaped(s[:10]) {
		return s[:10]
	}
	return s
}

func dateShaped(s string) bool {
	for i, r := range s {
		if i == 4 || i == 7 {
			if r != '-' {
				return false
			}
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TruncateText cuts text to at most max runes, preferring the last word
// boundary, and marks the cut with an ellipsis.
func TruncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := runes[:max]
	lastSpace := -1
	for i, r := range cut {
		if r == ' ' {
			lastSpace = i
		}
	}
	if lastSpace > 0 {
		cut = cut[:lastSpace]
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + "..."
}
