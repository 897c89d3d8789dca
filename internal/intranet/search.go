package intranet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// searchConcurrency bounds parallel page requests after the first.
const searchConcurrency = 4

// Query describes one content search. Limit caps the number of items
// collected; zero or negative means collect everything the platform reports.
type Query struct {
	Text             string
	Applications     []string
	ParentHref       string
	SearchAll        bool
	IncludeArchived  bool
	IncludeMicroblog bool
	UpdatedDateType  string
	UpdatedFrom      string
	UpdatedTo        string
	Limit            int
}

// Item is one search hit.
type Item struct {
	Title         string
	Type          string
	RelativeURL   string
	FullURL       string
	Description   string
	Content       string
	Labels        map[string]any
	ModifiedDate  string
	ViewsCount    int
	CommentsCount int
	LikesCount    int
	IsArchived    bool
	IsRecommended bool
}

// Result holds the items for a query plus the platform's total hit count.
type Result struct {
	Items      []Item
	TotalFound int
}

// applicationIDs maps the accepted application names to the platform's
// numeric type identifiers.
var applicationIDs = map[string]int{
	"blog":      1,
	"wiki":      2,
	"document":  3,
	"forum":     4,
	"gallery":   5,
	"calendar":  6,
	"pages":     7,
	"people":    8,
	"space":     9,
	"microblog": 10,
}

// ApplicationNames returns the accepted application filter names, sorted.
func ApplicationNames() []string {
	names := make([]string, 0, len(applicationIDs))
	for name := range applicationIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// dateTypeParams maps the accepted date filter names to wire values.
var dateTypeParams = map[string]string{
	"past_hour":     "pastHour",
	"past_24_hours": "pastTwentyFourHours",
	"past_week":     "pastWeek",
	"past_month":    "pastMonth",
	"past_year":     "pastYear",
	"custom_range":  "dateRange",
}

// wireDate converts a YYYY-MM-DD date to the platform's MM-DD-YYYY form.
func wireDate(value string) (string, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "", err
	}
	return t.Format("01-02-2006"), nil
}

// buildParams translates a Query into wire parameters. The wire limit is the
// page size; callers page through results with the offset parameter.
func buildParams(q Query, pageSize int) (url.Values, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(pageSize))
	if q.Text != "" {
		params.Set("query", q.Text)
	}
	if len(q.Applications) > 0 {
		ids := make([]string, 0, len(q.Applications))
		for _, name := range q.Applications {
			id, ok := applicationIDs[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("unknown application %q, valid values: %s",
					name, strings.Join(ApplicationNames(), ", "))
			}
			ids = append(ids, strconv.Itoa(id))
		}
		params.Set("applications", strings.Join(ids, ","))
	}
	if q.ParentHref != "" {
		params.Set("parentHref", strings.TrimRight(q.ParentHref, "/"))
	}
	params.Set("searchAll", strconv.FormatBool(q.SearchAll))
	params.Set("includeMicroblog", strconv.FormatBool(q.IncludeMicroblog))
	params.Set("includeArchived", strconv.FormatBool(q.IncludeArchived))
	if q.UpdatedDateType != "" {
		wire, ok := dateTypeParams[q.UpdatedDateType]
		if !ok {
			valid := make([]string, 0, len(dateTypeParams))
			for name := range dateTypeParams {
				valid = append(valid, name)
			}
			sort.Strings(valid)
			return nil, fmt.Errorf("unknown updated_date_type %q, valid values: %s",
				q.UpdatedDateType, strings.Join(valid, ", "))
		}
		params.Set("updatedDateType", wire)
		if q.UpdatedDateType == "custom_range" && (q.UpdatedFrom == "" || q.UpdatedTo == "") {
			return nil, fmt.Errorf("updated_date_range_from and updated_date_range_to are required when updated_date_type is %q", q.UpdatedDateType)
		}
		if q.UpdatedFrom != "" {
			from, err := wireDate(q.UpdatedFrom)
			if err != nil {
				return nil, fmt.Errorf("invalid updated_date_range_from %q: expected YYYY-MM-DD", q.UpdatedFrom)
			}
			params.Set("updatedFrom", from)
		}
		if q.UpdatedTo != "" {
			to, err := wireDate(q.UpdatedTo)
			if err != nil {
				return nil, fmt.Errorf("invalid updated_date_range_to %q: expected YYYY-MM-DD", q.UpdatedTo)
			}
			params.Set("updatedTo", to)
		}
	}
	return params, nil
}

type wireItem struct {
	Title         string         `json:"title"`
	Type          string         `json:"applicationType"`
	Href          string         `json:"href"`
	Description   string         `json:"description"`
	Content       string         `json:"content"`
	Labels        map[string]any `json:"labels"`
	ModifiedDate  string         `json:"modifiedDate"`
	Views         int            `json:"numberOfViews"`
	Comments      int            `json:"numberOfComments"`
	Likes         int            `json:"numberOfLikes"`
	IsArchived    bool           `json:"isArchived"`
	IsRecommended bool           `json:"isRecommended"`
}

type searchResponse struct {
	Results  []wireItem `json:"results"`
	NumFound int        `json:"numFound"`
}

func (c *Client) transform(w wireItem) Item {
	full := ""
	if w.Href != "" {
		full = c.baseURL + w.Href
	}
	return Item{
		Title:         w.Title,
		Type:          w.Type,
		RelativeURL:   w.Href,
		FullURL:       full,
		Description:   w.Description,
		Content:       w.Content,
		Labels:        w.Labels,
		ModifiedDate:  w.ModifiedDate,
		ViewsCount:    w.Views,
		CommentsCount: w.Comments,
		LikesCount:    w.Likes,
		IsArchived:    w.IsArchived,
		IsRecommended: w.IsRecommended,
	}
}

// searchPage fetches one page of results at the given offset.
func (c *Client) searchPage(ctx context.Context, q Query, pageSize, offset int) ([]Item, int, error) {
	params, err := buildParams(q, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	resp, err := c.get(ctx, c.baseURL+"/.api/search/contentDetailed?"+params.Encode())
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, 0, fmt.Errorf("search: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}
	items := make([]Item, len(sr.Results))
	for i, w := range sr.Results {
		items[i] = c.transform(w)
	}
	total := sr.NumFound
	if total == 0 {
		total = len(items)
	}
	return items, total, nil
}

// Search runs a query, paging through results until q.Limit items are
// collected or the platform runs out. A non-positive limit collects every
// reported result. Pages after the first are fetched concurrently.
func (c *Client) Search(ctx context.Context, q Query, pageSize int) (Result, error) {
	items, total, err := c.searchPage(ctx, q, pageSize, 0)
	if err != nil {
		return Result{}, err
	}

	want := total
	if q.Limit > 0 && q.Limit < want {
		want = q.Limit
	}

	if len(items) < want {
		var offsets []int
		for off := len(items); off < want; off += pageSize {
			offsets = append(offsets, off)
		}
		pages := make([][]Item, len(offsets))
		errs := make([]error, len(offsets))

		var wg sync.WaitGroup
		sem := make(chan struct{}, searchConcurrency)
		for i := range offsets {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				pages[i], _, errs[i] = c.searchPage(ctx, q, pageSize, offsets[i])
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				return Result{}, fmt.Errorf("search page at offset %d: %w", offsets[i], err)
			}
		}
		for _, page := range pages {
			items = append(items, page...)
		}
	}

	if q.Limit > 0 && len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return Result{Items: items, TotalFound: total}, nil
}

// SortItems returns items ordered by the given key. "views" sorts a copy by
// view count, highest first; any other value returns items unchanged.
func SortItems(items []Item, order string) []Item {
	if order != "views" {
		return items
	}
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ViewsCount > sorted[j].ViewsCount
	})
	return sorted
}
