package intranet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSessionKey(w http.ResponseWriter, key string) {
	json.NewEncoder(w).Encode(map[string]any{
		"response": map[string]any{"sessionKey": key},
	})
}

func TestFetchPageAuthenticatesOnce(t *testing.T) {
	var sessions atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.api/session/create":
			if r.Method != http.MethodPost {
				t.Errorf("expected POST session create, got %s", r.Method)
			}
			var creds map[string]string
			if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
				t.Errorf("decode credentials failed: %v", err)
			}
			if creds["username"] != "svc" || creds["password"] != "secret" {
				t.Errorf("unexpected credentials: %v", creds)
			}
			sessions.Add(1)
			writeSessionKey(w, "key1")
		case "/pages/handbook":
			cookie, err := r.Cookie(sessionCookie)
			if err != nil || cookie.Value != "key1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, "<html><body>handbook</body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "svc", "secret", 5*time.Second, testLogger())
	defer c.Close()

	for i := 0; i < 2; i++ {
		body, contentType, err := c.FetchPage(context.Background(), srv.URL+"/pages/handbook")
		if err != nil {
			t.Fatalf("FetchPage %d failed: %v", i, err)
		}
		if !strings.Contains(string(body), "handbook") {
			t.Errorf("expected page body, got %q", body)
		}
		if !strings.HasPrefix(contentType, "text/html") {
			t.Errorf("expected html content type, got %q", contentType)
		}
	}
	if got := sessions.Load(); got != 1 {
		t.Errorf("expected a single session create across fetches, got %d", got)
	}
}

func TestFetchPageReauthenticatesOnExpiredSession(t *testing.T) {
	var sessions atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.api/session/create":
			n := sessions.Add(1)
			writeSessionKey(w, fmt.Sprintf("key%d", n))
		case "/pages/policy":
			cookie, err := r.Cookie(sessionCookie)
			if err != nil || cookie.Value != "key2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, "policy text")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "svc", "secret", 5*time.Second, testLogger())
	defer c.Close()

	body, _, err := c.FetchPage(context.Background(), srv.URL+"/pages/policy")
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if string(body) != "policy text" {
		t.Errorf("expected body from retried request, got %q", body)
	}
	if got := sessions.Load(); got != 2 {
		t.Errorf("expected re-authentication to create a second session, got %d", got)
	}
}

func TestFetchPageRejectsForeignURL(t *testing.T) {
	c := NewClient("https://intranet.example.com", "svc", "secret", time.Second, testLogger())
	defer c.Close()

	_, _, err := c.FetchPage(context.Background(), "https://elsewhere.example.com/page")
	if err == nil {
		t.Fatal("expected error for URL outside the community")
	}
	if !strings.Contains(err.Error(), "must belong to the configured community") {
		t.Errorf("expected community guard message, got %q", err)
	}
}

func TestFetchPageReportsHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/.api/session/create" {
			writeSessionKey(w, "key1")
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "svc", "secret", 5*time.Second, testLogger())
	defer c.Close()

	_, _, err := c.FetchPage(context.Background(), srv.URL+"/pages/missing")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "HTTP 404 - Failed to fetch page") {
		t.Errorf("expected status error message, got %q", err)
	}
}

func searchTestServer(t *testing.T, total int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.api/session/create":
			writeSessionKey(w, "key1")
		case "/.api/search/contentDetailed":
			if calls != nil {
				calls.Add(1)
			}
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
			results := []map[string]any{}
			for j := 0; j < limit && offset+j < total; j++ {
				results = append(results, map[string]any{
					"title": fmt.Sprintf("Item %d", offset+j),
					"href":  fmt.Sprintf("/pages/%d", offset+j),
				})
			}
			json.NewEncoder(w).Encode(map[string]any{
				"results": results, "numFound": total,
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestSearchCollectsAcrossPages(t *testing.T) {
	const total = 7
	srv := searchTestServer(t, total, nil)
	defer srv.Close()

	c := NewClient(srv.URL, "svc", "secret", 5*time.Second, testLogger())
	defer c.Close()

	res, err := c.Search(context.Background(), Query{Text: "item", Limit: 5}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.TotalFound != total {
		t.Errorf("expected total %d, got %d", total, res.TotalFound)
	}
	if len(res.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(res.Items))
	}
	for i, item := range res.Items {
		if want := fmt.Sprintf("Item %d", i); item.Title != want {
			t.Errorf("expected item %d titled %q, got %q", i, want, item.Title)
		}
		if want := srv.URL + fmt.Sprintf("/pages/%d", i); item.FullURL != want {
			t.Errorf("expected full URL %q, got %q", want, item.FullURL)
		}
	}
}

func TestSearchWithoutLimitCollectsEverything(t *testing.T) {
	const total = 5
	var calls atomic.Int32
	srv := searchTestServer(t, total, &calls)
	defer srv.Close()

	c := NewClient(srv.URL, "svc", "secret", 5*time.Second, testLogger())
	defer c.Close()

	res, err := c.Search(context.Background(), Query{Text: "item"}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Items) != total {
		t.Fatalf("expected all %d items, got %d", total, len(res.Items))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 page requests for 5 results at page size 2, got %d", got)
	}
}

func TestSearchSinglePageWhenLimitSmall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.api/session/create":
			writeSessionKey(w, "key1")
		case "/.api/search/contentDetailed":
			calls.Add(1)
			json.NewEncoder(w).Encode(map[string]any{
				"results":  []map[string]any{{"title": "Only"}},
				"numFound": 40,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "svc", "secret", 5*time.Second, testLogger())
	defer c.Close()

	res, err := c.Search(context.Background(), Query{Text: "only", Limit: 1}, 50)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Title != "Only" {
		t.Errorf("expected the single requested item, got %+v", res.Items)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected one search request, got %d", got)
	}
}

func TestSearchPropagatesBadQuery(t *testing.T) {
	c := NewClient("https://intranet.example.com", "svc", "secret", time.Second, testLogger())
	defer c.Close()

	_, err := c.Search(context.Background(), Query{Applications: []string{"nope"}, Limit: 5}, 50)
	if err == nil {
		t.Fatal("expected error for unknown application")
	}
	if !strings.Contains(err.Error(), "unknown application") {
		t.Errorf("expected parameter error, got %q", err)
	}
}
