package intranet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const sessionCookie = "folioauth"

// Client talks to one Folio community. A session key is created lazily,
// shared across requests, and re-created once when the platform reports it
// expired.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	log      *slog.Logger

	mu      sync.Mutex
	session string
}

func NewClient(baseURL, username, password string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// BaseURL returns the community root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

type sessionResponse struct {
	Response struct {
		SessionKey string `json:"sessionKey"`
	} `json:"response"`
}

// ensureSession returns the cached session key, authenticating if needed.
func (c *Client) ensureSession(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != "" {
		return c.session, nil
	}

	creds, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/.api/session/create", bytes.NewReader(creds))
	if err != nil {
		return "", fmt.Errorf("create session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("create session: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var sr sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decode session response: %w", err)
	}
	if sr.Response.SessionKey == "" {
		return "", fmt.Errorf("session response missing key")
	}
	c.session = sr.Response.SessionKey
	c.log.Debug("session created")
	return c.session, nil
}

func (c *Client) invalidateSession() {
	c.mu.Lock()
	c.session = ""
	c.mu.Unlock()
}

// get sends one authenticated GET, re-authenticating once on 401.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		key, err := c.ensureSession(ctx)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: key})

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			resp.Body.Close()
			c.invalidateSession()
			c.log.Debug("session rejected, re-authenticating")
			continue
		}
		return resp, nil
	}
}

// FetchPage retrieves one raw page body with its content type. Only URLs
// under the configured community are allowed.
func (c *Client) FetchPage(ctx context.Context, pageURL string) ([]byte, string, error) {
	if !strings.HasPrefix(pageURL, c.baseURL) {
		return nil, "", fmt.Errorf("URL must belong to the configured community (%s)", c.baseURL)
	}
	resp, err := c.get(ctx, pageURL)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return nil, "", fmt.Errorf("Request timed out while fetching %s", pageURL)
		}
		return nil, "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d - Failed to fetch page", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read page body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
