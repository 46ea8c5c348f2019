// Package ghin is a thin client for the external handicap-tracking service.
// It authenticates with an admin account, caches the bearer token until
// expiry, and normalizes the provider's response shapes into golf types.
package ghin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ErrGolferNotFound indicates the provider has no golfer for that number.
var ErrGolferNotFound = errors.New("golfer not found")

// Config holds client construction options.
type Config struct {
	BaseURL       string
	AdminEmail    string
	AdminPassword string
	HTTPClient    *http.Client
	Logger        zerolog.Logger
}

// Golfer is the normalized golfer record returned by lookups.
type Golfer struct {
	GHINNumber    string   `json:"ghin_number"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	HandicapIndex *float64 `json:"handicap_index,omitempty"`
	Club          string   `json:"club,omitempty"`
	State         string   `json:"state,omitempty"`
}

// Client accesses the handicap service. Safe for concurrent use; the admin
// token is refreshed on expiry under a single-flight guard so concurrent
// callers never trigger duplicate refreshes.
type Client struct {
	baseURL string
	email   string
	pass    string
	http    *http.Client
	logger  zerolog.Logger

	mu      sync.RWMutex
	token   string
	expires time.Time
	group   singleflight.Group
}

// NewClient constructs a handicap-service client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("handicap service base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		email:   cfg.AdminEmail,
		pass:    cfg.AdminPassword,
		http:    httpClient,
		logger:  cfg.Logger.With().Str("component", "ghin_client").Logger(),
	}, nil
}

// tokenSkew is subtracted from the provider's expiry so a token is refreshed
// slightly before it actually lapses.
const tokenSkew = 30 * time.Second

func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	token, expires := c.token, c.expires
	c.mu.RUnlock()
	if token != "" && time.Now().Before(expires) {
		return token, nil
	}

	value, err, _ := c.group.Do("token", func() (interface{}, error) {
		// Another caller may have refreshed while this one queued.
		c.mu.RLock()
		token, expires := c.token, c.expires
		c.mu.RUnlock()
		if token != "" && time.Now().Before(expires) {
			return token, nil
		}
		return c.refreshToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

func (c *Client) refreshToken(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.pass,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("handicap service auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("handicap service auth: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("handicap service auth: %w", err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("handicap service auth: empty token")
	}

	ttl := time.Duration(payload.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	c.mu.Lock()
	c.token = payload.Token
	c.expires = time.Now().Add(ttl - tokenSkew)
	c.mu.Unlock()

	c.logger.Debug().Msg("handicap service token refreshed")
	return payload.Token, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("handicap service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrGolferNotFound
	default:
		// Drain so the connection can be reused; the status is all the
		// caller gets, provider details stay in the server-side log.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).
			Str("detail", string(detail)).Msg("handicap service error response")
		return fmt.Errorf("handicap service: unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
