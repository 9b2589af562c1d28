// Package client is a Go consumer of the churchsite API. It keeps a local
// mirror of the daily content collection, refetched in full after every
// mutation, which is how the dashboard frontend consumes the API as well.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	domain "github.com/gracechapel/churchsite/internal/domain/content"
	"github.com/gracechapel/churchsite/internal/domain/user"
)

// APIError is the decoded error envelope from a non-2xx response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

type Client struct {
	base  string
	httpc *http.Client

	mu     sync.RWMutex
	token  string
	byDate map[string]domain.DailyContent
	dates  []string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:   baseURL,
		httpc:  &http.Client{Timeout: 15 * time.Second},
		byDate: make(map[string]domain.DailyContent),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type authResponse struct {
	User  user.Public `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges credentials for a bearer token, kept for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (user.Public, error) {
	var resp authResponse

	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)

	if err != nil {
		return user.Public{}, err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()

	return resp.User, nil
}

// Signup registers an account and is logged in on success.
func (c *Client) Signup(ctx context.Context, req user.SignupRequest) (user.Public, error) {
	var resp authResponse

	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &resp); err != nil {
		return user.Public{}, err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()

	return resp.User, nil
}

// Refresh refetches the whole collection and replaces the mirror.
func (c *Client) Refresh(ctx context.Context) error {
	var resp struct {
		Data []domain.DailyContent `json:"data"`
	}

	if err := c.do(ctx, http.MethodGet, "/api/daily-content/all", nil, &resp); err != nil {
		return err
	}

	byDate := make(map[string]domain.DailyContent, len(resp.Data))
	dates := make([]string, 0, len(resp.Data))

	for _, rec := range resp.Data {
		byDate[rec.Date] = rec
		dates = append(dates, rec.Date)
	}

	// the server already orders newest first; sort again so the mirror
	// never depends on transport order
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	c.mu.Lock()
	c.byDate = byDate
	c.dates = dates
	c.mu.Unlock()

	return nil
}

// Get returns the mirrored record for a date.
func (c *Client) Get(date string) (domain.DailyContent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.byDate[date]

	return rec, ok
}

// Latest returns the record with the newest date.
func (c *Client) Latest() (domain.DailyContent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.dates) == 0 {
		return domain.DailyContent{}, false
	}

	return c.byDate[c.dates[0]], true
}

// AvailableDates lists mirrored dates, newest first.
func (c *Client) AvailableDates() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.dates))
	copy(out, c.dates)

	return out
}

// Save submits a create-or-edit and refreshes the mirror on success.
func (c *Client) Save(ctx context.Context, req domain.SaveRequest) (domain.DailyContent, error) {
	var resp struct {
		Data domain.DailyContent `json:"data"`
	}

	if err := c.do(ctx, http.MethodPost, "/api/daily-content", req, &resp); err != nil {
		return domain.DailyContent{}, err
	}

	if err := c.Refresh(ctx); err != nil {
		return domain.DailyContent{}, err
	}

	return resp.Data, nil
}

// Delete removes a record by id and refreshes the mirror on success.
func (c *Client) Delete(ctx context.Context, id string) error {
	path := "/api/daily-content?id=" + url.QueryEscape(id)

	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}

	return c.Refresh(ctx)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer

	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)

	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}

		var envelope struct {
			Error json.RawMessage `json:"error"`
		}

		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && len(envelope.Error) > 0 {
			_ = json.Unmarshal(envelope.Error, apiErr)
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
