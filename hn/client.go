package hn

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
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL     = "https://hacker-news.firebaseio.com/v0"
	DefaultConcurrency = 10
	defaultTimeout     = 15 * time.Second
	maxBodySize        = 4 << 20 // 4 MiB
)

// ErrNotFound is returned when the upstream answers with a JSON null body,
// which is how it reports nonexistent items and users.
var ErrNotFound = errors.New("not found")

type Client struct {
	http        *http.Client
	baseURL     string
	concurrency int
	limiter     *rate.Limiter
	sfItem      singleflight.Group
}

type Option func(*Client)

// WithBaseURL points the client at a different API root (tests use httptest servers).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithConcurrency sets the default number of in-flight requests per batch.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithRateLimit caps upstream requests per second across the whole client.
// A non-positive rps means unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: defaultTimeout},
		baseURL:     DefaultBaseURL,
		concurrency: DefaultConcurrency,
		limiter:     rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON fetches baseURL+path and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(body) > maxBodySize {
		return fmt.Errorf("read %s: response exceeds %d bytes", path, maxBodySize)
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrNotFound
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Item fetches a single item by id. It never fails: any error becomes a
// failure marker carrying the requested id. Concurrent requests for the
// same id share one upstream call, which runs detached from any single
// caller's cancellation; each caller still stops waiting when its own ctx
// is done.
func (c *Client) Item(ctx context.Context, id int) Result {
	shared := context.WithoutCancel(ctx)
	ch := c.sfItem.DoChan(strconv.Itoa(id), func() (any, error) {
		var item Item
		if err := c.getJSON(shared, fmt.Sprintf("/item/%d.json", id), &item); err != nil {
			return Result{ID: id, Err: err}, nil
		}
		if item.ID == 0 {
			item.ID = id
		}
		return Result{ID: id, Item: &item}, nil
	})

	var res Result
	select {
	case r := <-ch:
		res = r.Val.(Result)
	case <-ctx.Done():
		res = Result{ID: id, Err: fmt.Errorf("fetch item %d: %w", id, ctx.Err())}
	}
	if res.Err != nil {
		slog.Debug("item fetch failed", "item_id", id, "error", res.Err)
	}
	return res
}

// Items fetches ids concurrently, at most limit at a time (limit <= 0 uses
// the client default), and returns one result per id in input order.
func (c *Client) Items(ctx context.Context, ids []int, limit int) []Result {
	if limit <= 0 {
		limit = c.concurrency
	}
	results := make([]Result, len(ids))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = c.Item(ctx, id)
			return nil // failures are reported per item
		})
	}
	g.Wait()
	return results
}

// TopicIDs returns the ordered story ids for a topic. On failure the slice
// is empty (never nil) and the error says why; callers that only look at
// the slice cannot tell a failed list from an empty one.
func (c *Client) TopicIDs(ctx context.Context, topic Topic) ([]int, error) {
	var ids []int
	if err := c.getJSON(ctx, "/"+topic.endpoint()+".json", &ids); err != nil {
		slog.Warn("topic ids fetch failed", "topic", topic, "error", err)
		return []int{}, fmt.Errorf("fetch %s ids: %w", topic, err)
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

// User fetches a profile by handle, or a failure marker for the handle.
func (c *Client) User(ctx context.Context, handle string) UserResult {
	var u User
	if err := c.getJSON(ctx, "/user/"+url.PathEscape(handle)+".json", &u); err != nil {
		slog.Debug("user fetch failed", "user", handle, "error", err)
		return UserResult{Handle: handle, Err: err}
	}
	return UserResult{Handle: handle, User: &u}
}

// MaxItem returns the current largest item id, or 0 if it cannot be fetched.
func (c *Client) MaxItem(ctx context.Context) (int, error) {
	var id int
	if err := c.getJSON(ctx, "/maxitem.json", &id); err != nil {
		slog.Warn("max item fetch failed", "error", err)
		return 0, fmt.Errorf("fetch max item: %w", err)
	}
	return id, nil
}

// Updates returns recently changed items and profiles. On failure both
// lists are empty.
func (c *Client) Updates(ctx context.Context) (Updates, error) {
	var u Updates
	if err := c.getJSON(ctx, "/updates.json", &u); err != nil {
		return Updates{Items: []int{}, Profiles: []string{}}, fmt.Errorf("fetch updates: %w", err)
	}
	if u.Items == nil {
		u.Items = []int{}
	}
	if u.Profiles == nil {
		u.Profiles = []string{}
	}
	return u, nil
}
