package readability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	goreadability "github.com/go-shiori/go-readability"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20 // 1 MiB
	userAgent      = "hn-live/1.0"
)

// ErrNoContent is returned when the page parses but yields no readable body.
var ErrNoContent = errors.New("no content extracted")

// Article holds extracted reader-mode content.
type Article struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Byline  string `json:"byline,omitempty"`
	Content string `json:"content"` // cleaned HTML
	Excerpt string `json:"excerpt,omitempty"`
}

// Reader fetches story links and extracts reader-mode content.
type Reader struct {
	http    *http.Client
	timeout time.Duration
}

// NewReader returns a Reader with transport-level limits suited to arbitrary
// third-party sites. A nil client uses the default transport settings.
func NewReader(hc *http.Client) *Reader {
	if hc == nil {
		hc = &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 15 * time.Second,
				MaxIdleConns:          20,
				MaxIdleConnsPerHost:   5,
				IdleConnTimeout:       90 * time.Second,
			},
		}
	}
	return &Reader{http: hc, timeout: defaultTimeout}
}

// Read fetches rawURL and extracts its article. The reader's timeout is
// applied on top of ctx.
func (r *Reader) Read(ctx context.Context, rawURL string) (*Article, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if pageURL.Scheme != "http" && pageURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", pageURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response exceeds %d bytes", maxBodySize)
	}

	parsed, err := goreadability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return nil, fmt.Errorf("readability extract: %w", err)
	}
	if parsed.Content == "" {
		return nil, ErrNoContent
	}

	return &Article{
		URL:     rawURL,
		Title:   parsed.Title,
		Byline:  parsed.Byline,
		Content: parsed.Content,
		Excerpt: parsed.Excerpt,
	}, nil
}
