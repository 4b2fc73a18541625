// Package resource fetches the site's JSON resources (catalog, quotes,
// legal pages) from either an http(s) URL or a local file.
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pders01/gazette/internal/config"
	"github.com/pders01/gazette/internal/debuglog"
)

const (
	defaultUserAgent = "gazette/1.0 (https://github.com/pders01/gazette)"
	defaultTimeout   = 30 * time.Second
	// maxBodySize caps a single resource; catalogs are a few MB at most.
	maxBodySize = 32 << 20
)

var (
	// ErrResourceUnavailable covers non-success responses, network
	// failures and missing files.
	ErrResourceUnavailable = errors.New("resource unavailable")
	// ErrParseFailure is returned when a resource body is malformed.
	ErrParseFailure = errors.New("resource parse failure")
)

type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := defaultTimeout
	ua := defaultUserAgent
	if cfg != nil {
		if cfg.Catalog.HTTPTimeout > 0 {
			timeout = cfg.Catalog.HTTPTimeout
		}
		if cfg.Catalog.UserAgent != "" {
			ua = cfg.Catalog.UserAgent
		}
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
		timeout:   timeout,
	}
}

// Client exposes the underlying HTTP client for callers that probe
// assets with the same timeout and transport.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// UserAgent is the header value sent with every request.
func (f *Fetcher) UserAgent() string {
	return f.userAgent
}

// IsRemote reports whether source is fetched over HTTP.
func IsRemote(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch reads the whole resource. Failures wrap ErrResourceUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrResourceUnavailable)
	}

	log := debuglog.WithFields(debuglog.Fields{"source": source})
	start := time.Now()

	var (
		body []byte
		err  error
	)
	if IsRemote(source) {
		body, err = f.fetchHTTP(ctx, source)
	} else {
		body, err = readFile(source)
	}
	if err != nil {
		log.Warnf("fetch failed: %v", err)
		return nil, err
	}

	log.Debugf("fetched %d bytes in %s", len(body), time.Since(start).Round(time.Millisecond))
	return body, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrResourceUnavailable, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrResourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrResourceUnavailable, err)
	}
	return body, nil
}

func readFile(path string) ([]byte, error) {
	body, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	return body, nil
}

// FetchJSON fetches source and decodes it into v.
func (f *Fetcher) FetchJSON(ctx context.Context, source string, v any) error {
	body, err := f.Fetch(ctx, source)
	if err != nil {
		return err
	}
	return DecodeJSON(body, v)
}

// DecodeJSON unmarshals body, wrapping failures in ErrParseFailure.
func DecodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	return nil
}
