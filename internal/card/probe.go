package card

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pders01/gazette/internal/config"
	"github.com/pders01/gazette/internal/debuglog"
	"github.com/pders01/gazette/internal/resource"
)

// Prober confirms an image is loadable before a card shows it.
type Prober struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func NewProber(f *resource.Fetcher, cfg *config.Config) *Prober {
	p := &Prober{client: http.DefaultClient, timeout: 10 * time.Second}
	if f != nil {
		p.client = f.Client()
		p.userAgent = f.UserAgent()
	}
	if cfg != nil && cfg.Catalog.HTTPTimeout > 0 {
		p.timeout = cfg.Catalog.HTTPTimeout
	}
	return p
}

// Probe waits until url has either loaded or failed and returns url in
// both cases. The outcome only goes to the debug log; callers treat the
// image as ready either way.
func (p *Prober) Probe(ctx context.Context, url string) string {
	if url == "" {
		return url
	}

	if err := p.Check(ctx, url); err != nil {
		debuglog.Debugf("image %s not loadable: %v", url, err)
	}
	return url
}

// Check reports whether url can be loaded: a HEAD request for remote
// images, a stat for local ones.
func (p *Prober) Check(ctx context.Context, url string) error {
	if resource.IsRemote(url) {
		return p.head(ctx, url)
	}
	_, err := os.Stat(config.ExpandPath(url))
	return err
}

func (p *Prober) head(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	return nil
}
