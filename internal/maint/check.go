package maint

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/debuglog"
	"github.com/pders01/gazette/internal/resource"
)

// ImageChecker reports whether an image can be loaded.
type ImageChecker interface {
	Check(ctx context.Context, url string) error
}

type CheckOptions struct {
	// BaseURL turns site-relative image paths into URLs. Without it they
	// are checked on disk.
	BaseURL string
	// Concurrency bounds parallel checks; values below 1 mean 1.
	Concurrency int
	// PerSecond limits the check rate; zero or less is unlimited.
	PerSecond float64
}

// ImageRef is one image reference of an article.
type ImageRef struct {
	ArticleID string
	Field     string
	URL       string
	Err       error
}

// ImageRefs lists the image and inline_image references of articles in
// catalog order.
func ImageRefs(articles []catalog.Article, baseURL string) []ImageRef {
	var refs []ImageRef
	add := func(id, field, src string) {
		src = strings.TrimSpace(src)
		if src == "" {
			return
		}
		refs = append(refs, ImageRef{ArticleID: id, Field: field, URL: resolve(baseURL, src)})
	}
	for _, a := range articles {
		add(a.ID, "image", a.Image)
		add(a.ID, inlineImageKey, a.InlineImage)
	}
	return refs
}

func resolve(base, src string) string {
	if base == "" || resource.IsRemote(src) {
		return src
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(src, "/")
}

// CheckImages checks every image reference, each distinct URL once, and
// returns all references with Err set on the broken ones. It only fails
// when ctx is cancelled.
func CheckImages(ctx context.Context, articles []catalog.Article, checker ImageChecker, opts CheckOptions) ([]ImageRef, error) {
	refs := ImageRefs(articles, opts.BaseURL)

	var urls []string
	index := map[string]int{}
	for _, r := range refs {
		if _, ok := index[r.URL]; !ok {
			index[r.URL] = len(urls)
			urls = append(urls, r.URL)
		}
	}

	limit := rate.Inf
	if opts.PerSecond > 0 {
		limit = rate.Limit(opts.PerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	results := make([]error, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))
	for i, u := range urls {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
			results[i] = checker.Check(gctx, u)
			if results[i] != nil {
				debuglog.WithFields(debuglog.Fields{"url": u}).Warnf("image check failed: %v", results[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range refs {
		refs[i].Err = results[index[refs[i].URL]]
	}
	return refs, nil
}

// Broken filters refs down to the failed checks.
func Broken(refs []ImageRef) []ImageRef {
	var out []ImageRef
	for _, r := range refs {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
