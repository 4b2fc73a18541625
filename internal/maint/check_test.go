package maint

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/gazette/internal/catalog"
)

type fakeChecker struct {
	mu     sync.Mutex
	calls  map[string]int
	broken map[string]bool
}

func newFakeChecker(broken ...string) *fakeChecker {
	f := &fakeChecker{calls: map[string]int{}, broken: map[string]bool{}}
	for _, u := range broken {
		f.broken[u] = true
	}
	return f
}

func (f *fakeChecker) Check(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if f.broken[url] {
		return errors.New("HTTP error: 404")
	}
	return nil
}

var checkArticles = []catalog.Article{
	{ID: "a1", Image: "/img/a1.jpg", InlineImage: "img/shared.jpg"},
	{ID: "a2", Image: "https://cdn.example.org/a2.jpg", InlineImage: "img/shared.jpg"},
	{ID: "a3"},
}

func TestImageRefs(t *testing.T) {
	refs := ImageRefs(checkArticles, "https://example.org/")
	require.Len(t, refs, 4)
	assert.Equal(t, ImageRef{ArticleID: "a1", Field: "image", URL: "https://example.org/img/a1.jpg"}, refs[0])
	assert.Equal(t, "https://example.org/img/shared.jpg", refs[1].URL)
	assert.Equal(t, "inline_image", refs[1].Field)
	assert.Equal(t, "https://cdn.example.org/a2.jpg", refs[2].URL, "absolute urls are kept")

	local := ImageRefs(checkArticles, "")
	assert.Equal(t, "/img/a1.jpg", local[0].URL)
}

func TestCheckImages(t *testing.T) {
	checker := newFakeChecker("https://example.org/img/shared.jpg")
	refs, err := CheckImages(context.Background(), checkArticles, checker,
		CheckOptions{BaseURL: "https://example.org", Concurrency: 3})
	require.NoError(t, err)
	require.Len(t, refs, 4)

	assert.Equal(t, 1, checker.calls["https://example.org/img/shared.jpg"], "shared urls are checked once")
	assert.Len(t, checker.calls, 3)

	broken := Broken(refs)
	require.Len(t, broken, 2)
	assert.Equal(t, "a1", broken[0].ArticleID)
	assert.Equal(t, "a2", broken[1].ArticleID)
	assert.ErrorContains(t, broken[0].Err, "404")
}

func TestCheckImagesRateLimited(t *testing.T) {
	checker := newFakeChecker()
	refs, err := CheckImages(context.Background(), checkArticles, checker,
		CheckOptions{Concurrency: 2, PerSecond: 1000})
	require.NoError(t, err)
	assert.Empty(t, Broken(refs))
}

func TestCheckImagesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CheckImages(ctx, checkArticles, newFakeChecker(), CheckOptions{PerSecond: 1})
	assert.Error(t, err)
}

func TestCheckImagesEmptyCatalog(t *testing.T) {
	refs, err := CheckImages(context.Background(), nil, newFakeChecker(), CheckOptions{})
	require.NoError(t, err)
	assert.Empty(t, refs)
}
