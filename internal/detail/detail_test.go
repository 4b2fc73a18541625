package detail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/gazette/internal/catalog"
)

type fixedPicker struct {
	related []catalog.Article
	calls   []string
}

func (f *fixedPicker) PickExcluding(n int, excludeID string) []catalog.Article {
	f.calls = append(f.calls, excludeID)
	var out []catalog.Article
	for _, a := range f.related {
		if a.ID != excludeID && len(out) < n {
			out = append(out, a)
		}
	}
	return out
}

func TestSplice(t *testing.T) {
	tests := []struct {
		n       int
		wantIdx int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
	}
	for _, tt := range tests {
		paragraphs := make([]string, tt.n)
		for i := range paragraphs {
			paragraphs[i] = "p"
		}
		got := Splice(paragraphs, "IMG")
		require.Len(t, got, tt.n+1)
		assert.Equal(t, "IMG", got[tt.wantIdx], "n=%d", tt.n)
	}
}

func TestCompose(t *testing.T) {
	article := catalog.Article{
		ID:      "a",
		Title:   "Slow Mornings",
		Content: "<p>One.</p><p>Two.</p><p>Three.</p>",
	}
	picker := &fixedPicker{related: []catalog.Article{
		{ID: "a"},
		{ID: "b", Title: "Coffee", InlineImage: "img/b-inline.jpg"},
		{ID: "c", Title: "Tea", Image: "img/c.jpg"},
		{ID: "d"},
	}}

	page := Compose(article, picker)

	assert.Equal(t, []string{"a", "a"}, picker.calls, "the article itself is always excluded")
	require.Len(t, page.Related, MaxRelated)
	for _, r := range page.Related {
		assert.NotEqual(t, "a", r.ID)
	}
	assert.Equal(t, "b", page.InlineFrom)
	assert.Equal(t, "img/b-inline.jpg", page.InlineImage)
	assert.Equal(t, []string{
		"<p>One.</p>",
		"<p>Two.</p>",
		Figure("img/b-inline.jpg", "Slow Mornings"),
		"<p>Three.</p>",
	}, page.Paragraphs)
}

func TestCompose_DonorWithoutImages(t *testing.T) {
	picker := &fixedPicker{related: []catalog.Article{{ID: "x"}}}
	page := Compose(catalog.Article{ID: "a", Content: "<p>Only.</p>"}, picker)

	assert.Equal(t, "", page.InlineImage)
	assert.Equal(t, []string{"<p>Only.</p>"}, page.Paragraphs)
}

func TestCompose_NilPicker(t *testing.T) {
	page := Compose(catalog.Article{ID: "a", Content: "<p>x</p>"}, nil)
	assert.Empty(t, page.Related)
	assert.Equal(t, []string{"<p>x</p>"}, page.Paragraphs)
}

func TestMarkdown(t *testing.T) {
	page := Compose(catalog.Article{
		ID:       "a",
		Author:   "Ana",
		Category: "Life",
		Date:     "2024-03-05",
		Content:  "<p>Hello <strong>world</strong>.</p><p>Second.</p>",
		Tags:     []string{"calm"},
	}, &fixedPicker{related: []catalog.Article{{ID: "b", Title: "Coffee", InlineImage: "img/b.jpg"}}})

	md, err := page.Markdown()
	require.NoError(t, err)

	assert.Contains(t, md, "# Untitled Article\n")
	assert.Contains(t, md, "*by Ana • Mar 5, 2024 • Life • 1 min read*")
	assert.Contains(t, md, "Hello **world**.")
	assert.Contains(t, md, "img/b.jpg")
	assert.Contains(t, md, "`calm`")
	assert.Contains(t, md, "## More to read")
	assert.Contains(t, md, "1. **Coffee**")
}

func TestFigure_Escapes(t *testing.T) {
	assert.Equal(t, `<figure><img src="a.jpg?x=1&amp;y=2" alt="&#34;q&#34;"></figure>`, Figure("a.jpg?x=1&y=2", `"q"`))
}
