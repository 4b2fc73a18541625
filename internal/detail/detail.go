// Package detail composes the single-article page: the article body with
// one borrowed inline image spliced into the middle, followed by a short
// list of related articles.
package detail

import (
	"fmt"
	"html"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/pders01/gazette/internal/card"
	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/textutil"
)

// MaxRelated is how many other articles a page links to.
const MaxRelated = 2

// Picker is the part of the random selector the composer needs.
type Picker interface {
	PickExcluding(n int, excludeID string) []catalog.Article
}

type Page struct {
	Article catalog.Article
	Related []catalog.Article

	// InlineImage is borrowed from another article; InlineFrom is its id.
	InlineImage string
	InlineFrom  string

	// Paragraphs holds the body split at closing paragraph tags, with the
	// inline image already spliced in.
	Paragraphs []string
}

// Compose builds the page for a. Related articles and the image donor are
// drawn independently, so the donor may also appear among the related.
func Compose(a catalog.Article, p Picker) *Page {
	page := &Page{Article: a}
	if p != nil {
		page.Related = p.PickExcluding(MaxRelated, a.ID)
		if donor := p.PickExcluding(1, a.ID); len(donor) == 1 {
			page.InlineImage = inlineImageOf(donor[0])
			page.InlineFrom = donor[0].ID
		}
	}

	paragraphs := textutil.SplitParagraphs(a.Content)
	if page.InlineImage != "" {
		paragraphs = Splice(paragraphs, Figure(page.InlineImage, a.Title))
	}
	page.Paragraphs = paragraphs
	return page
}

// Splice inserts fragment at index ceil(len(paragraphs)/2).
func Splice(paragraphs []string, fragment string) []string {
	mid := (len(paragraphs) + 1) / 2
	out := make([]string, 0, len(paragraphs)+1)
	out = append(out, paragraphs[:mid]...)
	out = append(out, fragment)
	return append(out, paragraphs[mid:]...)
}

// Figure is the markup used for a spliced image.
func Figure(src, alt string) string {
	return fmt.Sprintf(`<figure><img src="%s" alt="%s"></figure>`, html.EscapeString(src), html.EscapeString(alt))
}

func inlineImageOf(a catalog.Article) string {
	if s := strings.TrimSpace(a.InlineImage); s != "" {
		return s
	}
	return strings.TrimSpace(a.Image)
}

// Body returns the composed HTML.
func (p *Page) Body() string {
	return strings.Join(p.Paragraphs, "\n")
}

// Markdown renders the page for glamour: heading, byline, body converted
// from HTML, then the related articles.
func (p *Page) Markdown() (string, error) {
	body, err := htmltomarkdown.ConvertString(p.Body())
	if err != nil {
		return "", fmt.Errorf("converting article %q: %w", p.Article.ID, err)
	}

	title := strings.TrimSpace(p.Article.Title)
	if title == "" {
		title = card.DefaultTitle
	}
	author := strings.TrimSpace(p.Article.Author)
	if author == "" {
		author = card.DefaultAuthor
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	byline := []string{"by " + author}
	if meta := card.MetaLine(p.Article); meta != "" {
		byline = append(byline, meta)
	}
	if rt := textutil.EstimateReadingTime(p.Article.Content); rt.Words > 0 {
		byline = append(byline, rt.Label())
	}
	fmt.Fprintf(&b, "*%s*\n\n", strings.Join(byline, " • "))

	if img := strings.TrimSpace(p.Article.Image); img != "" {
		fmt.Fprintf(&b, "![%s](%s)\n\n", title, img)
	}
	if body = strings.TrimSpace(body); body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	if len(p.Article.Tags) > 0 {
		fmt.Fprintf(&b, "`%s`\n\n", strings.Join(p.Article.Tags, "` `"))
	}

	if len(p.Related) > 0 {
		b.WriteString("## More to read\n\n")
		for i, r := range p.Related {
			t := strings.TrimSpace(r.Title)
			if t == "" {
				t = card.DefaultTitle
			}
			fmt.Fprintf(&b, "%d. **%s**", i+1, t)
			if meta := card.MetaLine(r); meta != "" {
				fmt.Fprintf(&b, " · %s", meta)
			}
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
