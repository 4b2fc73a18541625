// Package card turns articles into display units for the grid: one large
// "huge" hero card and compact "small" cards.
package card

import (
	"strings"

	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/textutil"
)

type Variant int

const (
	VariantHuge Variant = iota
	VariantSmall
)

func (v Variant) String() string {
	switch v {
	case VariantHuge:
		return "huge"
	case VariantSmall:
		return "small"
	default:
		return "unknown"
	}
}

// Substitutes for missing article fields.
const (
	DefaultTitle  = "Untitled Article"
	DefaultAuthor = "Unknown Author"
)

// Image is a card's picture. Src stays empty until the asset has been
// probed; a failed probe still resolves to the same URL so a card is
// never left pending.
type Image struct {
	URL   string
	Ready bool
}

// Src returns the URL once the image is ready.
func (i Image) Src() string {
	if !i.Ready {
		return ""
	}
	return i.URL
}

type Card struct {
	Variant    Variant
	SideBySide bool

	// ArticleID and Category identify the card for selection and styling.
	// Category is normalized.
	ArticleID string
	Category  string

	Title       string
	Author      string
	Meta        string
	ReadingTime string
	Image       Image
}

type Options struct {
	FallbackImage string
}

// Build creates a card for a.
func Build(a catalog.Article, v Variant, opts Options) *Card {
	c := &Card{Variant: v}
	Populate(c, a, opts)
	return c
}

// Populate fills an existing card in place, keeping its variant and layout
// flags. Pre-laid-out slots (the most-viewed panel) are reused this way.
func Populate(c *Card, a catalog.Article, opts Options) {
	if c == nil {
		return
	}

	c.ArticleID = a.ID
	c.Category = textutil.NormalizeCategory(a.Category)

	c.Title = strings.TrimSpace(a.Title)
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	c.Author = strings.TrimSpace(a.Author)
	if c.Author == "" {
		c.Author = DefaultAuthor
	}

	c.Meta = MetaLine(a)
	if rt := textutil.EstimateReadingTime(a.Content); rt.Words > 0 {
		c.ReadingTime = rt.Label()
	} else {
		c.ReadingTime = ""
	}

	url := strings.TrimSpace(a.Image)
	if url == "" {
		url = opts.FallbackImage
	}
	// nothing to wait for without a URL
	c.Image = Image{URL: url, Ready: url == ""}
}

// ResolveImage marks the image ready if url is still the one the card is
// waiting for. A probe for an image the card no longer shows is ignored.
func (c *Card) ResolveImage(url string) bool {
	if c == nil || c.Image.Ready || c.Image.URL != url {
		return false
	}
	c.Image.Ready = true
	return true
}

// MetaLine combines the formatted date and the category, skipping the
// parts that are absent.
func MetaLine(a catalog.Article) string {
	var parts []string
	if strings.TrimSpace(a.Date) != "" {
		parts = append(parts, textutil.FormatDate(a.Date))
	}
	if cat := strings.TrimSpace(a.Category); cat != "" {
		parts = append(parts, cat)
	}
	return strings.Join(parts, " • ")
}
