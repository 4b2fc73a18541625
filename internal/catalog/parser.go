package catalog

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pders01/gazette/internal/resource"
)

// Source formats accepted by Parse.
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatFeed = "feed"
)

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

// DetectFormat sniffs a body: a JSON array is a catalog, anything else is
// handed to the feed parser.
func DetectFormat(body []byte) string {
	trimmed := bytes.TrimLeft(body, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatFeed
}

// Parse decodes body as format. Failures wrap resource.ErrParseFailure.
func (p *Parser) Parse(body []byte, format string) ([]Article, error) {
	if format == "" || format == FormatAuto {
		format = DetectFormat(body)
	}

	switch format {
	case FormatJSON:
		var articles []Article
		if err := resource.DecodeJSON(body, &articles); err != nil {
			return nil, err
		}
		return articles, nil
	case FormatFeed:
		return p.parseFeed(body)
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}
}

func (p *Parser) parseFeed(body []byte) ([]Article, error) {
	feed, err := p.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing feed: %v", resource.ErrParseFailure, err)
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		article := Article{
			ID:      item.GUID,
			Title:   item.Title,
			Content: getContent(item),
			Slug:    slugFromLink(item.Link),
			Tags:    append([]string(nil), item.Categories...),
			Image:   extractImage(item),
		}
		if article.ID == "" {
			article.ID = item.Link
		}
		if len(item.Categories) > 0 {
			article.Category = item.Categories[0]
		}
		if item.Author != nil {
			article.Author = item.Author.Name
		} else if len(item.Authors) > 0 && item.Authors[0] != nil {
			article.Author = item.Authors[0].Name
		}
		switch {
		case item.PublishedParsed != nil:
			article.Date = item.PublishedParsed.UTC().Format(time.RFC3339)
		case item.UpdatedParsed != nil:
			article.Date = item.UpdatedParsed.UTC().Format(time.RFC3339)
		}

		articles = append(articles, article)
	}

	return articles, nil
}

func getContent(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

func extractImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enclosure := range item.Enclosures {
		if enclosure.URL != "" && strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}
	return ""
}

func slugFromLink(link string) string {
	link = strings.TrimRight(link, "/")
	if idx := strings.LastIndex(link, "/"); idx >= 0 {
		return link[idx+1:]
	}
	return link
}
