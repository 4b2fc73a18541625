// Package legal loads the site's legal pages (privacy, terms, ...) and
// renders them as markdown for the reader.
package legal

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pders01/gazette/internal/resource"
)

type Section struct {
	Heading           string   `json:"heading"`
	Content           string   `json:"content,omitempty"`
	List              []string `json:"list,omitempty"`
	AdditionalContent string   `json:"additionalContent,omitempty"`
}

type Document struct {
	Title       string    `json:"title"`
	LastUpdated string    `json:"lastUpdated"`
	Sections    []Section `json:"sections"`
}

// Pages maps a page type ("privacy", "terms", ...) to its document.
type Pages map[string]Document

// Load fetches the legal resource.
func Load(ctx context.Context, f *resource.Fetcher, source string) (Pages, error) {
	var pages Pages
	if err := f.FetchJSON(ctx, source, &pages); err != nil {
		return nil, fmt.Errorf("loading legal pages: %w", err)
	}
	return pages, nil
}

// Kinds lists page types in a stable order so the viewer can cycle them.
func (p Pages) Kinds() []string {
	kinds := make([]string, 0, len(p))
	for k := range p {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Markdown renders a document for glamour.
func (d Document) Markdown() string {
	var sb strings.Builder

	title := d.Title
	if title == "" {
		title = "Untitled"
	}
	sb.WriteString("# " + title + "\n\n")
	if d.LastUpdated != "" {
		sb.WriteString("*Last updated: " + d.LastUpdated + "*\n\n")
	}

	for _, s := range d.Sections {
		if s.Heading != "" {
			sb.WriteString("## " + s.Heading + "\n\n")
		}
		if s.Content != "" {
			sb.WriteString(s.Content + "\n\n")
		}
		if len(s.List) > 0 {
			for _, item := range s.List {
				sb.WriteString("- " + item + "\n")
			}
			sb.WriteString("\n")
		}
		if s.AdditionalContent != "" {
			sb.WriteString(s.AdditionalContent + "\n\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}
