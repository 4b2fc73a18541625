// Package textutil holds the pure helpers every view relies on: category
// canonicalization, date formatting and reading-time estimates.
package textutil

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// WordsPerMinute is the reading speed used by EstimateReadingTime.
const WordsPerMinute = 200

// InvalidDate is what FormatDate renders for input it cannot parse.
const InvalidDate = "Invalid Date"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// NormalizeCategory lower-cases and trims a category name. Both sides of
// every category comparison go through it.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseDate parses the date formats found in catalogs. ok is false when
// nothing matched.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a catalog date as "Jan 2, 2006".
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return InvalidDate
	}
	return t.Format("Jan 2, 2006")
}

// ReadingTime is the result of EstimateReadingTime.
type ReadingTime struct {
	Minutes int
	Words   int
}

// Label renders the estimate the way cards show it.
func (r ReadingTime) Label() string {
	if r.Minutes == 1 {
		return "1 min read"
	}
	return strconv.Itoa(r.Minutes) + " min read"
}

// EstimateReadingTime strips markup, counts whitespace separated words and
// rounds words/WordsPerMinute up to whole minutes.
func EstimateReadingTime(contentHTML string) ReadingTime {
	words := len(strings.Fields(StripTags(contentHTML)))
	if words == 0 {
		return ReadingTime{}
	}
	return ReadingTime{
		Minutes: int(math.Ceil(float64(words) / WordsPerMinute)),
		Words:   words,
	}
}

// StripTags returns the text content of an HTML fragment. Block and
// line-break elements become spaces so adjacent paragraphs do not merge
// into a single word.
func StripTags(fragment string) string {
	if fragment == "" {
		return ""
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what we have
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			sb.WriteByte(' ')
		}
	}
}

// SplitParagraphs splits content at closing </p> tags. Each element keeps
// its closing tag; trailing markup after the last paragraph is its own
// element. Blank pieces are dropped.
func SplitParagraphs(contentHTML string) []string {
	const closing = "</p>"
	var out []string
	rest := contentHTML
	for {
		idx := strings.Index(strings.ToLower(rest), closing)
		if idx < 0 {
			break
		}
		end := idx + len(closing)
		if piece := strings.TrimSpace(rest[:end]); piece != "" {
			out = append(out, piece)
		}
		rest = rest[end:]
	}
	if piece := strings.TrimSpace(rest); piece != "" {
		out = append(out, piece)
	}
	return out
}

// Truncate shortens s to at most limit runes, ending in an ellipsis when
// anything was cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// TruncateMiddle keeps both ends of s around a single ellipsis. Useful
// for URLs and paths where both ends carry meaning.
func TruncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	if left == 0 {
		return "…" + string(r[n-right:])
	}
	return string(r[:left]) + "…" + string(r[n-right:])
}
