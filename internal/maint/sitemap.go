package maint

import (
	"encoding/xml"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/textutil"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

type SitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// BuildSitemap lists the home page, one route per distinct category and
// one page per article. base must not end in a slash. Articles with
// neither slug nor id have no page and are skipped.
func BuildSitemap(base string, articles []catalog.Article) URLSet {
	set := URLSet{Xmlns: sitemapNS}
	set.URLs = append(set.URLs, SitemapURL{Loc: base + "/"})

	seen := map[string]bool{}
	for _, a := range articles {
		cat := textutil.NormalizeCategory(a.Category)
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		set.URLs = append(set.URLs, SitemapURL{Loc: base + "/#" + url.PathEscape(cat)})
	}

	for _, a := range articles {
		key := strings.TrimSpace(a.Slug)
		if key == "" {
			key = strings.TrimSpace(a.ID)
		}
		if key == "" {
			continue
		}
		u := SitemapURL{Loc: base + "/articles/" + url.PathEscape(key)}
		if t, ok := textutil.ParseDate(a.Date); ok {
			u.LastMod = t.Format(time.DateOnly)
		}
		set.URLs = append(set.URLs, u)
	}
	return set
}

// WriteSitemap writes set as an indented XML document.
func WriteSitemap(w io.Writer, set URLSet) error {
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
