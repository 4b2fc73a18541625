// Package maint holds the site's offline maintenance jobs: the CSV
// export of the publishing schedule, sitemap generation and the
// inline-image backfill.
package maint

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/textutil"
)

const (
	StatusPublished = "published"
	StatusScheduled = "scheduled"
)

// ExportHeader is the fixed column order of the CSV export.
var ExportHeader = []string{"id", "title", "author", "category", "slug", "publish_date", "status", "reading_minutes"}

type ExportOptions struct {
	// Start is the publish date of the first catalog entry.
	Start time.Time
	// IntervalDays separates consecutive entries. Values below 1 are
	// treated as 1.
	IntervalDays int
	// AsOf decides between published and scheduled.
	AsOf time.Time
}

// PublishDate is the scheduled date of the article at index.
func PublishDate(start time.Time, index, intervalDays int) time.Time {
	if intervalDays < 1 {
		intervalDays = 1
	}
	return start.AddDate(0, 0, index*intervalDays)
}

// Status compares calendar days, so an article scheduled for today is
// published.
func Status(publish, asOf time.Time) string {
	if !day(publish).After(day(asOf)) {
		return StatusPublished
	}
	return StatusScheduled
}

// ExportCSV writes one row per article in catalog order.
func ExportCSV(w io.Writer, articles []catalog.Article, opts ExportOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}

	for i, a := range articles {
		publish := PublishDate(opts.Start, i, opts.IntervalDays)
		rt := textutil.EstimateReadingTime(a.Content)
		row := []string{
			a.ID,
			a.Title,
			a.Author,
			a.Category,
			a.Slug,
			publish.Format(time.DateOnly),
			Status(publish, opts.AsOf),
			strconv.Itoa(rt.Minutes),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
