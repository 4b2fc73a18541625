package storage

import (
	"time"
)

// Theme values stored under the theme key. Dark is the absence of a
// value.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ViewCount records how often an article was opened in the detail view.
type ViewCount struct {
	ArticleID  string    `json:"article_id"`
	Count      int       `json:"count"`
	LastViewed time.Time `json:"last_viewed"`
}
