package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Article is one catalog entry as published by the site. Catalogs are
// read-only to gazette; only the backfill job rewrites the source file.
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Category    string   `json:"category"`
	Slug        string   `json:"slug"`
	Date        string   `json:"date"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image,omitempty"`
	InlineImage string   `json:"inline_image,omitempty"`
}

// UnmarshalJSON accepts numeric ids, which hand-maintained catalogs use as
// often as strings.
func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.ID)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		a.ID = ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		a.ID = s
	default:
		a.ID = strings.TrimSpace(string(raw))
	}
	return nil
}

// Quote is an entry of the decorative quotes resource.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}
