package maint

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pders01/gazette/internal/resource"
)

// DefaultInlineImage is written into entries that have none.
const DefaultInlineImage = "images/inline-default.jpg"

const inlineImageKey = "inline_image"

// Backfill sets inline_image on every catalog entry where it is missing,
// null or an empty string, and returns the rewritten catalog with the
// number of entries changed. Every other field is carried over as is;
// keys come out in sorted order.
func Backfill(data []byte, value string) ([]byte, int, error) {
	if value == "" {
		value = DefaultInlineImage
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", resource.ErrParseFailure, err)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, 0, err
	}

	changed := 0
	for _, e := range entries {
		if e == nil {
			// null array element
			continue
		}
		if hasInlineImage(e[inlineImageKey]) {
			continue
		}
		e[inlineImageKey] = encoded
		changed++
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), changed, nil
}

func hasInlineImage(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		// a non-string value is left alone
		return true
	}
	return s != nil && *s != ""
}
