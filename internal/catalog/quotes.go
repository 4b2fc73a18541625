package catalog

import (
	"context"
	"math/rand/v2"

	"github.com/pders01/gazette/internal/resource"
)

// FallbackQuote is shown when the quotes resource cannot be loaded.
var FallbackQuote = Quote{
	Text:   "The best way to predict the future is to invent it.",
	Author: "Alan Kay",
}

// LoadQuotes fetches the quotes resource. It never leaves the caller
// without something to show: on failure it returns the fallback quote
// alongside the error.
func LoadQuotes(ctx context.Context, f *resource.Fetcher, source string) ([]Quote, error) {
	var quotes []Quote
	if err := f.FetchJSON(ctx, source, &quotes); err != nil {
		return []Quote{FallbackQuote}, err
	}

	valid := quotes[:0]
	for _, q := range quotes {
		if q.Text != "" {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		return []Quote{FallbackQuote}, nil
	}
	return valid, nil
}

// PickQuote returns a uniformly random quote, or the fallback for an
// empty list.
func PickQuote(quotes []Quote) Quote {
	if len(quotes) == 0 {
		return FallbackQuote
	}
	return quotes[rand.IntN(len(quotes))]
}
