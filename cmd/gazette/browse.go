package main

import (
	"fmt"
	"io"

	"github.com/pders01/gazette/internal/card"
	"github.com/pders01/gazette/internal/config"
	"github.com/pders01/gazette/internal/loader"
)

func cardOptions(cfg *config.Config) card.Options {
	return card.Options{FallbackImage: cfg.Catalog.FallbackImage}
}

// printGrid writes the grid layout as plain lines, one card per line.
func printGrid(w io.Writer, g *loader.Grid) {
	fmt.Fprintf(w, "%s (%d)\n", g.Title(), g.Len())
	if g.Len() == 0 {
		fmt.Fprintln(w, "  no articles")
		return
	}

	for _, c := range g.Cards() {
		layout := c.Variant.String()
		if c.SideBySide {
			layout += ", side by side"
		}
		fmt.Fprintf(w, "  [%s] %s\n", layout, c.Title)
		line := c.Author
		if c.Meta != "" {
			line += " • " + c.Meta
		}
		if c.ReadingTime != "" {
			line += " • " + c.ReadingTime
		}
		fmt.Fprintf(w, "      %s\n", line)
		if c.Image.URL != "" {
			fmt.Fprintf(w, "      image: %s\n", c.Image.URL)
		}
	}
}
