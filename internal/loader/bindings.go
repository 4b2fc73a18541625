package loader

// Bindings maps a card's position in the visible grid to the article it
// opens. Every load replaces the table, so binding the same grid twice
// leaves exactly one entry per card.
type Bindings struct {
	ids []string
}

// Bind replaces all bindings with the cards of g.
func (b *Bindings) Bind(g *Grid) {
	cards := g.Cards()
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ArticleID
	}
	b.ids = ids
}

// Article returns the id bound to position i. Cards without an id are
// not routable.
func (b *Bindings) Article(i int) (string, bool) {
	if i < 0 || i >= len(b.ids) || b.ids[i] == "" {
		return "", false
	}
	return b.ids[i], true
}

func (b *Bindings) Len() int {
	return len(b.ids)
}
