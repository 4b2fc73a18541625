package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gazette/internal/card"
	"github.com/pders01/gazette/internal/debuglog"
)

func newPanel(slots int) []*card.Card {
	panel := make([]*card.Card, max(slots, 0))
	for i := range panel {
		panel[i] = &card.Card{Variant: card.VariantSmall, Image: card.Image{Ready: true}}
	}
	return panel
}

// panelIDs picks the most-viewed articles: the configured list when one
// is set, otherwise the recorded view counts.
func (a *App) panelIDs() []string {
	if len(a.config.UI.MostViewed) > 0 {
		return a.config.UI.MostViewed
	}
	if a.prefs == nil || len(a.panel) == 0 {
		return nil
	}
	counts, err := a.prefs.MostViewed(len(a.panel))
	if err != nil {
		debuglog.Warnf("reading view counts: %v", err)
		return nil
	}
	ids := make([]string, 0, len(counts))
	for _, vc := range counts {
		ids = append(ids, vc.ArticleID)
	}
	return ids
}

// populatePanel refills the most-viewed slots in place and probes the
// images that changed. Unknown ids leave their slot empty.
func (a *App) populatePanel() tea.Cmd {
	ids := a.panelIDs()
	var cmds []tea.Cmd
	slot := 0
	for _, id := range ids {
		if slot >= len(a.panel) {
			break
		}
		art, ok := a.store.ByID(id)
		if !ok {
			debuglog.Debugf("most-viewed article %q not in catalog", id)
			continue
		}
		c := a.panel[slot]
		if c.ArticleID != art.ID {
			card.Populate(c, art, a.cardOptions())
			cmds = append(cmds, a.probeCard(c, a.gridGen, true, slot))
		}
		slot++
	}
	for ; slot < len(a.panel); slot++ {
		*a.panel[slot] = card.Card{Variant: card.VariantSmall, Image: card.Image{Ready: true}}
	}
	return tea.Batch(cmds...)
}

// refreshGrid re-renders the grid viewport content. Callers that want to
// keep the scroll position restore the offset afterwards.
func (a *App) refreshGrid() {
	if a.width <= 0 {
		return
	}
	a.gridViewport.SetContent(a.renderGrid())
}

func (a *App) renderGrid() string {
	if a.grid == nil {
		return ""
	}
	width := max(a.width-1, 20)
	cs := a.styles.Card
	a.selTop, a.selBottom = 0, -1

	var rows []string
	line, idx, selHeight := 0, 0, 0
	render := func(c *card.Card, w int) string {
		out := c.Render(w, cs, idx == a.selected)
		if idx == a.selected {
			selHeight = lipgloss.Height(out)
		}
		idx++
		return out
	}
	addRow := func(r string) {
		if selHeight > 0 {
			a.selTop, a.selBottom = line, line+selHeight-1
			selHeight = 0
		}
		line += lipgloss.Height(r)
		rows = append(rows, r)
	}

	addRow(a.renderTabs(a.gridTitle()))
	addRow("")
	if a.grid.Huge != nil {
		addRow(render(a.grid.Huge, width))
	}

	var pair []string
	for _, c := range a.grid.Small {
		if c.SideBySide {
			pair = append(pair, render(c, width/2))
			continue
		}
		if len(pair) > 0 {
			addRow(lipgloss.JoinHorizontal(lipgloss.Top, pair...))
			pair = nil
		}
		addRow(render(c, width))
	}
	if len(pair) > 0 {
		addRow(lipgloss.JoinHorizontal(lipgloss.Top, pair...))
	}

	var filled []*card.Card
	for _, c := range a.panel {
		if c.ArticleID != "" {
			filled = append(filled, c)
		}
	}
	if len(filled) > 0 {
		addRow("")
		addRow(a.renderHeader("Most viewed", ""))
		for _, c := range filled {
			addRow(render(c, width))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
