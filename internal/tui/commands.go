package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/gazette/internal/card"
	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/debuglog"
	"github.com/pders01/gazette/internal/legal"
	"github.com/pders01/gazette/internal/storage"
)

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (a *App) loadCatalog() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		return catalogLoadedMsg{err: store.Load(context.Background())}
	}
}

func (a *App) loadQuotes() tea.Cmd {
	f, source := a.fetcher, a.config.Catalog.QuotesSource
	return func() tea.Msg {
		quotes, err := catalog.LoadQuotes(context.Background(), f, source)
		return quotesLoadedMsg{quotes: quotes, err: err}
	}
}

func (a *App) loadTheme() tea.Cmd {
	prefs := a.prefs
	return func() tea.Msg {
		if prefs == nil {
			return themeLoadedMsg{theme: storage.ThemeDark}
		}
		theme, err := prefs.Theme()
		return themeLoadedMsg{theme: theme, err: err}
	}
}

func (a *App) saveTheme(theme string) tea.Cmd {
	prefs := a.prefs
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		if err := prefs.SetTheme(theme); err != nil {
			return errorMsg{err: wrapErr("saving theme", err)}
		}
		return nil
	}
}

func (a *App) loadLegal() tea.Cmd {
	f, source := a.fetcher, a.config.Catalog.LegalSource
	return func() tea.Msg {
		pages, err := legal.Load(context.Background(), f, source)
		return legalLoadedMsg{pages: pages, err: err}
	}
}

// probeCard checks one card image off the update loop.
func (a *App) probeCard(c *card.Card, gen int, panel bool, slot int) tea.Cmd {
	if c == nil || c.Image.Ready {
		return nil
	}
	prober, url := a.prober, c.Image.URL
	return func() tea.Msg {
		return imageProbedMsg{gen: gen, panel: panel, slot: slot, url: prober.Probe(context.Background(), url)}
	}
}

func (a *App) probeGrid() tea.Cmd {
	var cmds []tea.Cmd
	for _, c := range a.grid.Cards() {
		cmds = append(cmds, a.probeCard(c, a.gridGen, false, -1))
	}
	return tea.Batch(cmds...)
}

// lockedRenderer renders through a shared TermRenderer one call at a time.
type lockedRenderer struct {
	mu *sync.Mutex
	r  *glamour.TermRenderer
}

func (l lockedRenderer) Render(md string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Render(md)
}

// renderer resolves the glamour renderer on the update loop so commands
// only hold the locked handle.
func (a *App) renderer() (lockedRenderer, error) {
	r, err := a.getRenderer()
	return lockedRenderer{mu: a.renderMu, r: r}, err
}

// renderDetail converts the current page off the update loop.
func (a *App) renderDetail() tea.Cmd {
	page, gen := a.page, a.detailGen
	if page == nil {
		return nil
	}
	r, rerr := a.renderer()
	return func() tea.Msg {
		if rerr != nil {
			return detailRenderedMsg{gen: gen, err: wrapErr("initializing renderer", rerr)}
		}
		md, err := page.Markdown()
		if err != nil {
			debuglog.Warnf("converting article %s: %v", page.Article.ID, err)
		}
		out, err := r.Render(md)
		if err != nil {
			return detailRenderedMsg{gen: gen, content: md, err: wrapErr("rendering article", err)}
		}
		return detailRenderedMsg{gen: gen, content: out}
	}
}

func (a *App) renderLegal() tea.Cmd {
	if a.legalErr != nil || len(a.legalKinds) == 0 {
		msg := MsgLegalMissing
		if a.legalErr != nil {
			msg = fmt.Sprintf("%s: %v", MsgLegalMissing, a.legalErr)
		}
		a.legalViewport.SetContent(a.styles.Muted.Render(msg))
		return nil
	}

	a.legalGen++
	gen := a.legalGen
	kind := a.legalKinds[a.legalIndex%len(a.legalKinds)]
	doc := a.legalPages[kind]
	r, rerr := a.renderer()
	return func() tea.Msg {
		md := doc.Markdown()
		if rerr != nil {
			return legalRenderedMsg{gen: gen, kind: kind, content: md, err: wrapErr("initializing renderer", rerr)}
		}
		out, err := r.Render(md)
		if err != nil {
			return legalRenderedMsg{gen: gen, kind: kind, content: md, err: wrapErr("rendering legal page", err)}
		}
		return legalRenderedMsg{gen: gen, kind: kind, content: out}
	}
}
