package tui

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/config"
	"github.com/pders01/gazette/internal/legal"
	"github.com/pders01/gazette/internal/loader"
	"github.com/pders01/gazette/internal/storage"
)

type fakeOpener struct {
	opened []string
}

func (f *fakeOpener) Open(target string) error {
	f.opened = append(f.opened, target)
	return nil
}

func testArticles() []catalog.Article {
	return []catalog.Article{
		{ID: "a1", Title: "Morning Run", Author: "Ana", Category: "Life", Date: "2024-01-03",
			Content: "<p>one</p><p>two</p>", Image: "img/a1.jpg", Tags: []string{"health"}},
		{ID: "a2", Title: "Go Generics", Author: "Bo", Category: "Tech", Date: "2024-01-05",
			Content: "<p>types</p>", Image: "img/a2.jpg", Slug: "go-generics"},
		{ID: "a3", Title: "Slow Mornings", Category: "Life", Date: "2024-01-04", Content: "<p>coffee</p>"},
		{ID: "a4", Title: "Kernel Notes", Category: "Tech", Date: "2024-01-01", Content: "<p>bits</p>"},
	}
}

func newTestApp(t *testing.T, prefs *storage.Store, opts ...Option) (*App, *fakeOpener) {
	t.Helper()
	cfg := config.TestConfig()
	cfg.Site.BaseURL = "https://example.org/"
	opener := &fakeOpener{}
	opts = append([]Option{WithOpener(opener), WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	app := NewApp(cfg, catalog.NewStaticStore(testArticles()), prefs, opts...)

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	app.Update(catalogLoadedMsg{})
	return app, opener
}

func press(app *App, msg tea.KeyMsg) {
	app.Update(msg)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCatalogLoadedShowsLatest(t *testing.T) {
	app, _ := newTestApp(t, nil)

	require.NotNil(t, app.grid)
	assert.Equal(t, ViewGrid, app.view)
	assert.Equal(t, loader.Latest, app.grid.Category)
	assert.Equal(t, []string{loader.Latest, "life", "tech"}, app.categories)
	assert.Equal(t, 4, app.bindings.Len())

	id, ok := app.bindings.Article(0)
	require.True(t, ok)
	assert.Equal(t, "a2", id, "newest article is the huge card")
	assert.False(t, app.catalogLoading)
}

func TestViewStateTransitions(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(*App)
		msg          tea.KeyMsg
		expectedView View
	}{
		{name: "grid to detail on enter", msg: tea.KeyMsg{Type: tea.KeyEnter}, expectedView: ViewDetail},
		{
			name:         "detail to grid on escape",
			setup:        func(a *App) { press(a, tea.KeyMsg{Type: tea.KeyEnter}) },
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewGrid,
		},
		{name: "grid to search", msg: tea.KeyMsg{Type: tea.KeyCtrlS}, expectedView: ViewSearch},
		{
			name:         "search back to grid on escape",
			setup:        func(a *App) { press(a, tea.KeyMsg{Type: tea.KeyCtrlS}) },
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewGrid,
		},
		{name: "grid to route prompt", msg: tea.KeyMsg{Type: tea.KeyCtrlG}, expectedView: ViewRoute},
		{name: "grid to legal", msg: tea.KeyMsg{Type: tea.KeyCtrlL}, expectedView: ViewLegal},
		{
			name:         "legal back to detail",
			setup:        func(a *App) { press(a, tea.KeyMsg{Type: tea.KeyEnter}); press(a, tea.KeyMsg{Type: tea.KeyCtrlL}) },
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewDetail,
		},
		{name: "random opens detail", msg: runes("r"), expectedView: ViewDetail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t, nil)
			if tt.setup != nil {
				tt.setup(app)
			}
			press(app, tt.msg)
			assert.Equal(t, tt.expectedView, app.view)
		})
	}
}

func TestOpenArticleFromSelection(t *testing.T) {
	app, _ := newTestApp(t, nil)

	press(app, runes("j"))
	assert.Equal(t, 1, app.selected)
	press(app, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, app.page)
	assert.Equal(t, "a3", app.page.Article.ID)
	assert.True(t, app.loadingArt)
	assert.LessOrEqual(t, len(app.page.Related), 2)
	for _, r := range app.page.Related {
		assert.NotEqual(t, "a3", r.ID, "an article is never related to itself")
	}
}

func TestSelectionWraps(t *testing.T) {
	app, _ := newTestApp(t, nil)
	press(app, runes("k"))
	assert.Equal(t, 3, app.selected)
	press(app, runes("j"))
	assert.Equal(t, 0, app.selected)
}

func TestDetailRoundTripRestoresScroll(t *testing.T) {
	app, _ := newTestApp(t, nil)
	require.Greater(t, app.gridViewport.TotalLineCount(), 12)

	app.gridViewport.SetYOffset(4)
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewDetail, app.view)

	app.gridViewport.GotoTop()
	press(app, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, ViewGrid, app.view)
	assert.Equal(t, 4, app.gridViewport.YOffset)
	assert.Nil(t, app.page)
}

func TestStaleDetailRenderIsDropped(t *testing.T) {
	app, _ := newTestApp(t, nil)

	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	first := app.detailGen
	press(app, runes("r"))
	require.Greater(t, app.detailGen, first)

	app.Update(detailRenderedMsg{gen: first, content: "old"})
	assert.True(t, app.loadingArt, "render for a replaced article is ignored")

	app.Update(detailRenderedMsg{gen: app.detailGen, content: "fresh"})
	assert.False(t, app.loadingArt)
	assert.Contains(t, app.detailViewport.View(), "fresh")

	stale := app.detailGen
	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	app.Update(detailRenderedMsg{gen: stale, content: "late"})
	assert.Equal(t, ViewGrid, app.view, "a late render never reopens the detail view")
}

func TestStaleImageProbeIsDropped(t *testing.T) {
	app, _ := newTestApp(t, nil)
	huge := app.grid.Huge
	require.False(t, huge.Image.Ready)

	oldGen := app.gridGen
	press(app, tea.KeyMsg{Type: tea.KeyTab})
	require.NotEqual(t, oldGen, app.gridGen)

	app.Update(imageProbedMsg{gen: oldGen, url: huge.Image.URL})
	assert.False(t, huge.Image.Ready, "probe for a replaced grid is ignored")

	current := app.grid.Huge
	app.Update(imageProbedMsg{gen: app.gridGen, url: current.Image.URL})
	assert.True(t, current.Image.Ready)
}

func TestCycleCategory(t *testing.T) {
	app, _ := newTestApp(t, nil)

	press(app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "life", app.grid.Category)
	assert.Equal(t, 2, app.bindings.Len())

	press(app, tea.KeyMsg{Type: tea.KeyShiftTab})
	press(app, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "tech", app.grid.Category)
}

func TestSearchFlow(t *testing.T) {
	app, _ := newTestApp(t, nil)

	press(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	press(app, runes("health"))
	press(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewGrid, app.view)
	assert.Equal(t, "health", app.grid.Query)
	assert.Equal(t, 1, app.bindings.Len())
	assert.Equal(t, MsgResultsCount(1), app.status)

	press(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	press(app, runes("nothing"))
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, app.bindings.Len())
	assert.Equal(t, MsgNoResults, app.status)
}

func TestInitialRoutes(t *testing.T) {
	app, _ := newTestApp(t, nil, WithRoute("https://example.org/#Tech"))
	assert.Equal(t, ViewGrid, app.view)
	assert.Equal(t, "tech", app.grid.Category)

	app, _ = newTestApp(t, nil, WithRoute("#random"))
	assert.Equal(t, ViewDetail, app.view)
	require.NotNil(t, app.page)
}

func TestRouteInput(t *testing.T) {
	app, _ := newTestApp(t, nil)

	press(app, tea.KeyMsg{Type: tea.KeyCtrlG})
	press(app, runes("#life"))
	press(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewGrid, app.view)
	assert.Equal(t, "life", app.grid.Category)
}

func TestCloseDetailWithoutGridShowsLatest(t *testing.T) {
	app, _ := newTestApp(t, nil, WithRoute("#random"))
	app.grid = nil

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, app.grid)
	assert.Equal(t, loader.Latest, app.grid.Category)
}

func TestThemeTogglePersists(t *testing.T) {
	prefs, err := storage.NewStore(storage.MemoryPath)
	require.NoError(t, err)
	defer prefs.Close()

	app, _ := newTestApp(t, prefs)
	assert.Equal(t, storage.ThemeDark, app.theme)

	press(app, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, storage.ThemeLight, app.theme)
	assert.Equal(t, LightPalette, app.styles.Palette)

	assert.Nil(t, app.saveTheme(app.theme)())
	theme, err := prefs.Theme()
	require.NoError(t, err)
	assert.Equal(t, storage.ThemeLight, theme)

	msg := app.loadTheme()()
	assert.Equal(t, themeLoadedMsg{theme: storage.ThemeLight}, msg)

	press(app, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, storage.ThemeDark, app.theme)
}

func TestOpenImage(t *testing.T) {
	app, opener := newTestApp(t, nil)

	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	press(app, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.Len(t, opener.opened, 1)
	assert.Equal(t, "img/a2.jpg", opener.opened[0])

	// an article without an image opens its page on the site
	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	press(app, runes("j"))
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	press(app, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.Len(t, opener.opened, 2)
	assert.Equal(t, "https://example.org/articles/a3", opener.opened[1])
}

func TestViewsAreRecordedAndFillPanel(t *testing.T) {
	prefs, err := storage.NewStore(storage.MemoryPath)
	require.NoError(t, err)
	defer prefs.Close()
	require.NoError(t, prefs.RecordView("a4", time.Now().Add(-time.Hour)))

	app, _ := newTestApp(t, prefs)
	assert.Equal(t, "a4", app.panel[0].ArticleID)
	assert.Equal(t, "", app.panel[1].ArticleID)
	assert.Len(t, app.selectable(), 5)

	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	counts, err := prefs.MostViewed(4)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	// returning to the grid refreshes the panel, most recent first on ties
	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "a2", app.panel[0].ArticleID)
	assert.Equal(t, "a4", app.panel[1].ArticleID)

	app.selected = 5
	art, ok := app.selectedArticle()
	require.True(t, ok)
	assert.Equal(t, "a4", art.ID, "panel slots resolve through their own article id")
}

func TestConfiguredMostViewed(t *testing.T) {
	cfg := config.TestConfig()
	cfg.UI.MostViewed = []string{"missing", "a1"}
	app := NewApp(cfg, catalog.NewStaticStore(testArticles()), nil, WithOpener(&fakeOpener{}))
	app.Update(catalogLoadedMsg{})

	assert.Equal(t, "a1", app.panel[0].ArticleID, "unknown ids are skipped")
	assert.Equal(t, "", app.panel[1].ArticleID)
}

func TestEmptyCatalog(t *testing.T) {
	cfg := config.TestConfig()
	app := NewApp(cfg, catalog.NewStaticStore(nil), nil, WithOpener(&fakeOpener{}))
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	app.Update(catalogLoadedMsg{})

	assert.Equal(t, 0, app.bindings.Len())
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewGrid, app.view)
	press(app, runes("r"))
	assert.Equal(t, ViewGrid, app.view)
	assert.Equal(t, MsgEmptyCatalog, app.status)
	assert.Contains(t, app.View(), "Nothing here yet")
}

func TestQuoteFallback(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app.Update(quotesLoadedMsg{})
	assert.Equal(t, catalog.FallbackQuote, app.quote)

	q := catalog.Quote{Text: "Read more.", Author: "Someone"}
	app.Update(quotesLoadedMsg{quotes: []catalog.Quote{q}})
	assert.Equal(t, q, app.quote)
	assert.Contains(t, app.View(), "Read more.")
}

func TestStatusClearsOnlyLatest(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app.setStatus("first", StatusInfo)
	seq := app.statusSeq
	app.setStatus("second", StatusInfo)

	app.Update(statusClearMsg{seq: seq})
	assert.Equal(t, "second", app.status)
	app.Update(statusClearMsg{seq: app.statusSeq})
	assert.Equal(t, "", app.status)
}

func TestConcurrentDetailRenders(t *testing.T) {
	app, _ := newTestApp(t, nil)
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, app.page)

	cmds := make([]tea.Cmd, 8)
	for i := range cmds {
		cmds[i] = app.renderDetail()
		require.NotNil(t, cmds[i])
	}

	msgs := make([]tea.Msg, len(cmds))
	var wg sync.WaitGroup
	for i, cmd := range cmds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msgs[i] = cmd()
		}()
	}
	wg.Wait()

	first, ok := msgs[0].(detailRenderedMsg)
	require.True(t, ok)
	require.NoError(t, first.err)
	require.NotEmpty(t, first.content)
	for _, m := range msgs[1:] {
		assert.Equal(t, first.content, m.(detailRenderedMsg).content, "renders sharing a renderer stay intact")
	}
}

func TestLegalRendersOutOfOrder(t *testing.T) {
	app, _ := newTestApp(t, nil)
	pages := legal.Pages{
		"privacy": {Title: "Privacy Policy", Sections: []legal.Section{{Heading: "Data"}}},
		"terms":   {Title: "Terms of Use", Sections: []legal.Section{{Heading: "Use"}}},
	}

	press(app, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Equal(t, ViewLegal, app.view)
	app.Update(legalLoadedMsg{pages: pages})
	privacyGen := app.legalGen

	press(app, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Equal(t, "terms", app.legalKinds[app.legalIndex])
	termsGen := app.legalGen
	require.Greater(t, termsGen, privacyGen)

	app.Update(legalRenderedMsg{gen: termsGen, kind: "terms", content: "terms page"})
	app.Update(legalRenderedMsg{gen: privacyGen, kind: "privacy", content: "privacy page"})

	view := app.legalViewport.View()
	assert.Contains(t, view, "terms page")
	assert.NotContains(t, view, "privacy page", "the earlier page never overwrites the current one")

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	app.Update(legalRenderedMsg{gen: app.legalGen, kind: "terms", content: "late"})
	assert.NotEqual(t, ViewLegal, app.view)
}

func TestSelectionScrollsIntoView(t *testing.T) {
	app, _ := newTestApp(t, nil)
	require.Greater(t, app.gridViewport.TotalLineCount(), app.gridViewport.Height)

	press(app, runes("k"))
	require.Equal(t, 3, app.selected)
	top := app.gridViewport.YOffset
	assert.Positive(t, top, "the last card sits below the first screen")
	assert.GreaterOrEqual(t, app.selTop, top)
	assert.Less(t, app.selTop, top+app.gridViewport.Height)

	press(app, runes("j"))
	require.Equal(t, 0, app.selected)
	assert.LessOrEqual(t, app.gridViewport.YOffset, app.selTop)
}

type failingMatcher struct{}

func (failingMatcher) Match(string) ([]catalog.Article, error) {
	return nil, errors.New("index closed")
}

func TestSearchFailureLeavesPrompt(t *testing.T) {
	app, _ := newTestApp(t, nil)
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewDetail, app.view)

	app.loader = loader.New(app.store, failingMatcher{}, app.cardOptions())
	press(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	press(app, runes("life"))
	press(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewDetail, app.view)
	assert.ErrorContains(t, app.err, "index closed")
}

func TestSearchBeforeCatalogLoads(t *testing.T) {
	app := NewApp(config.TestConfig(), catalog.NewStaticStore(testArticles()), nil, WithOpener(&fakeOpener{}))
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 12})

	press(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	press(app, runes("life"))
	press(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewGrid, app.view)
	assert.Equal(t, MsgLoadingCatalog, app.status)
}

func TestRandomStatusShowsCycle(t *testing.T) {
	app, _ := newTestApp(t, nil)
	press(app, runes("r"))
	assert.Equal(t, MsgRandomPick(1, 4), app.status)
	press(app, runes("r"))
	assert.Equal(t, MsgRandomPick(2, 4), app.status)
}

func TestUnavailableCatalogHint(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Catalog.Source = "missing.json"
	app := NewApp(cfg, catalog.NewStore(nil, cfg.Catalog.Source, catalog.FormatAuto), nil, WithOpener(&fakeOpener{}))
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 12})
	app.Update(catalogLoadedMsg{err: errors.New("loading catalog: missing")})

	assert.Contains(t, app.View(), "Catalog unavailable")
}
