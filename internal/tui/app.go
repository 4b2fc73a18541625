package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gazette/internal/card"
	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/config"
	"github.com/pders01/gazette/internal/debuglog"
	"github.com/pders01/gazette/internal/detail"
	"github.com/pders01/gazette/internal/legal"
	"github.com/pders01/gazette/internal/loader"
	"github.com/pders01/gazette/internal/media"
	"github.com/pders01/gazette/internal/random"
	"github.com/pders01/gazette/internal/resource"
	"github.com/pders01/gazette/internal/search"
	"github.com/pders01/gazette/internal/storage"
)

// chrome is the number of lines outside the main viewport: separator,
// status line and quote footer.
const chrome = 3

// Opener starts an external viewer.
type Opener interface {
	Open(target string) error
}

type App struct {
	config     *config.Config
	store      *catalog.Store
	prefs      *storage.Store
	fetcher    *resource.Fetcher
	prober     *card.Prober
	opener     Opener
	loader     *loader.Loader
	matcher    search.Matcher
	selector   *random.Selector
	rng        *rand.Rand
	keyHandler *KeyHandler

	view         View
	previousView View
	initialRoute string

	grid       *loader.Grid
	bindings   loader.Bindings
	selected   int
	categories []string
	panel      []*card.Card
	gridGen    int
	gridOffset int
	// line span of the selected card in the rendered grid
	selTop, selBottom int

	page       *detail.Page
	detailGen  int
	loadingArt bool

	legalPages legal.Pages
	legalKinds []string
	legalIndex int
	legalErr   error
	legalGen   int

	gridViewport   viewport.Model
	detailViewport viewport.Model
	legalViewport  viewport.Model
	searchInput    textinput.Model
	routeInput     textinput.Model
	spinner        spinner.Model

	quote  catalog.Quote
	theme  string
	styles Styles

	width  int
	height int
	err    error

	status     string
	statusKind StatusKind
	statusSeq  int

	catalogLoading bool

	// renderMu serializes Render calls; a TermRenderer is not safe for
	// concurrent use and render commands overlap.
	renderMu        *sync.Mutex
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	rendererTheme   string
}

// Option customizes an App at construction.
type Option func(*App)

// WithRoute sets the route opened once the catalog has loaded.
func WithRoute(route string) Option {
	return func(a *App) { a.initialRoute = route }
}

// WithOpener replaces the media launcher.
func WithOpener(o Opener) Option {
	return func(a *App) { a.opener = o }
}

// WithRand makes random picks reproducible.
func WithRand(r *rand.Rand) Option {
	return func(a *App) { a.rng = r }
}

// NewApp wires the view controller. prefs may be nil, in which case the
// theme is not remembered.
func NewApp(cfg *config.Config, store *catalog.Store, prefs *storage.Store, opts ...Option) *App {
	fetcher := resource.NewFetcher(cfg)

	si := textinput.New()
	si.Placeholder = "Search categories and tags..."
	si.Prompt = "› "

	ri := textinput.New()
	ri.Placeholder = "#category or #random"
	ri.Prompt = "# "

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	app := &App{
		config:         cfg,
		store:          store,
		prefs:          prefs,
		fetcher:        fetcher,
		prober:         card.NewProber(fetcher, cfg),
		view:           ViewGrid,
		previousView:   ViewGrid,
		gridViewport:   viewport.New(0, 0),
		detailViewport: viewport.New(0, 0),
		legalViewport:  viewport.New(0, 0),
		renderMu:       &sync.Mutex{},
		searchInput:    si,
		routeInput:     ri,
		spinner:        sp,
		quote:          catalog.FallbackQuote,
		theme:          storage.ThemeDark,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.opener == nil {
		app.opener = media.NewLauncher(cfg)
	}

	app.styles = NewStyles(PaletteFor(app.theme, cfg.UI.Colors))
	app.panel = newPanel(cfg.UI.MostViewedSlots)
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) cardOptions() card.Options {
	return card.Options{FallbackImage: a.config.Catalog.FallbackImage}
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	maxWidth := a.config.UI.Article.WordWrapMaxWidth
	minWidth := a.config.UI.Article.WordWrapMinWidth

	wordWrapWidth := (a.width * 9) / 10
	if maxWidth > 0 && wordWrapWidth > maxWidth {
		wordWrapWidth = maxWidth
	}
	if wordWrapWidth < minWidth {
		wordWrapWidth = minWidth
	}
	if a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	style := "dark"
	if a.theme == storage.ThemeLight {
		style = "light"
	}

	if a.glamourRenderer == nil || a.rendererTheme != style || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
		a.rendererTheme = style
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	a.catalogLoading = true
	return tea.Batch(
		a.loadCatalog(),
		a.loadQuotes(),
		a.loadTheme(),
		a.spinner.Tick,
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		h := max(msg.Height-chrome, 1)
		a.gridViewport.Width = msg.Width
		a.gridViewport.Height = h
		a.detailViewport.Width = msg.Width
		a.detailViewport.Height = h
		a.legalViewport.Width = msg.Width
		a.legalViewport.Height = h

		inputWidth := msg.Width - 8
		if inputWidth < 10 {
			inputWidth = msg.Width
		}
		a.searchInput.Width = inputWidth
		a.routeInput.Width = inputWidth

		offset := a.gridViewport.YOffset
		a.refreshGrid()
		a.gridViewport.SetYOffset(offset)
		if a.view == ViewDetail && a.page != nil && !a.loadingArt {
			return a, a.renderDetail()
		}
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.catalogLoading || a.loadingArt {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case catalogLoadedMsg:
		return a, a.onCatalogLoaded(msg.err)

	case quotesLoadedMsg:
		if msg.err != nil {
			debuglog.Warnf("quotes unavailable: %v", msg.err)
		}
		a.quote = catalog.PickQuote(msg.quotes)

	case themeLoadedMsg:
		if msg.err != nil {
			debuglog.Warnf("reading theme: %v", msg.err)
		}
		a.applyTheme(msg.theme)

	case imageProbedMsg:
		a.onImageProbed(msg)

	case detailRenderedMsg:
		if msg.gen != a.detailGen || a.view != ViewDetail {
			debuglog.Debugf("dropping stale detail render (gen %d, current %d)", msg.gen, a.detailGen)
			return a, nil
		}
		a.loadingArt = false
		if msg.err != nil {
			a.err = msg.err
		}
		a.detailViewport.SetContent(msg.content)
		a.detailViewport.GotoTop()

	case legalLoadedMsg:
		a.legalPages = msg.pages
		a.legalKinds = msg.pages.Kinds()
		a.legalErr = msg.err
		if a.view == ViewLegal {
			return a, a.renderLegal()
		}

	case legalRenderedMsg:
		if msg.gen != a.legalGen || a.view != ViewLegal {
			debuglog.Debugf("dropping stale legal render %s (gen %d, current %d)", msg.kind, msg.gen, a.legalGen)
			return a, nil
		}
		a.legalViewport.SetContent(msg.content)
		a.legalViewport.GotoTop()
		if msg.err != nil {
			a.err = msg.err
		}

	case statusClearMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
		}

	case errorMsg:
		a.err = msg.err
	}

	switch a.view {
	case ViewGrid:
		if _, ok := msg.(tea.MouseMsg); ok {
			vp, cmd := a.gridViewport.Update(msg)
			a.gridViewport = vp
			cmds = append(cmds, cmd)
		}
	case ViewDetail:
		if _, ok := msg.(tea.MouseMsg); ok {
			vp, cmd := a.detailViewport.Update(msg)
			a.detailViewport = vp
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// onCatalogLoaded builds everything that depends on the catalog and then
// follows the initial route. A failed load leaves an empty, usable grid.
func (a *App) onCatalogLoaded(err error) tea.Cmd {
	a.catalogLoading = false
	if err != nil {
		debuglog.Errorf("catalog unavailable: %v", err)
		a.err = err
	}

	articles := a.store.All()
	a.selector = random.New(articles, a.rng)
	a.matcher = search.New(a.config.Search.Engine, articles)
	a.loader = loader.New(a.store, a.matcher, a.cardOptions())
	a.categories = append([]string{loader.Latest}, a.store.Categories()...)

	cmds := []tea.Cmd{a.populatePanel()}
	cmds = append(cmds, a.navigate(a.initialRoute))
	return tea.Batch(cmds...)
}

// navigate follows a route string. Each call supersedes the previous one.
func (a *App) navigate(raw string) tea.Cmd {
	route := ParseRoute(raw)
	debuglog.WithFields(debuglog.Fields{"component": "tui", "route": route.String()}).Debugf("navigate")
	if route.Kind == RouteRandom {
		return a.openRandom()
	}
	return a.showCategory(route.Category)
}

func (a *App) showCategory(category string) tea.Cmd {
	if a.loader == nil {
		return nil
	}
	return a.showGrid(a.loader.Category(category))
}

func (a *App) showSearch(query string) tea.Cmd {
	if a.loader == nil {
		a.leavePrompt()
		return a.setStatus(MsgLoadingCatalog, StatusWarn)
	}
	g, err := a.loader.Search(query)
	if err != nil {
		a.leavePrompt()
		a.err = wrapErr("search", err)
		return nil
	}
	cmd := a.showGrid(g)
	if g.Query == "" {
		return cmd
	}
	if g.Len() == 0 {
		return tea.Batch(cmd, a.setStatus(MsgNoResults, StatusWarn))
	}
	return tea.Batch(cmd, a.setStatus(MsgResultsCount(g.Len()), StatusInfo))
}

// showGrid replaces the visible grid and its bindings wholesale.
func (a *App) showGrid(g *loader.Grid) tea.Cmd {
	a.gridGen++
	a.grid = g
	a.bindings.Bind(g)
	a.selected = 0
	a.view = ViewGrid
	a.previousView = ViewGrid
	a.refreshGrid()
	a.gridViewport.GotoTop()
	return a.probeGrid()
}

// leavePrompt returns from a prompt to the view it was opened from.
func (a *App) leavePrompt() {
	a.view = a.previousView
	if a.view == ViewSearch || a.view == ViewRoute {
		a.view = ViewGrid
	}
}

func (a *App) openRandom() tea.Cmd {
	if a.selector == nil {
		return nil
	}
	art, ok := a.selector.Pick()
	if !ok {
		return a.setStatus(MsgEmptyCatalog, StatusWarn)
	}
	return tea.Batch(a.openArticle(art), a.setStatus(MsgRandomPick(a.selector.Seen(), a.selector.Len()), StatusInfo))
}

// openArticle enters the detail view, remembering the grid offset when
// coming from the grid.
func (a *App) openArticle(art catalog.Article) tea.Cmd {
	if a.view == ViewGrid {
		a.gridOffset = a.gridViewport.YOffset
	}
	a.detailGen++
	a.page = detail.Compose(art, a.selector)
	a.view = ViewDetail
	a.loadingArt = true
	a.err = nil

	if a.prefs != nil {
		if err := a.prefs.RecordView(art.ID, time.Now()); err != nil {
			debuglog.Warnf("recording view of %s: %v", art.ID, err)
		}
	}

	return tea.Batch(a.renderDetail(), a.spinner.Tick)
}

// closeDetail returns to the grid at the remembered offset.
func (a *App) closeDetail() tea.Cmd {
	a.detailGen++
	a.page = nil
	a.loadingArt = false
	a.view = ViewGrid

	if a.grid == nil {
		return a.showCategory(loader.Latest)
	}
	cmd := a.populatePanel()
	a.refreshGrid()
	a.gridViewport.SetYOffset(a.gridOffset)
	return cmd
}

func (a *App) openLegal() tea.Cmd {
	if a.view != ViewLegal {
		a.previousView = a.view
		a.view = ViewLegal
		a.legalIndex = 0
	} else if len(a.legalKinds) > 0 {
		a.legalIndex = (a.legalIndex + 1) % len(a.legalKinds)
	}

	if a.legalPages == nil && a.legalErr == nil {
		a.legalViewport.SetContent(a.styles.Muted.Render(MsgLoadingLegal))
		return a.loadLegal()
	}
	return a.renderLegal()
}

func (a *App) closeLegal() tea.Cmd {
	a.view = a.previousView
	if a.view == ViewGrid {
		a.refreshGrid()
	}
	return nil
}

func (a *App) toggleTheme() tea.Cmd {
	next := storage.ThemeLight
	if a.theme == storage.ThemeLight {
		next = storage.ThemeDark
	}
	a.applyTheme(next)

	cmds := []tea.Cmd{a.saveTheme(next), a.setStatus(MsgThemeSwitched(next), StatusInfo)}
	if a.view == ViewDetail && a.page != nil {
		cmds = append(cmds, a.renderDetail())
	}
	if a.view == ViewLegal {
		cmds = append(cmds, a.renderLegal())
	}
	return tea.Batch(cmds...)
}

func (a *App) applyTheme(theme string) {
	if theme != storage.ThemeLight {
		theme = storage.ThemeDark
	}
	a.theme = theme
	a.styles = NewStyles(PaletteFor(theme, a.config.UI.Colors))
	a.refreshGrid()
}

// openCurrentImage opens the detail article's image, or its page on the
// site when it has none.
func (a *App) openCurrentImage() tea.Cmd {
	if a.page == nil {
		return nil
	}
	target := strings.TrimSpace(a.page.Article.Image)
	if target == "" {
		target = a.articleURL(a.page.Article)
	}
	if target == "" {
		return a.setStatus(MsgNoImage, StatusWarn)
	}
	if err := a.opener.Open(target); err != nil {
		a.err = wrapErr("opening media", err)
		return nil
	}
	return a.setStatus(MsgOpened(target), StatusSuccess)
}

func (a *App) articleURL(art catalog.Article) string {
	key := strings.TrimSpace(art.Slug)
	if key == "" {
		key = strings.TrimSpace(art.ID)
	}
	base := strings.TrimRight(a.config.Site.BaseURL, "/")
	if key == "" || base == "" {
		return ""
	}
	return base + "/articles/" + key
}

// setStatus shows a transient message and schedules its removal.
func (a *App) setStatus(text string, kind StatusKind) tea.Cmd {
	a.statusSeq++
	a.status = text
	a.statusKind = kind
	seq := a.statusSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func (a *App) onImageProbed(msg imageProbedMsg) {
	if msg.panel {
		if msg.slot >= 0 && msg.slot < len(a.panel) {
			a.panel[msg.slot].ResolveImage(msg.url)
		}
	} else {
		if msg.gen != a.gridGen {
			return
		}
		for _, c := range a.grid.Cards() {
			c.ResolveImage(msg.url)
		}
	}
	if a.view == ViewGrid {
		offset := a.gridViewport.YOffset
		a.refreshGrid()
		a.gridViewport.SetYOffset(offset)
	}
}

// selectable returns every card that can be focused: the grid first,
// then the filled most-viewed slots.
func (a *App) selectable() []*card.Card {
	cards := a.grid.Cards()
	for _, c := range a.panel {
		if c.ArticleID != "" {
			cards = append(cards, c)
		}
	}
	return cards
}

func (a *App) moveSelection(delta int) {
	n := len(a.selectable())
	if n == 0 {
		a.selected = 0
		return
	}
	a.selected = ((a.selected+delta)%n + n) % n
	offset := a.gridViewport.YOffset
	a.refreshGrid()
	a.gridViewport.SetYOffset(offset)
	a.scrollToSelection()
}

// scrollToSelection moves the grid viewport the least amount that puts
// the selected card on screen, preferring its top edge.
func (a *App) scrollToSelection() {
	h := a.gridViewport.Height
	if h <= 0 || a.selBottom < a.selTop {
		return
	}
	offset := a.gridViewport.YOffset
	switch {
	case a.selTop < offset:
		offset = a.selTop
	case a.selBottom >= offset+h:
		offset = min(a.selBottom-h+1, a.selTop)
	default:
		return
	}
	a.gridViewport.SetYOffset(offset)
}

// selectedArticle resolves the focused card through the grid bindings,
// or directly for most-viewed slots.
func (a *App) selectedArticle() (catalog.Article, bool) {
	var id string
	if a.selected < a.bindings.Len() {
		id, _ = a.bindings.Article(a.selected)
	} else {
		cards := a.selectable()
		if a.selected >= len(cards) {
			return catalog.Article{}, false
		}
		id = cards[a.selected].ArticleID
	}
	if id == "" {
		debuglog.Warnf("card %d has no article id", a.selected)
		return catalog.Article{}, false
	}
	return a.store.ByID(id)
}

func (a *App) cycleCategory(delta int) tea.Cmd {
	if len(a.categories) == 0 {
		return nil
	}
	current := loader.Latest
	if a.grid != nil && a.grid.Category != "" {
		current = a.grid.Category
	}
	idx := 0
	for i, c := range a.categories {
		if c == current {
			idx = i
			break
		}
	}
	n := len(a.categories)
	return a.showCategory(a.categories[((idx+delta)%n+n)%n])
}

func (a *App) View() string {
	var content string
	bodyHeight := max(a.height-chrome, 1)

	switch a.view {
	case ViewGrid:
		switch {
		case a.catalogLoading:
			content = renderCentered(a.width, bodyHeight,
				a.styles.WelcomeMessage(a.spinner.View()+" "+MsgLoadingCatalog))
		case a.grid == nil || a.grid.Len() == 0:
			hint := "Nothing here yet • tab: next category • ctrl+s: search"
			if !a.store.Loaded() {
				hint = MsgCatalogMissing
			}
			content = lipgloss.JoinVertical(lipgloss.Top,
				a.renderTabs(a.gridTitle()),
				renderCentered(a.width, bodyHeight-1, a.styles.WelcomeMessage(hint)))
		default:
			content = a.gridViewport.View()
		}
	case ViewDetail:
		if a.loadingArt {
			content = renderCentered(a.width, bodyHeight,
				a.styles.Muted.Render(a.spinner.View()+" "+MsgLoadingArticle))
		} else {
			content = a.detailViewport.View()
		}
	case ViewLegal:
		content = a.legalViewport.View()
	case ViewSearch:
		content = a.renderPrompt("› search", a.searchInput.View(), a.searchInput.Focused(),
			"Type a category or tag • Enter: search • Esc: back")
	case ViewRoute:
		content = a.renderPrompt("› go to", a.routeInput.View(), a.routeInput.Focused(),
			"#category, #random, or empty for latest • Enter: go • Esc: back")
	}

	content = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Top, content, a.renderSeparator(), a.renderStatusBar(), a.renderQuote())
}

func (a *App) renderPrompt(title, input string, focused bool, help string) string {
	return lipgloss.JoinVertical(lipgloss.Top,
		a.renderHeader(title, ""),
		"",
		a.renderInputFrame(input, focused, max(a.width-8, 10)),
		a.styles.Help.Render(help),
	)
}

func (a *App) renderStatusBar() string {
	bar := lipgloss.NewStyle().Width(max(a.width, 1)).Padding(0, 1)

	if a.err != nil {
		return bar.Render(a.styles.StatusErr.Render(fmt.Sprintf("✗ %v", a.err)))
	}
	if a.status != "" {
		return bar.Render(a.styles.status(a.statusKind).Render(a.status))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	return bar.Render(a.styles.Muted.Render(strings.Join(commands, " • ")))
}

func (a *App) renderQuote() string {
	q := a.quote
	text := fmt.Sprintf("“%s”", q.Text)
	if q.Author != "" {
		text += " · " + q.Author
	}
	return lipgloss.NewStyle().Width(max(a.width, 1)).Padding(0, 1).MaxHeight(1).
		Render(a.styles.Quote.Render(text))
}

func (a *App) gridTitle() string {
	if a.grid == nil {
		return loader.Latest
	}
	return a.grid.Title()
}
