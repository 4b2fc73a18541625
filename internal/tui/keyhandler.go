package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/gazette/internal/config"
	"github.com/pders01/gazette/internal/search"
)

const maxQueryLength = 256

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return kh.app.searchInput.Focused()
	case ViewRoute:
		return kh.app.routeInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		return kh.handleTextInputEnter()
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		query := kh.sanitizeSearchInput(kh.app.searchInput.Value())
		kh.app.searchInput.Blur()
		return kh.app, kh.app.showSearch(query)

	case ViewRoute:
		route := strings.TrimSpace(kh.app.routeInput.Value())
		kh.app.routeInput.Blur()
		kh.app.view = ViewGrid
		return kh.app, kh.app.navigate(route)

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch kh.app.view {
	case ViewSearch:
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)
	case ViewRoute:
		kh.app.routeInput, cmd = kh.app.routeInput.Update(msg)
	}
	return kh.app, cmd
}

func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	// Global custom keys
	switch key {
	case "ctrl+c", "q":
		return kh.app, tea.Quit, true
	case "esc":
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.modifierKey + "s":
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.modifierKey + "g":
		model, cmd := kh.enterRouteMode()
		return model, cmd, true
	case kh.modifierKey + "t":
		return kh.app, kh.app.toggleTheme(), true
	case kh.modifierKey + "l":
		return kh.app, kh.app.openLegal(), true
	case "r":
		if kh.app.view == ViewGrid || kh.app.view == ViewDetail {
			return kh.app, kh.app.openRandom(), true
		}
	}

	switch kh.app.view {
	case ViewGrid:
		return kh.handleGridCustomKeys(key)
	case ViewDetail:
		return kh.handleDetailCustomKeys(key)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleGridCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "down", "j", "right", "l":
		kh.app.moveSelection(1)
		return kh.app, nil, true
	case "up", "k", "left", "h":
		kh.app.moveSelection(-1)
		return kh.app, nil, true
	case "tab":
		return kh.app, kh.app.cycleCategory(1), true
	case "shift+tab":
		return kh.app, kh.app.cycleCategory(-1), true
	case "enter":
		art, ok := kh.app.selectedArticle()
		if !ok {
			return kh.app, nil, true
		}
		return kh.app, kh.app.openArticle(art), true
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleDetailCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case kh.modifierKey + "o":
		return kh.app, kh.app.openCurrentImage(), true
	case "1", "2":
		// jump to a related article
		if kh.app.page == nil {
			return kh.app, nil, true
		}
		i := int(key[0] - '1')
		if i < len(kh.app.page.Related) {
			return kh.app, kh.app.openArticle(kh.app.page.Related[i]), true
		}
		return kh.app, nil, true
	default:
		return kh.app, nil, false
	}
}

// delegateToCharm hands scrolling keys to the active viewport.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch kh.app.view {
	case ViewGrid:
		kh.app.gridViewport, cmd = kh.app.gridViewport.Update(msg)
	case ViewDetail:
		kh.app.detailViewport, cmd = kh.app.detailViewport.Update(msg)
	case ViewLegal:
		kh.app.legalViewport, cmd = kh.app.legalViewport.Update(msg)
	}
	return kh.app, cmd
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		kh.app.searchInput.Reset()
		kh.app.searchInput.Blur()
		kh.app.view = kh.app.previousView
		return kh.app, nil

	case ViewRoute:
		kh.app.routeInput.Reset()
		kh.app.routeInput.Blur()
		kh.app.view = kh.app.previousView
		return kh.app, nil

	case ViewDetail:
		return kh.app, kh.app.closeDetail()

	case ViewLegal:
		return kh.app, kh.app.closeLegal()

	default:
		return kh.app, tea.Quit
	}
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	if kh.app.view != ViewSearch && kh.app.view != ViewRoute {
		kh.app.previousView = kh.app.view
	}
	kh.app.view = ViewSearch
	kh.app.searchInput.Reset()
	kh.app.searchInput.Focus()

	engineName := fmt.Sprintf("%T", kh.app.matcher)
	if ds, ok := kh.app.matcher.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			return kh.app, kh.app.setStatus(fmt.Sprintf("Search: %s • idx: %d", engineName, n), StatusInfo)
		}
	}
	return kh.app, kh.app.setStatus(fmt.Sprintf("Search: %s", engineName), StatusInfo)
}

func (kh *KeyHandler) enterRouteMode() (tea.Model, tea.Cmd) {
	if kh.app.view != ViewSearch && kh.app.view != ViewRoute {
		kh.app.previousView = kh.app.view
	}
	kh.app.view = ViewRoute
	kh.app.routeInput.Reset()
	kh.app.routeInput.Focus()
	return kh.app, nil
}

// sanitizeSearchInput collapses whitespace and bounds the query length.
func (kh *KeyHandler) sanitizeSearchInput(input string) string {
	input = strings.Join(strings.Fields(input), " ")
	if len(input) > maxQueryLength {
		input = input[:maxQueryLength]
	}
	return strings.TrimSpace(input)
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	switch kh.app.view {
	case ViewGrid:
		return []string{"enter: read", "tab: category", "r: random", kh.modifierKey + "s: search",
			kh.modifierKey + "g: go to", kh.modifierKey + "t: theme", kh.modifierKey + "l: legal"}

	case ViewDetail:
		help := []string{"esc: back", kh.modifierKey + "o: open image", "r: random"}
		if kh.app.page != nil && len(kh.app.page.Related) > 0 {
			help = append(help, fmt.Sprintf("1-%d: related", len(kh.app.page.Related)))
		}
		return help

	case ViewLegal:
		return []string{kh.modifierKey + "l: next page", "esc: back"}

	case ViewSearch:
		return []string{"enter: search", "esc: cancel"}

	case ViewRoute:
		return []string{"enter: go", "esc: cancel"}

	default:
		return []string{}
	}
}
