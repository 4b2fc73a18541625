package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gazette/internal/textutil"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
func (a *App) renderHeader(title, subtitle string) string {
	title = textutil.Truncate(title, a.width-2)
	subtitle = textutil.Truncate(subtitle, a.width-2)
	rows := []string{a.styles.Header.Render(title)}
	if subtitle != "" {
		rows = append(rows, a.styles.Muted.Render(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func (a *App) renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := a.styles.Palette.Muted
	if focused {
		borderColor = a.styles.Palette.Accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (a *App) renderSeparator() string {
	return a.styles.Separator.Render(strings.Repeat("─", max(a.width-1, 0)))
}

// renderTabs draws the category bar with the active category highlighted.
func (a *App) renderTabs(active string) string {
	var tabs []string
	for _, c := range a.categories {
		if c == active {
			tabs = append(tabs, a.styles.ActiveTab.Render(c))
		} else {
			tabs = append(tabs, a.styles.Tab.Render(c))
		}
	}
	return lipgloss.NewStyle().MaxWidth(max(a.width, 1)).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}
