package card

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gazette/internal/textutil"
)

// Styles are supplied by the caller so the theme lives in one place.
type Styles struct {
	Frame        lipgloss.Style
	Selected     lipgloss.Style
	HeroTitle    lipgloss.Style
	Title        lipgloss.Style
	Meta         lipgloss.Style
	Image        lipgloss.Style
	ImagePending lipgloss.Style
}

// DefaultStyles is a plain dark-terminal palette used when no theme is set.
func DefaultStyles() Styles {
	return Styles{
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#94A3B8")).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#95E1D3")).
			Padding(0, 1),
		HeroTitle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		Title:        lipgloss.NewStyle().Bold(true),
		Meta:         lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")),
		Image:        lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4")),
		ImagePending: lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")).Italic(true),
	}
}

// Render draws the card into a box width cells wide.
func (c *Card) Render(width int, st Styles, selected bool) string {
	if c == nil {
		return ""
	}

	frame := st.Frame
	if selected {
		frame = st.Selected
	}
	// border and padding take four columns
	inner := width - 4
	if inner < 8 {
		inner = 8
	}

	var rows []string
	switch c.Variant {
	case VariantHuge:
		rows = append(rows,
			c.renderImage(inner, st),
			"",
			st.HeroTitle.Width(inner).Render(strings.ToUpper(c.Title)),
			st.Meta.Render(textutil.Truncate(c.byline(), inner)),
		)
	default:
		rows = append(rows,
			st.Title.Width(inner).Render(c.Title),
			st.Meta.Render(textutil.Truncate(c.byline(), inner)),
		)
		if !c.SideBySide {
			rows = append(rows, c.renderImage(inner, st))
		}
	}

	return frame.Width(inner + 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (c *Card) byline() string {
	parts := []string{}
	if c.Meta != "" {
		parts = append(parts, c.Meta)
	}
	if c.ReadingTime != "" {
		parts = append(parts, c.ReadingTime)
	}
	return strings.Join(parts, " • ")
}

func (c *Card) renderImage(width int, st Styles) string {
	if src := c.Image.Src(); src != "" {
		return st.Image.Render(textutil.Truncate("▣ "+src, width))
	}
	if c.Image.URL == "" {
		return ""
	}
	return st.ImagePending.Render("loading image…")
}
