package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gazette/internal/card"
	"github.com/pders01/gazette/internal/config"
	"github.com/pders01/gazette/internal/storage"
)

const AppName = "gazette"

// ASCII art logo lines for gazette
var LogoLines = []string{
	"▄▀▀▀ ▄▀▀▄ ▀▀▀█ █▀▀▀ ▀█▀ ▀█▀ █▀▀▀",
	"█ ▀█ █▄▄█  ▄▀  █▀▀   █   █  █▀▀ ",
	"▀▀▀▀ ▀  ▀ ▀▀▀▀ ▀▀▀▀  ▀   ▀  ▀▀▀▀",
}

const CompactLogo = `gazette ›`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
}

// Palette is the set of colors a theme is drawn with.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Surface   lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warn      lipgloss.Color
}

var (
	DarkPalette = Palette{
		Primary:   lipgloss.Color("#FF6B6B"), // coral
		Secondary: lipgloss.Color("#4ECDC4"), // teal
		Accent:    lipgloss.Color("#95E1D3"), // mint
		Text:      lipgloss.Color("#EAEAEA"),
		Surface:   lipgloss.Color("#16213E"),
		Muted:     lipgloss.Color("#94A3B8"),
		Error:     lipgloss.Color("#F87171"),
		Success:   lipgloss.Color("#10B981"),
		Warn:      lipgloss.Color("#FFE66D"),
	}

	LightPalette = Palette{
		Primary:   lipgloss.Color("#C2410C"),
		Secondary: lipgloss.Color("#0F766E"),
		Accent:    lipgloss.Color("#0E7490"),
		Text:      lipgloss.Color("#1F2937"),
		Surface:   lipgloss.Color("#E2E8F0"),
		Muted:     lipgloss.Color("#64748B"),
		Error:     lipgloss.Color("#B91C1C"),
		Success:   lipgloss.Color("#047857"),
		Warn:      lipgloss.Color("#A16207"),
	}
)

// PaletteFor returns the palette for a theme. Configured colors override
// the dark palette only; the light palette keeps its contrast.
func PaletteFor(theme string, colors config.UIColors) Palette {
	if theme == storage.ThemeLight {
		return LightPalette
	}
	p := DarkPalette
	override := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	override(&p.Primary, colors.Primary)
	override(&p.Secondary, colors.Secondary)
	override(&p.Accent, colors.Accent)
	override(&p.Muted, colors.Muted)
	override(&p.Error, colors.Error)
	return p
}

// Styles are the rendered chrome of one theme.
type Styles struct {
	Palette Palette
	Card    card.Styles

	Logo       lipgloss.Style
	Title      lipgloss.Style
	Header     lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Help       lipgloss.Style
	Muted      lipgloss.Style
	Separator  lipgloss.Style
	Quote      lipgloss.Style
	StatusInfo lipgloss.Style
	StatusOK   lipgloss.Style
	StatusWarn lipgloss.Style
	StatusErr  lipgloss.Style
}

func NewStyles(p Palette) Styles {
	return Styles{
		Palette: p,
		Card: card.Styles{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(p.Muted).
				Padding(0, 1),
			Selected: lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				BorderForeground(p.Accent).
				Padding(0, 1),
			HeroTitle:    lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
			Title:        lipgloss.NewStyle().Foreground(p.Text).Bold(true),
			Meta:         lipgloss.NewStyle().Foreground(p.Muted),
			Image:        lipgloss.NewStyle().Foreground(p.Secondary),
			ImagePending: lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		},
		Logo:       lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		Title:      lipgloss.NewStyle().Foreground(p.Text).Background(p.Surface).Bold(true).Padding(0, 2),
		Header:     lipgloss.NewStyle().Foreground(p.Secondary).Bold(true),
		Tab:        lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		ActiveTab:  lipgloss.NewStyle().Foreground(p.Surface).Background(p.Accent).Bold(true).Padding(0, 1),
		Help:       lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Muted:      lipgloss.NewStyle().Foreground(p.Muted),
		Separator:  lipgloss.NewStyle().Foreground(p.Muted),
		Quote:      lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		StatusInfo: lipgloss.NewStyle().Foreground(p.Muted),
		StatusOK:   lipgloss.NewStyle().Foreground(p.Success),
		StatusWarn: lipgloss.NewStyle().Foreground(p.Warn),
		StatusErr:  lipgloss.NewStyle().Foreground(p.Error).Bold(true),
	}
}

func (s Styles) status(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return s.StatusOK
	case StatusWarn:
		return s.StatusWarn
	case StatusError:
		return s.StatusErr
	default:
		return s.StatusInfo
	}
}

func (s Styles) WelcomeMessage(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, s.Logo.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		s.Help.Render(message),
	)
}

// Banner renders the boxed logo shown by the version command.
func Banner(version string) string {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("Terminal Magazine Reader %s", versionTag))
	} else {
		lines = append(lines, "Terminal Magazine Reader")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	borderChars := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	box := lipgloss.NewStyle().
		Border(borderChars).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(1, 3).
		MarginTop(1).
		Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	separator := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#95E1D3")).
		Render("◆ ◇ ◆ ◇ ◆")

	center := lipgloss.NewStyle().Width(70).Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Left,
		center.Render(box),
		center.MarginBottom(1).Render(separator),
	)
}

func ShowBanner(version string) {
	fmt.Println(Banner(version))
}
