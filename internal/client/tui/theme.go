// internal/client/tui/theme.go
package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	accent     lipgloss.Color
	text       lipgloss.Color
	muted      lipgloss.Color
	surface    lipgloss.Color
	background lipgloss.Color
	sent       lipgloss.Color
	err        lipgloss.Color
	warn       lipgloss.Color
}

var (
	darkPalette = palette{
		accent:     lipgloss.Color("#FF5A5F"),
		text:       lipgloss.Color("#FAFAFA"),
		muted:      lipgloss.Color("#777777"),
		surface:    lipgloss.Color("#383838"),
		background: lipgloss.Color("#1E1E1E"),
		sent:       lipgloss.Color("#874BFD"),
		err:        lipgloss.Color("#FF0000"),
		warn:       lipgloss.Color("#FFD700"),
	}

	lightPalette = palette{
		accent:     lipgloss.Color("#E0484D"),
		text:       lipgloss.Color("#222222"),
		muted:      lipgloss.Color("#8A8A8A"),
		surface:    lipgloss.Color("#E8E8E8"),
		background: lipgloss.Color("#FFFFFF"),
		sent:       lipgloss.Color("#5B2EC9"),
		err:        lipgloss.Color("#C00000"),
		warn:       lipgloss.Color("#B8860B"),
	}
)

// Theme holds every style the views render with.
type Theme struct {
	Dark bool

	Logo      lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Button    lipgloss.Style
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Timestamp lipgloss.Style
	Panel     lipgloss.Style
	Selected  lipgloss.Style
	Cursor    lipgloss.Style
	Sent      lipgloss.Style
	Received  lipgloss.Style
	Input     lipgloss.Style
	Error     lipgloss.Style
	Alert     lipgloss.Style
	Menu      lipgloss.Style
}

func NewTheme(dark bool) Theme {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	tab := lipgloss.NewStyle().
		Foreground(p.text).
		Background(p.surface).
		Padding(0, 1)

	return Theme{
		Dark: dark,

		Logo: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(p.accent).
			Padding(0, 1),

		Tab: tab,

		ActiveTab: tab.
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(p.accent).
			Underline(true),

		Button: tab.
			Bold(true).
			Foreground(p.accent),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent).
			MarginBottom(1),

		Muted: lipgloss.NewStyle().
			Foreground(p.muted),

		Timestamp: lipgloss.NewStyle().
			Foreground(p.muted),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.surface).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent),

		Cursor: lipgloss.NewStyle().
			Foreground(p.accent),

		Sent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(p.sent).
			Padding(0, 1),

		Received: lipgloss.NewStyle().
			Foreground(p.text).
			Background(p.surface).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(p.err).
			Bold(true),

		Alert: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.err).
			Padding(1, 3).
			Align(lipgloss.Center),

		Menu: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.warn).
			Padding(0, 2),
	}
}
