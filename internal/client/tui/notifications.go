// internal/client/tui/notifications.go
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Alert is a blocking modal. While one is shown every key goes to it.
type Alert struct {
	Message   string
	Timestamp time.Time
}

func NewAlert(message string) *Alert {
	return &Alert{
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Dismissed reports whether msg closes the alert.
func (a *Alert) Dismissed(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter", "esc", " ":
		return true
	}
	return false
}

func (a *Alert) View(theme Theme, width, height int) string {
	content := theme.Error.Render(a.Message) + "\n\n" +
		theme.Muted.Render("press enter to continue")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Alert.Render(content))
}
