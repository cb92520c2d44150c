// internal/client/tui/conversations.go
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"staydesk/internal/client/models"
	"staydesk/pkg/api"
)

func (v *MessagesView) renderConversations(theme Theme, width, height int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Conversations"))
	sb.WriteString("\n")

	if len(v.conversations) == 0 {
		sb.WriteString(theme.Muted.Render("No conversations yet"))
		return theme.Panel.Width(width).Height(height).Render(sb.String())
	}

	now := time.Now()
	inner := width - 4
	for i, conv := range v.conversations {
		name := conv.Counterpart.FullName()
		nameStyle := lipgloss.NewStyle().Bold(true)
		if v.selected != nil && v.selected.ID == conv.Counterpart.ID {
			nameStyle = theme.Selected
		}

		marker := "  "
		if i == v.cursor && v.panel == ShowingList {
			marker = theme.Cursor.Render("> ")
		}

		sb.WriteString(marker + nameStyle.Render(truncate(name, inner-2)) + "\n")
		preview := strings.ReplaceAll(conv.LastMessage, "\n", " ")
		sb.WriteString("  " + truncate(preview, inner-2) + "\n")
		sb.WriteString("  " + theme.Timestamp.Render(formatTimestamp(conv.LastMessageTime.Local(), now)) + "\n")
	}

	return theme.Panel.Width(width).Height(height).Render(strings.TrimRight(sb.String(), "\n"))
}

func (v *MessagesView) renderThread(theme Theme, me api.ID, messages []models.Message, width int) string {
	var sb strings.Builder
	now := time.Now()
	bubbleWidth := width * 2 / 3
	if bubbleWidth < 10 {
		bubbleWidth = width
	}

	for _, msg := range messages {
		sent := msg.Sender.ID == me
		style := theme.Received
		align := lipgloss.Left
		if sent {
			style = theme.Sent
			align = lipgloss.Right
		}

		// long bodies wrap inside the bubble
		if lipgloss.Width(msg.Body)+style.GetHorizontalFrameSize() > bubbleWidth {
			style = style.Width(bubbleWidth)
		}
		bubble := style.Render(msg.Body)
		stamp := theme.Timestamp.Render(formatTimestamp(msg.SentAt.Local(), now))
		block := lipgloss.JoinVertical(align, bubble, stamp)
		sb.WriteString(lipgloss.PlaceHorizontal(width, align, block))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Format("15:04")
	} else if t.Year() == now.Year() {
		return fmt.Sprintf("%s %s", t.Format("02 Jan"), t.Format("15:04"))
	}
	return fmt.Sprintf("%s %s", t.Format("02 Jan 2006"), t.Format("15:04"))
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
