// internal/client/tui/messages.go
package tui

import (
	"context"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"staydesk/internal/client/inbox"
	"staydesk/internal/client/models"
	"staydesk/pkg/api"
)

// MessagesAPI is the part of the backend the messaging view needs.
type MessagesAPI interface {
	ListMessages(ctx context.Context) ([]api.Message, error)
	Conversation(ctx context.Context, userID api.ID) ([]api.Message, error)
	SendMessage(ctx context.Context, recipientID api.ID, body string) (api.Message, error)
}

// PanelMode says which panel a narrow terminal shows.
type PanelMode int

const (
	ShowingList PanelMode = iota
	ShowingThread
)

const sendFailedText = "Failed to send message"

// MessagesView is the inbox page: conversation list, the active thread and
// the composer.
type MessagesView struct {
	client MessagesAPI
	me     models.User
	policy inbox.Policy
	mount  int64

	// messages is either the full inbox or the active thread; a thread
	// load replaces it.
	messages      []models.Message
	conversations []models.Conversation
	selected      *models.User
	cursor        int
	panel         PanelMode
	loading       bool
	threadGen     int
	alert         *Alert

	input    textinput.Model
	viewport viewport.Model
	theme    Theme

	width            int
	height           int
	mobileBreakpoint int
}

// NewMessagesView builds the page for one mount. mount must differ between
// mounts so responses addressed to a discarded view are ignored.
func NewMessagesView(client MessagesAPI, me models.User, policy inbox.Policy, mobileBreakpoint int, mount int64) *MessagesView {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 1000

	return &MessagesView{
		client:           client,
		me:               me,
		policy:           policy,
		mount:            mount,
		panel:            ShowingList,
		input:            input,
		viewport:         viewport.New(0, 0),
		theme:            NewTheme(true),
		mobileBreakpoint: mobileBreakpoint,
	}
}

// Init starts the inbox load.
func (v *MessagesView) Init() tea.Cmd {
	v.loading = true
	client, mount := v.client, v.mount
	return func() tea.Msg {
		messages, err := client.ListMessages(context.Background())
		return models.InboxLoaded{Mount: mount, Messages: messages, Err: err}
	}
}

func (v *MessagesView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case models.InboxLoaded:
		if msg.Mount != v.mount {
			return nil
		}
		v.loading = false
		if msg.Err != nil {
			log.Printf("Error fetching messages: %v", msg.Err)
			return nil
		}
		v.messages = msg.Messages
		v.conversations = inbox.Derive(msg.Messages, v.me.ID, v.policy)
		if v.cursor >= len(v.conversations) {
			v.cursor = 0
		}
		return nil

	case models.ThreadLoaded:
		if msg.Mount != v.mount || msg.Generation != v.threadGen ||
			v.selected == nil || v.selected.ID != msg.CounterpartID {
			log.Printf("Discarding stale conversation with %s (generation %d)", msg.CounterpartID, msg.Generation)
			return nil
		}
		if msg.Err != nil {
			log.Printf("Error fetching conversation: %v", msg.Err)
			v.messages = nil
		} else {
			v.messages = msg.Messages
		}
		v.updateContent()
		return nil

	case models.MessageSent:
		if msg.Mount != v.mount {
			return nil
		}
		if msg.Err != nil {
			log.Printf("Error sending message: %v", msg.Err)
			v.alert = NewAlert(sendFailedText)
			return nil
		}
		v.input.Reset()
		if v.selected != nil && v.selected.ID == msg.CounterpartID {
			return v.loadThread()
		}
		return nil

	case tea.WindowSizeMsg:
		v.Resize(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	if v.panel == ShowingThread {
		v.input, cmd = v.input.Update(msg)
	}
	return cmd
}

func (v *MessagesView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.alert != nil {
		if v.alert.Dismissed(msg) {
			v.alert = nil
		}
		return nil
	}
	if v.loading {
		return nil
	}

	switch v.panel {
	case ShowingList:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.conversations)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(v.conversations) {
				return v.Select(v.conversations[v.cursor].Counterpart)
			}
		}
		return nil

	default:
		switch msg.String() {
		case "esc":
			v.Back()
			return nil
		case "enter":
			return v.Submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			v.viewport, cmd = v.viewport.Update(msg)
			return cmd
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return cmd
	}
}

// Select makes counterpart the active conversation and loads its thread.
// Selecting the same counterpart again loads it again.
func (v *MessagesView) Select(counterpart models.User) tea.Cmd {
	selected := counterpart
	v.selected = &selected
	v.panel = ShowingThread
	for i, conv := range v.conversations {
		if conv.Counterpart.ID == counterpart.ID {
			v.cursor = i
		}
	}
	v.input.Focus()
	return v.loadThread()
}

// Back clears the selection and returns to the list without reloading the
// inbox. Thread responses still in flight are ignored.
func (v *MessagesView) Back() {
	v.selected = nil
	v.panel = ShowingList
	v.threadGen++
	v.input.Blur()
}

// Submit sends the draft to the selected counterpart. Blank drafts and
// submissions without a selection do nothing.
func (v *MessagesView) Submit() tea.Cmd {
	body := v.input.Value()
	if strings.TrimSpace(body) == "" || v.selected == nil {
		return nil
	}

	client, mount, recipient := v.client, v.mount, v.selected.ID
	return func() tea.Msg {
		created, err := client.SendMessage(context.Background(), recipient, body)
		return models.MessageSent{Mount: mount, CounterpartID: recipient, Message: created, Err: err}
	}
}

func (v *MessagesView) loadThread() tea.Cmd {
	if v.selected == nil {
		return nil
	}
	v.threadGen++

	client, mount, gen, id := v.client, v.mount, v.threadGen, v.selected.ID
	return func() tea.Msg {
		messages, err := client.Conversation(context.Background(), id)
		return models.ThreadLoaded{
			Mount:         mount,
			CounterpartID: id,
			Generation:    gen,
			Messages:      messages,
			Err:           err,
		}
	}
}

func (v *MessagesView) Draft() string {
	return v.input.Value()
}

func (v *MessagesView) SetDraft(s string) {
	v.input.SetValue(s)
}

func (v *MessagesView) Selected() (models.User, bool) {
	if v.selected == nil {
		return models.User{}, false
	}
	return *v.selected, true
}

func (v *MessagesView) Panel() PanelMode {
	return v.panel
}

func (v *MessagesView) Loading() bool {
	return v.loading
}

func (v *MessagesView) Messages() []models.Message {
	return v.messages
}

func (v *MessagesView) Conversations() []models.Conversation {
	return v.conversations
}

func (v *MessagesView) Alert() *Alert {
	return v.alert
}

func (v *MessagesView) SetTheme(theme Theme) {
	v.theme = theme
	v.updateContent()
}

func (v *MessagesView) Resize(width, height int) {
	v.width = width
	v.height = height
	if w := v.threadWidth() - 8; w > 0 {
		v.input.Width = w
	}
	// header, input box and margins
	v.viewport.Width = v.threadWidth()
	v.viewport.Height = height - 6
	if v.viewport.Height < 1 {
		v.viewport.Height = 1
	}
	v.updateContent()
}

func (v *MessagesView) mobile() bool {
	return v.width < v.mobileBreakpoint
}

func (v *MessagesView) listWidth() int {
	if v.mobile() {
		return v.width
	}
	return v.width / 3
}

func (v *MessagesView) threadWidth() int {
	if v.mobile() {
		return v.width
	}
	return v.width - v.listWidth()
}

func (v *MessagesView) updateContent() {
	if v.selected == nil {
		v.viewport.SetContent("")
		return
	}
	v.viewport.SetContent(v.renderThread(v.theme, v.me.ID, v.messages, v.viewport.Width))
	v.viewport.GotoBottom()
}

func (v *MessagesView) View() string {
	if v.alert != nil {
		return v.alert.View(v.theme, v.width, v.height)
	}
	if v.loading {
		return v.theme.Muted.Render("Loading messages...")
	}

	list := func() string {
		return v.renderConversations(v.theme, v.listWidth()-2, v.height-2)
	}

	if v.mobile() {
		if v.panel == ShowingList {
			return list()
		}
		return v.threadView()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list(), v.threadView())
}

func (v *MessagesView) threadView() string {
	if v.selected == nil {
		return lipgloss.Place(v.threadWidth(), v.height, lipgloss.Center, lipgloss.Center,
			v.theme.Muted.Render("Select a conversation to start messaging"))
	}

	var sb strings.Builder
	sb.WriteString(v.theme.Muted.Render("← esc") + "  " + v.theme.Title.UnsetMarginBottom().Render(v.selected.FullName()))
	sb.WriteString("\n")
	sb.WriteString(v.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(v.theme.Input.Render(v.input.View()))
	return sb.String()
}
