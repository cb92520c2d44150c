// internal/client/tui/app.go
package tui

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"staydesk/internal/client/inbox"
	"staydesk/internal/client/models"
	"staydesk/pkg/api"
)

// API is the backend the signed-in app talks to.
type API interface {
	MessagesAPI
	Me(ctx context.Context) (api.User, error)
}

type Options struct {
	Policy           inbox.Policy
	MobileBreakpoint int
	Dark             bool
}

// Model is the signed-in application: navbar plus the current page.
type Model struct {
	client      API
	user        models.User
	opts        Options
	navbar      *Navbar
	currentPage Page
	messages    *MessagesView
	theme       Theme
	width       int
	height      int
	err         error
	mounts      int64
}

func NewModel(client API, user models.User, opts Options) Model {
	if opts.MobileBreakpoint <= 0 {
		opts.MobileBreakpoint = DefaultMobileBreakpoint
	}

	// get term size
	width, height, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		width = 80 // Fallback
		height = 24
	}

	u := user
	m := Model{
		client:      client,
		user:        user,
		opts:        opts,
		navbar:      NewNavbar(&u, MessagesPage, opts.Dark),
		currentPage: MessagesPage,
		theme:       NewTheme(opts.Dark),
		width:       width,
		height:      height,
	}
	m.navbar.SetMobile(width < opts.MobileBreakpoint)
	return m
}

// Init mounts the messages page.
func (m Model) Init() tea.Cmd {
	return navigate(m.currentPage)
}

func (m Model) CurrentPage() Page {
	return m.currentPage
}

func (m Model) Dark() bool {
	return m.theme.Dark
}

func (m Model) Messages() *MessagesView {
	return m.messages
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// the alert blocks the navbar too
		if m.messages != nil && m.messages.Alert() != nil {
			return m, m.messages.Update(msg)
		}
		if cmd, handled := m.navbar.Update(msg); handled {
			return m, cmd
		}
		if m.navbar.mobile && m.currentPage != MessagesPage && msg.String() == "esc" {
			return m, navigate(MessagesPage)
		}
		if m.messages != nil {
			return m, m.messages.Update(msg)
		}
		return m, nil

	case NavigateMsg:
		cmd := m.show(msg.Page)
		return m, cmd

	case models.ProfileLoaded:
		if msg.Err != nil {
			log.Printf("Error refreshing profile: %v", msg.Err)
			text := "Could not refresh profile: " + msg.Err.Error()
			return m, func() tea.Msg { return models.ErrorMsg{Error: text} }
		}
		m.err = nil
		m.user = msg.User
		*m.navbar.user = msg.User
		return m, nil

	case ThemeChangedMsg:
		m.theme = NewTheme(msg.Dark)
		if m.messages != nil {
			m.messages.SetTheme(m.theme)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.navbar.SetMobile(msg.Width < m.opts.MobileBreakpoint)
		if m.messages != nil {
			m.messages.Resize(m.width, m.pageHeight())
		}
		return m, nil

	case models.ErrorMsg:
		m.err = fmt.Errorf("%s", msg.Error)
		log.Printf("Error received: %v", m.err)
		return m, nil
	}

	if m.messages != nil {
		return m, m.messages.Update(msg)
	}
	return m, nil
}

// show switches pages. Leaving the messages page drops its state; entering
// it mounts a fresh view that loads the inbox.
func (m *Model) show(page Page) tea.Cmd {
	m.navbar.SetCurrent(page)
	if page == m.currentPage && m.messages != nil {
		return nil
	}
	m.currentPage = page
	m.err = nil

	if page != MessagesPage {
		m.messages = nil
		if page == ProfilePage {
			return m.refreshProfile()
		}
		return nil
	}

	m.mounts++
	m.messages = NewMessagesView(m.client, m.user, m.opts.Policy, m.opts.MobileBreakpoint, m.mounts)
	m.messages.SetTheme(m.theme)
	m.messages.Resize(m.width, m.pageHeight())
	return m.messages.Init()
}

func (m Model) refreshProfile() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, err := client.Me(context.Background())
		return models.ProfileLoaded{User: user, Err: err}
	}
}

func (m Model) pageHeight() int {
	// navbar line plus the error line
	return m.height - 2
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.navbar.View(m.theme, m.width))
	sb.WriteString("\n")

	if m.err != nil {
		sb.WriteString(m.theme.Error.Render(m.err.Error()))
	}
	sb.WriteString("\n")

	if m.navbar.MenuOpen() {
		return sb.String()
	}

	switch m.currentPage {
	case MessagesPage:
		if m.messages != nil {
			sb.WriteString(m.messages.View())
		}
	case ProfilePage:
		sb.WriteString(m.profileView())
	case HomePage:
		sb.WriteString(m.placeholder(fmt.Sprintf("Welcome back, %s!", m.user.FirstName)))
	default:
		sb.WriteString(m.placeholder(pageTitle(m.currentPage) + " is managed from the web app."))
	}

	return sb.String()
}

func (m Model) profileView() string {
	role := m.user.Role
	if role == "" {
		role = "guest"
	}
	rows := []string{
		m.theme.Title.Render("Profile"),
		fmt.Sprintf("Name:  %s", m.user.FullName()),
		fmt.Sprintf("Email: %s", m.user.Email),
		fmt.Sprintf("Role:  %s", role),
	}
	return m.theme.Panel.Render(strings.Join(rows, "\n"))
}

func (m Model) placeholder(text string) string {
	return lipgloss.Place(m.width, m.pageHeight(), lipgloss.Center, lipgloss.Center,
		m.theme.Muted.Render(text))
}

func pageTitle(page Page) string {
	switch page {
	case BookingsPage:
		return "My Bookings"
	case HostDashboardPage:
		return "Host Dashboard"
	case AddPropertyPage:
		return "Add Property"
	case ProfilePage:
		return "Profile"
	case MessagesPage:
		return "Messages"
	}
	return "Home"
}
