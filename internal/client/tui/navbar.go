// internal/client/tui/navbar.go
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"staydesk/internal/client/models"
)

type Page int

const (
	HomePage Page = iota
	BookingsPage
	MessagesPage
	HostDashboardPage
	AddPropertyPage
	ProfilePage
	LoginPage
	SignUpPage
)

const logoText = "Airbnb Clone"

// DefaultMobileBreakpoint is the width below which the narrow layout is used.
const DefaultMobileBreakpoint = 80

type Link struct {
	Label  string
	Page   Page
	Logout bool
}

// NavigateMsg asks the app to show a page.
type NavigateMsg struct {
	Page Page
}

// ThemeChangedMsg is sent when the theme toggle is used.
type ThemeChangedMsg struct {
	Dark bool
}

// Navbar renders the top bar and the collapsible menu. A nil user means
// nobody is signed in.
type Navbar struct {
	user     *models.User
	current  Page
	menuOpen bool
	cursor   int
	dark     bool
	mobile   bool
}

func NewNavbar(user *models.User, current Page, dark bool) *Navbar {
	return &Navbar{
		user:    user,
		current: current,
		dark:    dark,
	}
}

func (n *Navbar) IsAuthenticated() bool {
	return n.user != nil
}

// Links lists the menu entries for the current identity.
func (n *Navbar) Links() []Link {
	if n.user == nil {
		return []Link{
			{Label: "Login", Page: LoginPage},
			{Label: "Sign Up", Page: SignUpPage},
		}
	}

	links := []Link{
		{Label: "My Bookings", Page: BookingsPage},
		{Label: "Messages", Page: MessagesPage},
	}
	if n.user.IsHost() {
		links = append(links,
			Link{Label: "Host Dashboard", Page: HostDashboardPage},
			Link{Label: "Add Property", Page: AddPropertyPage},
		)
	}
	return append(links,
		Link{Label: "Profile", Page: ProfilePage},
		Link{Label: "Logout", Logout: true},
	)
}

func (n *Navbar) MenuOpen() bool {
	return n.menuOpen
}

func (n *Navbar) ToggleMenu() {
	n.menuOpen = !n.menuOpen
	n.cursor = 0
}

func (n *Navbar) CloseMenu() {
	n.menuOpen = false
}

func (n *Navbar) SetCurrent(page Page) {
	n.current = page
}

func (n *Navbar) SetMobile(mobile bool) {
	n.mobile = mobile
}

func (n *Navbar) Dark() bool {
	return n.dark
}

// Update handles navbar keys. handled reports whether the key was consumed;
// while the menu is open every key is.
func (n *Navbar) Update(msg tea.KeyMsg) (cmd tea.Cmd, handled bool) {
	switch msg.String() {
	case "ctrl+t":
		n.dark = !n.dark
		dark := n.dark
		return func() tea.Msg { return ThemeChangedMsg{Dark: dark} }, true
	case "ctrl+o":
		n.ToggleMenu()
		return nil, true
	}

	if n.menuOpen {
		links := n.Links()
		// the link set shrinks when a refreshed profile drops the host role
		if n.cursor > len(links)-1 {
			n.cursor = len(links) - 1
		}
		switch msg.String() {
		case "esc", "q":
			n.CloseMenu()
		case "up", "k":
			if n.cursor > 0 {
				n.cursor--
			}
		case "down", "j":
			if n.cursor < len(links)-1 {
				n.cursor++
			}
		case "h":
			n.CloseMenu()
			return navigate(HomePage), true
		case "enter":
			n.CloseMenu()
			return n.activate(links[n.cursor]), true
		}
		return nil, true
	}

	if n.mobile {
		return nil, false
	}
	switch msg.String() {
	case "tab":
		return n.cycle(1), true
	case "shift+tab":
		return n.cycle(-1), true
	}
	return nil, false
}

func (n *Navbar) activate(link Link) tea.Cmd {
	if link.Logout {
		return func() tea.Msg { return models.LogoutRequested{} }
	}
	return navigate(link.Page)
}

// cycle moves between page links, skipping logout.
func (n *Navbar) cycle(delta int) tea.Cmd {
	var pages []Page
	for _, link := range n.Links() {
		if !link.Logout {
			pages = append(pages, link.Page)
		}
	}
	if len(pages) == 0 {
		return nil
	}

	idx := -1
	for i, p := range pages {
		if p == n.current {
			idx = i
		}
	}
	next := (idx + delta + len(pages)) % len(pages)
	if idx == -1 && delta < 0 {
		next = len(pages) - 1
	}
	return navigate(pages[next])
}

func navigate(page Page) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Page: page} }
}

func (n *Navbar) View(theme Theme, width int) string {
	toggle := "☾"
	if n.dark {
		toggle = "☀"
	}

	parts := []string{theme.Logo.Render(logoText), theme.Tab.Render(toggle)}
	if n.mobile {
		burger := "☰"
		if n.menuOpen {
			burger = "✕"
		}
		parts = append(parts, theme.Tab.Render(burger))
	} else {
		for _, link := range n.Links() {
			style := theme.Tab
			switch {
			case link.Logout || link.Page == SignUpPage:
				style = theme.Button
			case link.Page == n.current:
				style = theme.ActiveTab
			}
			parts = append(parts, style.Render(link.Label))
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if !n.menuOpen {
		return bar
	}
	return bar + "\n" + n.menuView(theme)
}

func (n *Navbar) menuView(theme Theme) string {
	var sb strings.Builder
	for i, link := range n.Links() {
		line := "  " + link.Label
		if i == n.cursor {
			line = theme.Cursor.Render("> " + link.Label)
		} else if !link.Logout && link.Page == n.current {
			line = theme.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(theme.Muted.Render("enter select • esc close"))
	return theme.Menu.Render(sb.String())
}
