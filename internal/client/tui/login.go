// internal/client/tui/login.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"staydesk/pkg/api"
)

type LoginMode int

const (
	ModeLogin LoginMode = iota
	ModeSignUp
)

// LoginSubmitMsg carries the credentials typed on the login screen.
type LoginSubmitMsg struct {
	Mode      LoginMode
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

var loginStyle = lipgloss.NewStyle().
	Align(lipgloss.Center).
	Border(lipgloss.RoundedBorder()).
	Padding(1, 2)

type LoginModel struct {
	email      textinput.Model
	password   textinput.Model
	firstName  textinput.Model
	lastName   textinput.Model
	mode       LoginMode
	host       bool
	focusIndex int
	submitting bool
	err        error
	navbar     *Navbar
	theme      Theme
	width      int
	height     int
}

func NewLoginModel(dark bool) LoginModel {
	email := textinput.New()
	email.Placeholder = "Email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword

	firstName := textinput.New()
	firstName.Placeholder = "First name"

	lastName := textinput.New()
	lastName.Placeholder = "Last name"

	return LoginModel{
		email:     email,
		password:  password,
		firstName: firstName,
		lastName:  lastName,
		navbar:    NewNavbar(nil, LoginPage, dark),
		theme:     NewTheme(dark),
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Mode() LoginMode {
	return m.mode
}

func (m LoginModel) Dark() bool {
	return m.navbar.Dark()
}

// SetError shows a failed login or sign-up and re-enables the form.
func (m *LoginModel) SetError(err error) {
	m.err = err
	m.submitting = false
}

func (m *LoginModel) fields() []*textinput.Model {
	if m.mode == ModeSignUp {
		return []*textinput.Model{&m.firstName, &m.lastName, &m.email, &m.password}
	}
	return []*textinput.Model{&m.email, &m.password}
}

func (m *LoginModel) setMode(mode LoginMode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	m.err = nil
	m.focusIndex = 0
	page := LoginPage
	if mode == ModeSignUp {
		page = SignUpPage
	}
	m.navbar.SetCurrent(page)
	m.focus()
}

func (m *LoginModel) focus() {
	for i, field := range m.fields() {
		if i == m.focusIndex {
			field.Focus()
		} else {
			field.Blur()
		}
	}
	if m.mode == ModeLogin {
		m.firstName.Blur()
		m.lastName.Blur()
	}
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.navbar.MenuOpen() || msg.String() == "ctrl+o" || msg.String() == "ctrl+t" {
			cmd, _ := m.navbar.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+r":
			if m.mode == ModeSignUp {
				m.setMode(ModeLogin)
			} else {
				m.setMode(ModeSignUp)
			}
			return m, nil

		case "ctrl+g":
			if m.mode == ModeSignUp {
				m.host = !m.host
			}
			return m, nil

		case "tab", "shift+tab", "up", "down":
			n := len(m.fields())
			if msg.String() == "tab" || msg.String() == "down" {
				m.focusIndex = (m.focusIndex + 1) % n
			} else {
				m.focusIndex = (m.focusIndex - 1 + n) % n
			}
			m.focus()
			return m, nil

		case "enter":
			if m.submitting {
				return m, nil
			}
			submit, err := m.submission()
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.submitting = true
			return m, func() tea.Msg { return submit }
		}

	case NavigateMsg:
		switch msg.Page {
		case LoginPage:
			m.setMode(ModeLogin)
		case SignUpPage:
			m.setMode(ModeSignUp)
		}
		return m, nil

	case ThemeChangedMsg:
		m.theme = NewTheme(msg.Dark)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.navbar.SetMobile(msg.Width < DefaultMobileBreakpoint)
	}

	// Update the inputs
	for _, field := range m.fields() {
		var cmd tea.Cmd
		*field, cmd = field.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m LoginModel) submission() (LoginSubmitMsg, error) {
	submit := LoginSubmitMsg{
		Mode:     m.mode,
		Email:    strings.TrimSpace(m.email.Value()),
		Password: m.password.Value(),
	}
	if submit.Email == "" || submit.Password == "" {
		return submit, fmt.Errorf("email and password are required")
	}
	if m.mode == ModeSignUp {
		submit.FirstName = strings.TrimSpace(m.firstName.Value())
		submit.LastName = strings.TrimSpace(m.lastName.Value())
		if submit.FirstName == "" || submit.LastName == "" {
			return submit, fmt.Errorf("first and last name are required")
		}
		submit.Role = api.RoleGuest
		if m.host {
			submit.Role = api.RoleHost
		}
	}
	return submit, nil
}

func (m LoginModel) View() string {
	var content string

	title := "Log in"
	if m.mode == ModeSignUp {
		title = "Create an account"
	}
	content += m.theme.Title.Render(title)
	content += "\n\n"

	if m.mode == ModeSignUp {
		content += "First name:\n" + m.firstName.View() + "\n\n"
		content += "Last name:\n" + m.lastName.View() + "\n\n"
		account := "Guest"
		if m.host {
			account = "Host"
		}
		content += "Account type: " + account + "\n\n"
	}
	content += "Email:\n" + m.email.View()
	content += "\n\nPassword:\n" + m.password.View()
	content += "\n\n"

	switch {
	case m.submitting:
		content += m.theme.Muted.Render("Signing in...")
	case m.mode == ModeSignUp:
		content += m.theme.Muted.Render("Tab to switch fields • ctrl+g guest/host • Enter to sign up • ctrl+r to log in instead")
	default:
		content += m.theme.Muted.Render("Tab to switch fields • Enter to log in • ctrl+r to sign up")
	}

	if m.err != nil {
		content += "\n" + m.theme.Error.Render(m.err.Error())
	}

	bar := m.navbar.View(m.theme, m.width)
	body := lipgloss.Place(
		m.width,
		m.height-lipgloss.Height(bar),
		lipgloss.Center,
		lipgloss.Center,
		loginStyle.Render(content),
	)
	return bar + "\n" + body
}
