// cmd/client/main.go
package main

import (
	"context"
	"errors"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"staydesk/internal/client/inbox"
	"staydesk/internal/client/models"
	"staydesk/internal/client/network"
	"staydesk/internal/client/tui"
	"staydesk/internal/config"
	"staydesk/pkg/api"
)

type AppModel struct {
	loginModel tui.LoginModel
	chatModel  tui.Model
	client     *network.Client
	opts       tui.Options
	isLoggedIn bool
	size       *tea.WindowSizeMsg
}

func NewAppModel(client *network.Client, opts tui.Options) AppModel {
	return AppModel{
		loginModel: tui.NewLoginModel(opts.Dark),
		client:     client,
		opts:       opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.loginModel.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tui.LoginSubmitMsg:
		return m, m.authenticate(msg)

	case models.AuthResult:
		if msg.Err != nil {
			log.Printf("Authentication error: %v", msg.Err)
			m.loginModel.SetError(friendlyAuthError(msg.Err))
			return m, nil
		}
		log.Printf("Signed in as %s (%s)", msg.User.FullName(), msg.User.ID)

		opts := m.opts
		opts.Dark = m.loginModel.Dark()
		m.chatModel = tui.NewModel(m.client, msg.User, opts)
		m.isLoggedIn = true
		if m.size != nil {
			next, _ := m.chatModel.Update(*m.size)
			m.chatModel = next.(tui.Model)
		}
		return m, m.chatModel.Init()

	case models.LogoutRequested:
		log.Printf("Logging out")
		m.client.Logout()
		m.isLoggedIn = false
		m.loginModel = tui.NewLoginModel(m.chatModel.Dark())
		m.chatModel = tui.Model{}
		if m.size != nil {
			next, _ := m.loginModel.Update(*m.size)
			m.loginModel = next.(tui.LoginModel)
		}
		return m, m.loginModel.Init()

	case tea.WindowSizeMsg:
		size := msg
		m.size = &size
	}

	if m.isLoggedIn {
		newModel, newCmd := m.chatModel.Update(msg)
		if chatModel, ok := newModel.(tui.Model); ok {
			m.chatModel = chatModel
			cmd = newCmd
		}
	} else {
		newModel, newCmd := m.loginModel.Update(msg)
		if loginModel, ok := newModel.(tui.LoginModel); ok {
			m.loginModel = loginModel
			cmd = newCmd
		}
	}

	return m, cmd
}

func (m AppModel) View() string {
	if m.isLoggedIn {
		return m.chatModel.View()
	}
	return m.loginModel.View()
}

func (m AppModel) authenticate(submit tui.LoginSubmitMsg) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		var (
			user api.User
			err  error
		)
		if submit.Mode == tui.ModeSignUp {
			user, err = client.Register(ctx, api.RegisterRequest{
				Email:     submit.Email,
				Password:  submit.Password,
				FirstName: submit.FirstName,
				LastName:  submit.LastName,
				Role:      submit.Role,
			})
		} else {
			user, err = client.Login(ctx, submit.Email, submit.Password)
		}
		return models.AuthResult{User: user, Err: err}
	}
}

// friendlyAuthError keeps the backend message and drops the transport prefix.
func friendlyAuthError(err error) error {
	var apiErr *network.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return err
}

func policyFromConfig(name string) inbox.Policy {
	if name == config.PreviewMostRecent {
		return inbox.MostRecent
	}
	return inbox.FirstSeen
}

func main() {
	config.LoadEnv()

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal("Configuration error:", err)
	}

	// log file
	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal("Error opening log file:", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	client := network.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	model := NewAppModel(client, tui.Options{
		Policy:           policyFromConfig(cfg.PreviewPolicy),
		MobileBreakpoint: cfg.MobileBreakpoint,
		Dark:             true,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal("Error running program:", err)
	}
}
