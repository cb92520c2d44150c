package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"staydesk/pkg/api"
)

func typeInto(m LoginModel, s string) LoginModel {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(LoginModel)
	}
	return m
}

func press(m LoginModel, k string) (LoginModel, tea.Cmd) {
	next, cmd := m.Update(key(k))
	return next.(LoginModel), cmd
}

func TestLoginRequiresCredentials(t *testing.T) {
	m := NewLoginModel(true)
	m, cmd := press(m, "enter")
	if cmd != nil {
		t.Fatal("expected no submission with empty fields")
	}
	if m.err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestLoginSubmit(t *testing.T) {
	m := NewLoginModel(true)
	m = typeInto(m, "me@example.com")
	m, _ = press(m, "tab")
	m = typeInto(m, "secret")

	m, cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("expected a submission")
	}
	submit, ok := cmd().(LoginSubmitMsg)
	if !ok {
		t.Fatal("expected LoginSubmitMsg")
	}
	if submit.Mode != ModeLogin || submit.Email != "me@example.com" || submit.Password != "secret" {
		t.Fatalf("unexpected submission %+v", submit)
	}

	if _, cmd := press(m, "enter"); cmd != nil {
		t.Fatal("expected no second submission while one is pending")
	}
	m.SetError(errors.New("invalid credentials"))
	if _, cmd := press(m, "enter"); cmd == nil {
		t.Fatal("expected form re-enabled after an error")
	}
}

func TestSignUpRequiresNames(t *testing.T) {
	m := NewLoginModel(true)
	m, _ = press(m, "ctrl+r")
	if m.Mode() != ModeSignUp {
		t.Fatal("expected sign up mode")
	}

	// focus starts on the first name
	m, _ = press(m, "tab")
	m, _ = press(m, "tab")
	m = typeInto(m, "me@example.com")
	m, _ = press(m, "tab")
	m = typeInto(m, "secret")

	m, cmd := press(m, "enter")
	if cmd != nil || m.err == nil {
		t.Fatal("expected names to be required")
	}

	m, _ = press(m, "tab")
	m = typeInto(m, "Ada")
	m, _ = press(m, "tab")
	m = typeInto(m, "Lovelace")
	_, cmd = press(m, "enter")
	if cmd == nil {
		t.Fatal("expected a submission")
	}
	submit := cmd().(LoginSubmitMsg)
	if submit.Mode != ModeSignUp || submit.FirstName != "Ada" || submit.LastName != "Lovelace" {
		t.Fatalf("unexpected submission %+v", submit)
	}
}

func TestLoginNavigateSwitchesMode(t *testing.T) {
	m := NewLoginModel(true)
	next, _ := m.Update(NavigateMsg{Page: SignUpPage})
	m = next.(LoginModel)
	if m.Mode() != ModeSignUp {
		t.Fatal("expected sign up mode")
	}
	next, _ = m.Update(NavigateMsg{Page: LoginPage})
	if next.(LoginModel).Mode() != ModeLogin {
		t.Fatal("expected login mode")
	}
}

func TestSignUpRoleToggle(t *testing.T) {
	fill := func(m LoginModel) LoginModel {
		m = typeInto(m, "Ada")
		m, _ = press(m, "tab")
		m = typeInto(m, "Lovelace")
		m, _ = press(m, "tab")
		m = typeInto(m, "ada@example.com")
		m, _ = press(m, "tab")
		return typeInto(m, "secret")
	}

	m := NewLoginModel(true)
	m, _ = press(m, "ctrl+r")
	m = fill(m)
	_, cmd := press(m, "enter")
	if submit := cmd().(LoginSubmitMsg); submit.Role != api.RoleGuest {
		t.Fatalf("expected guest by default, got %q", submit.Role)
	}

	m = NewLoginModel(true)
	m, _ = press(m, "ctrl+r")
	m, _ = press(m, "ctrl+g")
	if !strings.Contains(m.View(), "Account type: Host") {
		t.Fatal("expected host account type shown")
	}
	m = fill(m)
	_, cmd = press(m, "enter")
	if submit := cmd().(LoginSubmitMsg); submit.Role != api.RoleHost {
		t.Fatalf("expected host, got %q", submit.Role)
	}
}

func TestLoginIgnoresRoleToggle(t *testing.T) {
	m := NewLoginModel(true)
	m, _ = press(m, "ctrl+g")
	m = typeInto(m, "me@example.com")
	m, _ = press(m, "tab")
	m = typeInto(m, "secret")
	_, cmd := press(m, "enter")
	if submit := cmd().(LoginSubmitMsg); submit.Role != "" {
		t.Fatalf("login must not carry a role, got %q", submit.Role)
	}
}
