// internal/client/models/models.go
package models

import (
	"staydesk/internal/client/inbox"
	"staydesk/pkg/api"
)

type (
	User         = api.User
	Message      = api.Message
	Conversation = inbox.Conversation
)

// Messages exchanged between the network commands and the views. Mount
// identifies the view instance that issued the request.
type (
	InboxLoaded struct {
		Mount    int64
		Messages []Message
		Err      error
	}

	ThreadLoaded struct {
		Mount         int64
		CounterpartID api.ID
		Generation    int
		Messages      []Message
		Err           error
	}

	MessageSent struct {
		Mount         int64
		CounterpartID api.ID
		Message       Message
		Err           error
	}

	AuthResult struct {
		User User
		Err  error
	}

	ProfileLoaded struct {
		User User
		Err  error
	}

	LogoutRequested struct{}
)

type ErrorMsg struct {
	Error string `json:"error"`
}
