// internal/server/models/models.go
package models

import (
	"time"

	"staydesk/pkg/api"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"body"`
	SentAt      time.Time `json:"sent_at"`

	// filled by the joins that load messages
	Sender    User `json:"-"`
	Recipient User `json:"-"`
}

func (u *User) IsHost() bool {
	return u.Role == api.RoleHost || u.Role == api.RoleAdmin
}

// ToAPI returns the public profile of u.
func (u *User) ToAPI() api.User {
	return api.User{
		ID:        api.ID(u.ID),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}

func (m *Message) ToAPI() api.Message {
	return api.Message{
		ID:        api.ID(m.ID),
		Sender:    m.Sender.ToAPI(),
		Recipient: m.Recipient.ToAPI(),
		Body:      m.Body,
		SentAt:    m.SentAt,
	}
}

func MessagesToAPI(messages []Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for i := range messages {
		out = append(out, messages[i].ToAPI())
	}
	return out
}
