// pkg/api/types.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// REST paths shared by the client and the reference server.
const (
	PathRegister     = "/api/auth/register/"
	PathLogin        = "/api/auth/login/"
	PathMe           = "/api/auth/me/"
	PathMessages     = "/api/messages/"
	PathConversation = "/api/messages/conversation/%s/"
	PathCreate       = "/api/messages/create/"
)

// roles
const (
	RoleGuest = "guest"
	RoleHost  = "host"
	RoleAdmin = "admin"
)

// ID is an opaque identifier. Backends may send it as a JSON string or number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

var canonicalInt = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)

// MarshalJSON keeps integer ids numeric so integer-keyed backends accept them.
// Anything that is not a canonical JSON integer, such as "007", is quoted.
func (id ID) MarshalJSON() ([]byte, error) {
	if canonicalInt.MatchString(string(id)) {
		if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
			return []byte(id), nil
		}
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

type User struct {
	ID        ID     `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsHost reports whether the user may manage listings.
func (u User) IsHost() bool {
	return u.Role == RoleHost || u.Role == RoleAdmin
}

type Message struct {
	ID        ID        `json:"message_id"`
	Sender    User      `json:"sender"`
	Recipient User      `json:"recipient"`
	Body      string    `json:"message_body"`
	SentAt    time.Time `json:"sent_at"`
}

type CreateMessageRequest struct {
	RecipientID ID     `json:"recipient_id"`
	Body        string `json:"message_body"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ConversationPath returns the thread path for a counterpart.
func ConversationPath(userID ID) string {
	return fmt.Sprintf(PathConversation, url.PathEscape(string(userID)))
}
