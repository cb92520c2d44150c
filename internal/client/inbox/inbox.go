// internal/client/inbox/inbox.go
package inbox

import (
	"log"
	"time"

	"staydesk/pkg/api"
)

// Policy picks which message becomes a conversation's preview.
type Policy int

const (
	// FirstSeen keeps the first message met in response order.
	FirstSeen Policy = iota
	// MostRecent keeps the message with the latest sent_at.
	MostRecent
)

type Conversation struct {
	Counterpart     api.User
	LastMessage     string
	LastMessageTime time.Time
}

// Counterpart returns the party of msg that is not me. A message sent to
// oneself yields the recipient, i.e. me.
func Counterpart(msg api.Message, me api.ID) api.User {
	if msg.Sender.ID == me {
		return msg.Recipient
	}
	return msg.Sender
}

// Derive groups messages into one conversation per counterpart, ordered by
// first appearance in messages.
func Derive(messages []api.Message, me api.ID, policy Policy) []Conversation {
	index := make(map[api.ID]int, len(messages))
	conversations := make([]Conversation, 0)

	for _, msg := range messages {
		other := Counterpart(msg, me)
		if other.ID == "" {
			log.Printf("Skipping message %s: counterpart has no id", msg.ID)
			continue
		}

		i, seen := index[other.ID]
		if !seen {
			index[other.ID] = len(conversations)
			conversations = append(conversations, Conversation{
				Counterpart:     other,
				LastMessage:     msg.Body,
				LastMessageTime: msg.SentAt,
			})
			continue
		}

		if policy == MostRecent && msg.SentAt.After(conversations[i].LastMessageTime) {
			conversations[i].LastMessage = msg.Body
			conversations[i].LastMessageTime = msg.SentAt
		}
	}

	return conversations
}

// Find returns the conversation for a counterpart id.
func Find(conversations []Conversation, id api.ID) (Conversation, bool) {
	for _, conv := range conversations {
		if conv.Counterpart.ID == id {
			return conv, true
		}
	}
	return Conversation{}, false
}
