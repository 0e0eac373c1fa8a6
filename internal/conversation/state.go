package conversation

import (
	"time"

	"github.com/wolfman30/inkstudio-ai/internal/booking"
)

// Message represents a single message in a conversation transcript.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// State is everything remembered about one conversation.
type State struct {
	ID        string           `json:"id"`
	Messages  []Message        `json:"messages"`
	Booking   booking.Progress `json:"booking"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func newState(id string, now time.Time) *State {
	return &State{
		ID:        id,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *State) append(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

func (s *State) clone() *State {
	c := *s
	c.Messages = append([]Message(nil), s.Messages...)
	return &c
}

// window returns the last n messages.
func (s *State) window(n int) []Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}
