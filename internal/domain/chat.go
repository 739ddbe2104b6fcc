package domain

import (
	"encoding/json"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation with the advisor
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatSession is a persisted conversation for a SKU
type ChatSession struct {
	ID          int64           `json:"id" db:"id"`
	SKU         string          `json:"sku" db:"sku"`
	SessionData json.RawMessage `json:"-" db:"session_data"`
	ExpiresAt   time.Time       `json:"expires_at" db:"expires_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Messages decodes the stored conversation.
func (s *ChatSession) Messages() ([]ChatMessage, error) {
	var messages []ChatMessage
	if len(s.SessionData) == 0 {
		return []ChatMessage{}, nil
	}
	if err := json.Unmarshal(s.SessionData, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// ChatReply is the assistant turn returned for a chat request
type ChatReply struct {
	Response  string    `json:"response"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSessionView is the client-facing form of a stored session. ExpiresAt is
// nil when no active session exists.
type ChatSessionView struct {
	Messages  []ChatMessage `json:"messages"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`
}
