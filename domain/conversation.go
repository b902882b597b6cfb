package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ConversationMessage struct {
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Conversation is a chat transcript with its extracted preferences.
type Conversation struct {
	ID             string                `json:"id"`
	UserID         string                `json:"user_id,omitempty"`
	Messages       []ConversationMessage `json:"messages"`
	Preferences    map[string]string     `json:"preferences,omitempty"`
	ContextSummary string                `json:"context_summary,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	LastActivity   time.Time             `json:"last_activity"`
}
