// ABOUTME: ConversationMessage and ConversationThread types for the chat log
// ABOUTME: Messages are append-only; thread metadata is denormalized and store-maintained
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one turn half (user or assistant) in a conversation.
// Never mutated after creation.
type ConversationMessage struct {
	MessageID      string            `json:"message_id"`
	ConversationID string            `json:"conversation_id"`
	Role           string            `json:"role"`
	Content        string            `json:"content"`
	Timestamp      time.Time         `json:"timestamp"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// ConversationThread is the denormalized per-conversation metadata row.
// Created implicitly on the first message; updated only by the store on append.
type ConversationThread struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	MessageCount   int       `json:"message_count"`
}

// NewConversationMessage creates a message with a generated id and UTC timestamp.
func NewConversationMessage(conversationID, role, content string, metadata map[string]string) (*ConversationMessage, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, errors.New("conversation id cannot be empty")
	}
	if role != RoleUser && role != RoleAssistant {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("message content cannot be empty")
	}
	return &ConversationMessage{
		MessageID:      generateMessageID(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Timestamp:      time.Now().UTC(),
		Metadata:       metadata,
	}, nil
}

// NewConversationID generates a unique conversation identifier.
func NewConversationID() string {
	return fmt.Sprintf("conv_%s", uuid.New().String())
}

// generateMessageID generates a unique, roughly sortable message identifier.
func generateMessageID() string {
	return fmt.Sprintf("msg_%s_%s", time.Now().UTC().Format("20060102_150405"), uuid.New().String()[:8])
}
