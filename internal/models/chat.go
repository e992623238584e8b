// ABOUTME: ChatRequest and ChatResponse define the external chat contract
// ABOUTME: Shared by the HTTP API, MCP tools, and the CLI chat command
package models

import (
	"errors"
	"strings"
	"time"
)

// ChatRequest is an incoming user message, optionally continuing a conversation.
// Context carries caller-supplied background that is folded into answer
// generation; it never influences classification or entity resolution.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	Context        string `json:"context,omitempty"`
}

// Validate checks the request is processable.
func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("message cannot be empty")
	}
	return nil
}

// ChatResponse is the assistant's reply. The engine always produces one;
// internal failures degrade to templated answers rather than errors.
type ChatResponse struct {
	Response       string    `json:"response"`
	ConversationID string    `json:"conversation_id"`
	Timestamp      time.Time `json:"timestamp"`
}
