// ABOUTME: Conversation storage operations for SQLite
// ABOUTME: Append-only message log with denormalized thread metadata maintained in one transaction
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/policyatlas/policyatlas/internal/models"
)

// ConversationStore handles conversation persistence
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new ConversationStore
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Append stores a message and updates thread metadata in a single
// transaction. The thread is created on its first message; message_count
// increments exactly once per successful append.
func (s *ConversationStore) Append(ctx context.Context, conversationID, userID, role, content string, metadata map[string]string) (*models.ConversationMessage, error) {
	msg, err := models.NewConversationMessage(conversationID, role, content, metadata)
	if err != nil {
		return nil, err
	}

	var metadataJSON sql.NullString
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversation_threads (conversation_id, user_id, created_at, updated_at, message_count)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(conversation_id) DO UPDATE SET
			updated_at = excluded.updated_at,
			message_count = message_count + 1
	`, conversationID, nullable(userID), msg.Timestamp, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert thread: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversation_messages (id, conversation_id, role, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.MessageID, msg.ConversationID, msg.Role, msg.Content, metadataJSON, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit append: %w", err)
	}

	return msg, nil
}

// Recent returns up to limit messages for a conversation in chronological
// order. Only messages newer than the window are eligible.
func (s *ConversationStore) Recent(ctx context.Context, conversationID string, limit int, window time.Duration) ([]models.ConversationMessage, error) {
	cutoff := time.Now().UTC().Add(-window)

	// Newest-first with LIMIT, then reversed to chronological order.
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, metadata, created_at
		FROM conversation_messages
		WHERE conversation_id = ? AND created_at >= ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, conversationID, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []models.ConversationMessage
	for rows.Next() {
		var (
			msg          models.ConversationMessage
			metadataJSON sql.NullString
		)
		if err := rows.Scan(&msg.MessageID, &msg.ConversationID, &msg.Role, &msg.Content, &metadataJSON, &msg.Timestamp); err != nil {
			return nil, err
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &msg.Metadata); err != nil {
				msg.Metadata = nil
			}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// Thread returns the thread metadata for a conversation, or nil if none exists.
func (s *ConversationStore) Thread(ctx context.Context, conversationID string) (*models.ConversationThread, error) {
	var (
		thread models.ConversationThread
		userID sql.NullString
	)
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT conversation_id, user_id, created_at, updated_at, message_count
		FROM conversation_threads
		WHERE conversation_id = ?
	`, conversationID).Scan(&thread.ConversationID, &userID, &thread.CreatedAt, &thread.UpdatedAt, &thread.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query thread: %w", err)
	}
	thread.UserID = userID.String
	return &thread, nil
}

// nullable converts an empty string to a SQL NULL
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
