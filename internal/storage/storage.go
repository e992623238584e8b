// ABOUTME: Storage facade composing the SQLite policy and conversation stores
// ABOUTME: Single owner of the database handle; all durable access goes through here
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/policyatlas/policyatlas/internal/models"
	"github.com/policyatlas/policyatlas/internal/storage/sqlite"
)

// Storage is the durable-store facade used by the rest of the system.
type Storage struct {
	db            *sqlite.DB
	policies      *sqlite.PolicyStore
	conversations *sqlite.ConversationStore
}

// NewStorage opens file-backed storage at the given path. An empty path uses
// the XDG default location.
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		path = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates in-memory storage (for testing).
func NewStorageInMemory() (*Storage, error) {
	db, err := sqlite.OpenInMemory()
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

func newStorage(db *sqlite.DB) *Storage {
	return &Storage{
		db:            db,
		policies:      sqlite.NewPolicyStore(db),
		conversations: sqlite.NewConversationStore(db),
	}
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Storage) Path() string {
	return s.db.Path()
}

// SavePolicy inserts or updates a policy record.
func (s *Storage) SavePolicy(ctx context.Context, p *models.PolicyRecord) error {
	return s.policies.Save(ctx, p)
}

// ListApprovedPolicies returns every approved policy, in stable store order.
func (s *Storage) ListApprovedPolicies(ctx context.Context) ([]models.PolicyRecord, error) {
	return s.policies.ListApproved(ctx)
}

// CountPolicies returns the number of policies with the given status.
func (s *Storage) CountPolicies(ctx context.Context, status string) (int, error) {
	return s.policies.Count(ctx, status)
}

// DeletePolicy removes a policy record.
func (s *Storage) DeletePolicy(ctx context.Context, id string) error {
	return s.policies.Delete(ctx, id)
}

// AppendMessage appends a message to a conversation, creating the thread on
// first use and incrementing its message count.
func (s *Storage) AppendMessage(ctx context.Context, conversationID, userID, role, content string, metadata map[string]string) (*models.ConversationMessage, error) {
	return s.conversations.Append(ctx, conversationID, userID, role, content, metadata)
}

// RecentMessages returns up to limit messages within the window, oldest first.
func (s *Storage) RecentMessages(ctx context.Context, conversationID string, limit int, window time.Duration) ([]models.ConversationMessage, error) {
	return s.conversations.Recent(ctx, conversationID, limit, window)
}

// Thread returns thread metadata, or nil when the conversation is unknown.
func (s *Storage) Thread(ctx context.Context, conversationID string) (*models.ConversationThread, error) {
	return s.conversations.Thread(ctx, conversationID)
}
