// ABOUTME: ContextExtractor derives the rolling conversational context from recent messages
// ABOUTME: Pure function of the stored transcript; recomputed per request, never persisted
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/policyatlas/policyatlas/internal/corpus"
	"github.com/policyatlas/policyatlas/internal/models"
)

// ConversationReader is the slice of the storage facade the extractor needs.
type ConversationReader interface {
	RecentMessages(ctx context.Context, conversationID string, limit int, window time.Duration) ([]models.ConversationMessage, error)
}

// maxRecentQueries bounds the recent-query list carried in the context.
const maxRecentQueries = 5

// ContextExtractor rebuilds ResolvedContext from the last few messages.
type ContextExtractor struct {
	store    ConversationReader
	resolver *Resolver
	limit    int
	window   time.Duration
}

// NewContextExtractor creates an extractor reading up to limit messages
// within the given recency window.
func NewContextExtractor(store ConversationReader, resolver *Resolver, limit int, window time.Duration) *ContextExtractor {
	if limit <= 0 {
		limit = 8
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &ContextExtractor{store: store, resolver: resolver, limit: limit, window: window}
}

// Extract scans the recent transcript oldest-first, resolving entity
// mentions in order so the most recent mention lands last. The current
// message is recorded as a recent query but its entities are not folded in;
// the classifier resolves the live message itself and unions as needed.
func (e *ContextExtractor) Extract(ctx context.Context, conversationID, currentMessage string, snap *corpus.Snapshot) (*models.ResolvedContext, error) {
	rctx := models.NewResolvedContext()

	if conversationID != "" {
		messages, err := e.store.RecentMessages(ctx, conversationID, e.limit, e.window)
		if err != nil {
			return nil, fmt.Errorf("failed to read recent messages: %w", err)
		}

		for _, msg := range messages {
			for _, country := range e.resolver.ExtractCountries(msg.Content, snap) {
				rctx.AddCountry(country)
			}
			for _, area := range e.resolver.ExtractAreas(msg.Content, snap) {
				rctx.AddArea(area)
			}
			if msg.Role == models.RoleUser {
				rctx.AddQuery(msg.Content, maxRecentQueries)
			}
		}
	}

	if currentMessage != "" {
		rctx.AddQuery(currentMessage, maxRecentQueries)
	}

	return rctx, nil
}
