// ABOUTME: Tests for rolling context extraction from the conversation transcript
// ABOUTME: Extraction is a pure function of stored messages: repeatable, ordered, bounded
package core

import (
	"context"
	"testing"
	"time"

	"github.com/policyatlas/policyatlas/internal/models"
	"github.com/policyatlas/policyatlas/internal/storage"
)

func newTestStore(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedConversation(t *testing.T, store *storage.Storage, convID string, turns [][2]string) {
	t.Helper()
	for _, turn := range turns {
		if _, err := store.AppendMessage(context.Background(), convID, "", turn[0], turn[1], nil); err != nil {
			t.Fatalf("AppendMessage(%q) error = %v", turn[1], err)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestExtract_AccumulatesEntitiesInOrder(t *testing.T) {
	store := newTestStore(t)
	snap := testSnapshot()
	convID := models.NewConversationID()

	seedConversation(t, store, convID, [][2]string{
		{models.RoleUser, "Tell me about AI safety policy in the United States"},
		{models.RoleAssistant, "The United States has an AI Executive Order from 2023."},
		{models.RoleUser, "What about Bangladesh?"},
	})

	e := NewContextExtractor(store, NewResolver(0), 8, 24*time.Hour)
	rctx, err := e.Extract(context.Background(), convID, "and data protection?", snap)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []string{"United States", "Bangladesh"}
	if len(rctx.MentionedCountries) != len(want) {
		t.Fatalf("MentionedCountries = %v, want %v", rctx.MentionedCountries, want)
	}
	for i := range want {
		if rctx.MentionedCountries[i] != want[i] {
			t.Errorf("MentionedCountries[%d] = %q, want %q", i, rctx.MentionedCountries[i], want[i])
		}
	}

	if len(rctx.MentionedAreas) == 0 || rctx.MentionedAreas[0] != "AI Safety" {
		t.Errorf("MentionedAreas = %v, want AI Safety first", rctx.MentionedAreas)
	}

	if rctx.LastTopic != "Bangladesh" {
		t.Errorf("LastTopic = %q, want Bangladesh (most recent mention)", rctx.LastTopic)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	store := newTestStore(t)
	snap := testSnapshot()
	convID := models.NewConversationID()

	seedConversation(t, store, convID, [][2]string{
		{models.RoleUser, "policies in Bangladesh"},
		{models.RoleAssistant, "Bangladesh has three policies."},
	})

	e := NewContextExtractor(store, NewResolver(0), 8, 24*time.Hour)

	first, err := e.Extract(context.Background(), convID, "and India?", snap)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	second, err := e.Extract(context.Background(), convID, "and India?", snap)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(first.MentionedCountries) != len(second.MentionedCountries) {
		t.Fatalf("extraction not idempotent: %v vs %v", first.MentionedCountries, second.MentionedCountries)
	}
	for i := range first.MentionedCountries {
		if first.MentionedCountries[i] != second.MentionedCountries[i] {
			t.Errorf("countries differ at %d: %q vs %q", i, first.MentionedCountries[i], second.MentionedCountries[i])
		}
	}
	if first.LastTopic != second.LastTopic {
		t.Errorf("LastTopic differs: %q vs %q", first.LastTopic, second.LastTopic)
	}
}

func TestExtract_RemanationMovesToEnd(t *testing.T) {
	store := newTestStore(t)
	snap := testSnapshot()
	convID := models.NewConversationID()

	seedConversation(t, store, convID, [][2]string{
		{models.RoleUser, "policies in Bangladesh"},
		{models.RoleUser, "policies in India"},
		{models.RoleUser, "back to Bangladesh please"},
	})

	e := NewContextExtractor(store, NewResolver(0), 8, 24*time.Hour)
	rctx, err := e.Extract(context.Background(), convID, "thanks", snap)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []string{"India", "Bangladesh"}
	if len(rctx.MentionedCountries) != 2 {
		t.Fatalf("MentionedCountries = %v, want %v", rctx.MentionedCountries, want)
	}
	for i := range want {
		if rctx.MentionedCountries[i] != want[i] {
			t.Errorf("MentionedCountries[%d] = %q, want %q (re-mention moves to end)", i, rctx.MentionedCountries[i], want[i])
		}
	}
}

func TestExtract_EmptyConversation(t *testing.T) {
	store := newTestStore(t)
	snap := testSnapshot()

	e := NewContextExtractor(store, NewResolver(0), 8, 24*time.Hour)
	rctx, err := e.Extract(context.Background(), "", "hello there", snap)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(rctx.MentionedCountries) != 0 || len(rctx.MentionedAreas) != 0 {
		t.Errorf("fresh conversation should carry no mentions, got %v / %v", rctx.MentionedCountries, rctx.MentionedAreas)
	}
	if len(rctx.RecentQueries) != 1 || rctx.RecentQueries[0] != "hello there" {
		t.Errorf("RecentQueries = %v, want just the live message", rctx.RecentQueries)
	}
}

func TestExtract_RecentQueriesBounded(t *testing.T) {
	store := newTestStore(t)
	snap := testSnapshot()
	convID := models.NewConversationID()

	turns := make([][2]string, 0, 8)
	for i := 0; i < 8; i++ {
		turns = append(turns, [2]string{models.RoleUser, "question number " + string(rune('a'+i))})
	}
	seedConversation(t, store, convID, turns)

	e := NewContextExtractor(store, NewResolver(0), 20, 24*time.Hour)
	rctx, err := e.Extract(context.Background(), convID, "latest", snap)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(rctx.RecentQueries) > maxRecentQueries {
		t.Errorf("len(RecentQueries) = %d, want at most %d", len(rctx.RecentQueries), maxRecentQueries)
	}
	if rctx.RecentQueries[len(rctx.RecentQueries)-1] != "latest" {
		t.Errorf("last query = %q, want the live message", rctx.RecentQueries[len(rctx.RecentQueries)-1])
	}
}
