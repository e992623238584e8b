// ABOUTME: QueryEngine composes cache, resolver, classifier, retrieval, and generation
// ABOUTME: The chat contract never fails; every internal error degrades to a templated reply
package core

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/policyatlas/policyatlas/internal/corpus"
	"github.com/policyatlas/policyatlas/internal/metrics"
	"github.com/policyatlas/policyatlas/internal/models"
	"github.com/policyatlas/policyatlas/internal/storage"
)

// Engine is the orchestrator behind every chat surface (HTTP, MCP, CLI).
type Engine struct {
	cache      *corpus.Cache
	store      *storage.Storage
	extractor  *ContextExtractor
	classifier *Classifier
	retrieval  *RetrievalEngine
	responder  *ResponseGenerator
}

// Options tunes the engine; zero values fall back to defaults.
type Options struct {
	HistoryLimit  int
	HistoryWindow time.Duration
	MaxResults    int
	PromptBudget  int
	FuzzyCutoff   float64
}

// NewEngine wires the query pipeline. chain may be nil, in which case all
// generative intents use deterministic answers.
func NewEngine(cache *corpus.Cache, store *storage.Storage, chain GenerationChain, opts Options) *Engine {
	resolver := NewResolver(opts.FuzzyCutoff)
	return &Engine{
		cache:      cache,
		store:      store,
		extractor:  NewContextExtractor(store, resolver, opts.HistoryLimit, opts.HistoryWindow),
		classifier: NewClassifier(resolver),
		retrieval:  NewRetrievalEngine(opts.MaxResults),
		responder:  NewResponseGenerator(chain, opts.PromptBudget),
	}
}

// Chat runs one conversational turn. It always returns a response; corpus
// unavailability, provider failures, and persistence failures all degrade
// rather than surfacing as errors.
func (e *Engine) Chat(ctx context.Context, req *models.ChatRequest) *models.ChatResponse {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = models.NewConversationID()
	}

	resp := &models.ChatResponse{
		ConversationID: conversationID,
		Timestamp:      time.Now().UTC(),
	}

	snap, err := e.cache.Ensure(ctx)
	if err != nil {
		log.Printf("corpus unavailable for chat: %v", err)
	}

	rctx, err := e.extractor.Extract(ctx, req.ConversationID, req.Message, snap)
	if err != nil {
		log.Printf("context extraction failed, continuing without history: %v", err)
		rctx = models.NewResolvedContext()
	}

	intent := e.classifier.Classify(req.Message, rctx, snap)
	metrics.ChatRequests.WithLabelValues(string(intent.Kind)).Inc()

	var result *RetrievalResult
	if intent.NeedsRetrieval() {
		result = e.retrieval.Retrieve(intent, snap)
	}

	resp.Response = e.responder.Generate(ctx, intent, result, rctx, promptMessage(req), snap)

	// Both turns are persisted after the reply is computed; failures here
	// must not reach the user.
	meta := map[string]string{"intent": string(intent.Kind)}
	if _, err := e.store.AppendMessage(ctx, conversationID, req.UserID, models.RoleUser, req.Message, nil); err != nil {
		log.Printf("failed to persist user message for %s: %v", conversationID, err)
	}
	if _, err := e.store.AppendMessage(ctx, conversationID, req.UserID, models.RoleAssistant, resp.Response, meta); err != nil {
		log.Printf("failed to persist assistant message for %s: %v", conversationID, err)
	}

	return resp
}

// promptMessage folds optional caller-supplied context into the text handed
// to generation. Classification, extraction, and persistence see only the
// message itself.
func promptMessage(req *models.ChatRequest) string {
	if strings.TrimSpace(req.Context) == "" {
		return req.Message
	}
	return req.Message + "\n\nCaller context: " + req.Context
}

// Search exposes the retrieval engine directly, bypassing chat framing.
func (e *Engine) Search(ctx context.Context, query string, limit int) []SearchResult {
	snap, err := e.cache.Ensure(ctx)
	if err != nil {
		log.Printf("corpus unavailable for search: %v", err)
		return nil
	}
	return e.retrieval.Search(query, limit, snap)
}

// Cache exposes the corpus cache for the maintenance surface.
func (e *Engine) Cache() *corpus.Cache {
	return e.cache
}

// Thread returns conversation metadata for a conversation id.
func (e *Engine) Thread(ctx context.Context, conversationID string) (*models.ConversationThread, error) {
	return e.store.Thread(ctx, conversationID)
}
