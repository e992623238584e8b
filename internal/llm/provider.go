// ABOUTME: Provider is the uniform text-generation capability behind the chat feature
// ABOUTME: Concrete providers are interchangeable links in the fallback chain
package llm

import (
	"context"
	"errors"
)

// ErrAllProvidersFailed is returned by the chain when every provider errored
// or timed out. Callers degrade to a deterministic templated answer.
var ErrAllProvidersFailed = errors.New("all generation providers failed")

// Message is one turn of conversation history handed to a provider.
type Message struct {
	Role    string
	Content string
}

// Provider generates a natural-language answer for a bounded prompt. A
// provider must respect ctx cancellation; timeouts are imposed per call by
// the chain, and a failing provider is never retried. The chain advances
// to the next link instead.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Generate produces a reply for the prompt given recent history.
	Generate(ctx context.Context, prompt string, history []Message) (string, error)
}
