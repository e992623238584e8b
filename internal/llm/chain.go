// ABOUTME: Chain drives the ordered provider-fallback sequence
// ABOUTME: Each provider gets one attempt with its own timeout; failures advance, never propagate
package llm

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/policyatlas/policyatlas/internal/metrics"
)

// Chain tries providers in order until one returns a usable answer.
type Chain struct {
	providers []Provider
	timeout   time.Duration
}

// NewChain creates a fallback chain. Providers are attempted in the order
// given; timeout applies per provider call.
func NewChain(timeout time.Duration, providers ...Provider) *Chain {
	return &Chain{providers: providers, timeout: timeout}
}

// Len returns the number of providers in the chain.
func (c *Chain) Len() int {
	return len(c.providers)
}

// Generate walks the chain. It returns the first successful reply and the
// name of the provider that produced it. ErrAllProvidersFailed is returned
// only when every link failed; a parent-context cancellation stops the walk.
func (c *Chain) Generate(ctx context.Context, prompt string, history []Message) (string, string, error) {
	for _, p := range c.providers {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		reply, err := p.Generate(callCtx, prompt, history)
		cancel()

		if err != nil {
			metrics.ProviderRequests.WithLabelValues(p.Name(), metrics.OutcomeError).Inc()
			log.Printf("provider %s failed, advancing chain: %v", p.Name(), err)
			continue
		}
		if strings.TrimSpace(reply) == "" {
			metrics.ProviderRequests.WithLabelValues(p.Name(), metrics.OutcomeError).Inc()
			log.Printf("provider %s returned an empty reply, advancing chain", p.Name())
			continue
		}

		metrics.ProviderRequests.WithLabelValues(p.Name(), metrics.OutcomeOK).Inc()
		return reply, p.Name(), nil
	}

	return "", "", ErrAllProvidersFailed
}
