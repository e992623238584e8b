// ABOUTME: Prometheus collectors for the query engine
// ABOUTME: Tracks corpus refreshes, provider fallback behavior, and chat intents
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// CacheRefreshes counts corpus refresh attempts by outcome.
	CacheRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "policyatlas",
		Name:      "cache_refresh_total",
		Help:      "Corpus cache refresh attempts by outcome.",
	}, []string{"outcome"})

	// ProviderRequests counts generation provider calls by provider and outcome.
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "policyatlas",
		Name:      "provider_requests_total",
		Help:      "Generation provider calls by provider name and outcome.",
	}, []string{"provider", "outcome"})

	// ChatRequests counts chat turns by classified intent.
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "policyatlas",
		Name:      "chat_requests_total",
		Help:      "Chat requests by classified intent.",
	}, []string{"intent"})

	// CorpusRecords tracks the record count of the resident snapshot.
	CorpusRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "policyatlas",
		Name:      "corpus_records",
		Help:      "Number of policy records in the resident corpus snapshot.",
	})
)
