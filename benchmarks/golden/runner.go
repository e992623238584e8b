// ABOUTME: Runner evaluating the classifier and retrieval engine against golden cases
// ABOUTME: Deterministic, no providers or storage; reports per-case results and accuracy
package golden

import (
	"fmt"
	"time"

	"github.com/policyatlas/policyatlas/internal/core"
	"github.com/policyatlas/policyatlas/internal/corpus"
	"github.com/policyatlas/policyatlas/internal/models"
)

// CaseResult is the evaluation outcome for one golden case.
type CaseResult struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Passed  bool   `json:"passed"`
	Detail  string `json:"detail,omitempty"`

	GotIntent   models.IntentKind `json:"got_intent"`
	GotCountry  string            `json:"got_country,omitempty"`
	GotArea     string            `json:"got_area,omitempty"`
	GotEntities []string          `json:"got_entities,omitempty"`
}

// Summary aggregates a full run.
type Summary struct {
	Total    int          `json:"total"`
	Passed   int          `json:"passed"`
	Failed   int          `json:"failed"`
	Accuracy float64      `json:"accuracy"`
	RunAt    time.Time    `json:"run_at"`
	Results  []CaseResult `json:"results"`
}

// Runner evaluates golden cases against the deterministic pipeline stages.
type Runner struct {
	classifier *core.Classifier
	retrieval  *core.RetrievalEngine
	snapshot   *corpus.Snapshot
}

// NewRunner builds the pipeline over the fixture corpus.
func NewRunner() *Runner {
	return &Runner{
		classifier: core.NewClassifier(core.NewResolver(0)),
		retrieval:  core.NewRetrievalEngine(0),
		snapshot:   corpus.BuildSnapshot(FixtureRecords(), time.Now().UTC()),
	}
}

// RunAll evaluates every case and aggregates the outcome.
func (r *Runner) RunAll(cases []Case) Summary {
	summary := Summary{
		Total: len(cases),
		RunAt: time.Now().UTC(),
	}

	for _, c := range cases {
		result := r.Run(c)
		if result.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
	}

	if summary.Total > 0 {
		summary.Accuracy = float64(summary.Passed) / float64(summary.Total)
	}
	return summary
}

// Run evaluates a single case.
func (r *Runner) Run(c Case) CaseResult {
	rctx := models.NewResolvedContext()
	for _, country := range c.ContextCountries {
		rctx.AddCountry(country)
	}
	for _, area := range c.ContextAreas {
		rctx.AddArea(area)
	}

	intent := r.classifier.Classify(c.Message, rctx, r.snapshot)

	result := CaseResult{
		ID:          c.ID,
		Message:     c.Message,
		GotIntent:   intent.Kind,
		GotCountry:  intent.Country,
		GotArea:     intent.Area,
		GotEntities: intent.Entities,
		Passed:      true,
	}

	if intent.Kind != c.WantIntent {
		result.Passed = false
		result.Detail = fmt.Sprintf("intent: got %s, want %s", intent.Kind, c.WantIntent)
		return result
	}
	if intent.Country != c.WantCountry {
		result.Passed = false
		result.Detail = fmt.Sprintf("country: got %q, want %q", intent.Country, c.WantCountry)
		return result
	}
	if intent.Area != c.WantArea {
		result.Passed = false
		result.Detail = fmt.Sprintf("area: got %q, want %q", intent.Area, c.WantArea)
		return result
	}
	if len(c.WantEntities) > 0 {
		if len(intent.Entities) != len(c.WantEntities) {
			result.Passed = false
			result.Detail = fmt.Sprintf("entities: got %v, want %v", intent.Entities, c.WantEntities)
			return result
		}
		for i := range c.WantEntities {
			if intent.Entities[i] != c.WantEntities[i] {
				result.Passed = false
				result.Detail = fmt.Sprintf("entities: got %v, want %v", intent.Entities, c.WantEntities)
				return result
			}
		}
	}

	if c.WantRecords > 0 && intent.NeedsRetrieval() {
		retrieved := r.retrieval.Retrieve(intent, r.snapshot)
		if retrieved.Total() != c.WantRecords {
			result.Passed = false
			result.Detail = fmt.Sprintf("records: got %d, want %d", retrieved.Total(), c.WantRecords)
			return result
		}
	}

	return result
}
