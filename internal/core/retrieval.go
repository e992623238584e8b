// ABOUTME: RetrievalEngine produces ranked, size-bounded candidate sets from the snapshot
// ABOUTME: Lookups use the snapshot indexes; comparisons keep per-entity groups
package core

import (
	"sort"
	"strings"

	"github.com/policyatlas/policyatlas/internal/corpus"
	"github.com/policyatlas/policyatlas/internal/models"
)

// DefaultMaxResults bounds the candidate set handed to generation.
const DefaultMaxResults = 15

// EntityRecords groups the candidates retrieved for one resolved entity.
// An empty Records slice for a resolved entity is a reportable outcome,
// distinct from the entity not resolving at all.
type EntityRecords struct {
	Entity  string                `json:"entity"`
	Records []models.PolicyRecord `json:"records"`
}

// RetrievalResult is the grouped candidate set for one intent.
type RetrievalResult struct {
	Groups []EntityRecords `json:"groups"`
}

// Total returns the number of records across all groups.
func (r *RetrievalResult) Total() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Records)
	}
	return n
}

// Flatten returns all records across groups in group order.
func (r *RetrievalResult) Flatten() []models.PolicyRecord {
	records := make([]models.PolicyRecord, 0, r.Total())
	for _, g := range r.Groups {
		records = append(records, g.Records...)
	}
	return records
}

// SearchResult is one scored record from the direct keyword search surface.
type SearchResult struct {
	Record models.PolicyRecord `json:"record"`
	Score  float64             `json:"score"`
}

// RetrievalEngine ranks and bounds candidates for downstream generation.
type RetrievalEngine struct {
	maxResults int
}

// NewRetrievalEngine creates an engine with the given result bound.
func NewRetrievalEngine(maxResults int) *RetrievalEngine {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &RetrievalEngine{maxResults: maxResults}
}

// Retrieve builds the candidate set for a classified intent. Intents that
// carry no resolved entity produce a result with no groups.
func (e *RetrievalEngine) Retrieve(intent models.Intent, snap *corpus.Snapshot) *RetrievalResult {
	result := &RetrievalResult{}
	if snap == nil {
		return result
	}

	switch intent.Kind {
	case models.IntentCountryLookup:
		if intent.Country != "" {
			result.Groups = append(result.Groups, EntityRecords{
				Entity:  intent.Country,
				Records: e.rank(snap.CountryRecords(intent.Country), e.maxResults),
			})
		}
	case models.IntentAreaLookup:
		if intent.Area != "" {
			result.Groups = append(result.Groups, EntityRecords{
				Entity:  intent.Area,
				Records: e.rank(snap.AreaRecords(intent.Area), e.maxResults),
			})
		}
	case models.IntentComparison:
		if len(intent.Entities) == 0 {
			return result
		}
		// Split the bound across entities so one policy-heavy country
		// cannot crowd the others out of the prompt.
		perEntity := e.maxResults / len(intent.Entities)
		if perEntity < 1 {
			perEntity = 1
		}
		for _, entity := range intent.Entities {
			result.Groups = append(result.Groups, EntityRecords{
				Entity:  entity,
				Records: e.rank(snap.CountryRecords(entity), perEntity),
			})
		}
	}

	return result
}

// rank orders candidates most-recently-implemented first. Records without a
// year sort last; ties keep their snapshot order for determinism.
func (e *RetrievalEngine) rank(records []models.PolicyRecord, limit int) []models.PolicyRecord {
	ranked := make([]models.PolicyRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		yi, yj := ranked[i].ImplementationYear, ranked[j].ImplementationYear
		if yi == 0 {
			return false
		}
		if yj == 0 {
			return true
		}
		return yi > yj
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// searchStopwords are ignored when scoring keyword queries.
var searchStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "for": true, "in": true,
	"is": true, "of": true, "on": true, "or": true, "the": true, "to": true,
	"what": true, "which": true, "with": true,
}

// Search scores the whole snapshot against a free-text query for the direct
// search surface, bypassing chat framing. Name and country hits outweigh
// description hits.
func (e *RetrievalEngine) Search(query string, limit int, snap *corpus.Snapshot) []SearchResult {
	if snap == nil {
		return nil
	}
	if limit <= 0 || limit > e.maxResults {
		limit = e.maxResults
	}

	var terms []string
	for _, tok := range strings.Fields(normalizeMention(query)) {
		if !searchStopwords[tok] && len(tok) > 1 {
			terms = append(terms, tok)
		}
	}
	if len(terms) == 0 {
		return nil
	}

	var results []SearchResult
	for _, rec := range snap.Records {
		name := strings.ToLower(rec.Name)
		country := strings.ToLower(rec.Country)
		area := strings.ToLower(rec.PolicyArea)
		desc := strings.ToLower(rec.Description)

		score := 0.0
		for _, term := range terms {
			switch {
			case strings.Contains(name, term):
				score += 3
			case strings.Contains(country, term) || strings.Contains(area, term):
				score += 2
			case strings.Contains(desc, term):
				score += 1
			}
		}
		if score > 0 {
			results = append(results, SearchResult{Record: rec, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
