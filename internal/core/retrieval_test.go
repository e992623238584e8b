// ABOUTME: Tests for candidate retrieval, ranking, and keyword search
// ABOUTME: Recency-first ordering with deterministic ties; comparisons keep per-entity groups
package core

import (
	"testing"

	"github.com/policyatlas/policyatlas/internal/models"
)

func TestRetrieve_CountryLookup(t *testing.T) {
	e := NewRetrievalEngine(0)
	snap := testSnapshot()

	result := e.Retrieve(models.Intent{Kind: models.IntentCountryLookup, Country: "Bangladesh"}, snap)
	if len(result.Groups) != 1 {
		t.Fatalf("len(Groups) = %d, want 1", len(result.Groups))
	}
	records := result.Groups[0].Records
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	// 2024 first, then 2023; the year-less record sorts last.
	if records[0].Name != "National AI Policy" {
		t.Errorf("records[0] = %q, want National AI Policy (2024)", records[0].Name)
	}
	if records[1].Name != "Data Protection Act" {
		t.Errorf("records[1] = %q, want Data Protection Act (2023)", records[1].Name)
	}
	if records[2].Name != "Digital Bangladesh Plan" {
		t.Errorf("records[2] = %q, want Digital Bangladesh Plan (no year, last)", records[2].Name)
	}
}

func TestRetrieve_AreaLookup(t *testing.T) {
	e := NewRetrievalEngine(0)
	snap := testSnapshot()

	result := e.Retrieve(models.Intent{Kind: models.IntentAreaLookup, Area: "AI Safety"}, snap)
	if len(result.Groups) != 1 || result.Groups[0].Entity != "AI Safety" {
		t.Fatalf("Groups = %+v, want one AI Safety group", result.Groups)
	}
	if got := len(result.Groups[0].Records); got != 4 {
		t.Errorf("len(records) = %d, want 4", got)
	}
}

func TestRetrieve_TieBreakIsSnapshotOrder(t *testing.T) {
	e := NewRetrievalEngine(0)
	snap := testSnapshot()

	result := e.Retrieve(models.Intent{Kind: models.IntentAreaLookup, Area: "AI Safety"}, snap)
	records := result.Groups[0].Records

	// 2024 (Bangladesh), then the two 2023 records in snapshot order
	// (United States p1 before United Kingdom p3), then 2021 (Russia).
	wantIDs := []string{"p4", "p1", "p3", "p7"}
	for i, id := range wantIDs {
		if records[i].ID != id {
			t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, id)
		}
	}
}

func TestRetrieve_ComparisonKeepsGroups(t *testing.T) {
	e := NewRetrievalEngine(0)
	snap := testSnapshot()

	intent := models.Intent{Kind: models.IntentComparison, Entities: []string{"United States", "Russia"}}
	result := e.Retrieve(intent, snap)

	if len(result.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2 (never flattened)", len(result.Groups))
	}
	if result.Groups[0].Entity != "United States" || result.Groups[1].Entity != "Russia" {
		t.Errorf("group order = [%s %s], want intent order", result.Groups[0].Entity, result.Groups[1].Entity)
	}
	if len(result.Groups[0].Records) != 2 || len(result.Groups[1].Records) != 1 {
		t.Errorf("group sizes = (%d, %d), want (2, 1)", len(result.Groups[0].Records), len(result.Groups[1].Records))
	}
}

func TestRetrieve_ComparisonSplitsBound(t *testing.T) {
	e := NewRetrievalEngine(2)
	snap := testSnapshot()

	intent := models.Intent{Kind: models.IntentComparison, Entities: []string{"Bangladesh", "United States"}}
	result := e.Retrieve(intent, snap)

	for _, g := range result.Groups {
		if len(g.Records) > 1 {
			t.Errorf("group %s has %d records, want at most 1 with the bound split", g.Entity, len(g.Records))
		}
	}
}

func TestRetrieve_EmptyForResolvedEntity(t *testing.T) {
	e := NewRetrievalEngine(0)
	snap := testSnapshot()

	// Resolved entity, nothing recorded: group exists with zero records.
	intent := models.Intent{Kind: models.IntentComparison, Entities: []string{"Bangladesh", "France"}}
	result := e.Retrieve(intent, snap)

	if len(result.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2", len(result.Groups))
	}
	if len(result.Groups[1].Records) != 0 {
		t.Errorf("France group has %d records, want 0 (reportable empty)", len(result.Groups[1].Records))
	}
}

func TestRetrieve_UnresolvedProducesNoGroups(t *testing.T) {
	e := NewRetrievalEngine(0)
	snap := testSnapshot()

	result := e.Retrieve(models.Intent{Kind: models.IntentCountryLookup}, snap)
	if len(result.Groups) != 0 {
		t.Errorf("len(Groups) = %d, want 0 for unresolved lookup", len(result.Groups))
	}
}

func TestRetrieve_BoundApplied(t *testing.T) {
	e := NewRetrievalEngine(2)
	snap := testSnapshot()

	result := e.Retrieve(models.Intent{Kind: models.IntentCountryLookup, Country: "Bangladesh"}, snap)
	if got := len(result.Groups[0].Records); got != 2 {
		t.Errorf("len(records) = %d, want bound of 2", got)
	}
}

func TestSearch_RanksNameHitsFirst(t *testing.T) {
	e := NewRetrievalEngine(0)
	snap := testSnapshot()

	results := e.Search("data protection", 10, snap)
	if len(results) == 0 {
		t.Fatal("Search() returned nothing")
	}
	if results[0].Record.Name != "Data Protection Act" {
		t.Errorf("top hit = %q, want Data Protection Act (name match outranks area match)", results[0].Record.Name)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by score at %d", i)
		}
	}
}

func TestSearch_LimitAndStopwords(t *testing.T) {
	e := NewRetrievalEngine(0)
	snap := testSnapshot()

	if results := e.Search("the of and", 10, snap); len(results) != 0 {
		t.Errorf("stopword-only query returned %d results, want 0", len(results))
	}

	results := e.Search("policy", 2, snap)
	if len(results) > 2 {
		t.Errorf("len(results) = %d, want at most 2", len(results))
	}
}

func TestRetrievalResult_Helpers(t *testing.T) {
	e := NewRetrievalEngine(0)
	snap := testSnapshot()

	intent := models.Intent{Kind: models.IntentComparison, Entities: []string{"Bangladesh", "Russia"}}
	result := e.Retrieve(intent, snap)

	if result.Total() != 4 {
		t.Errorf("Total() = %d, want 4", result.Total())
	}
	if got := len(result.Flatten()); got != 4 {
		t.Errorf("len(Flatten()) = %d, want 4", got)
	}
}
