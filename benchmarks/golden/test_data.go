// ABOUTME: Golden query set for classifier and retrieval evaluation
// ABOUTME: Fixture corpus plus labeled cases covering every intent kind
package golden

import (
	"github.com/policyatlas/policyatlas/internal/models"
)

// Case is one labeled query with the expected classification.
type Case struct {
	ID               string   `json:"id"`
	Message          string   `json:"message"`
	ContextCountries []string `json:"context_countries,omitempty"`
	ContextAreas     []string `json:"context_areas,omitempty"`

	WantIntent   models.IntentKind `json:"want_intent"`
	WantCountry  string            `json:"want_country,omitempty"`
	WantArea     string            `json:"want_area,omitempty"`
	WantEntities []string          `json:"want_entities,omitempty"`
	WantRecords  int               `json:"want_records,omitempty"`
}

// FixtureRecords is the corpus every golden case runs against.
func FixtureRecords() []models.PolicyRecord {
	return []models.PolicyRecord{
		{ID: "g1", Country: "Bangladesh", PolicyArea: "AI Safety", Name: "National AI Policy", Description: "Roadmap for responsible AI adoption", ImplementationYear: 2024, Status: models.PolicyStatusApproved},
		{ID: "g2", Country: "Bangladesh", PolicyArea: "Data Protection", Name: "Data Protection Act", Description: "Personal data processing rules", ImplementationYear: 2023, Status: models.PolicyStatusApproved},
		{ID: "g3", Country: "Bangladesh", PolicyArea: "Digital Governance", Name: "Digital Bangladesh Plan", Description: "National digitization strategy", Status: models.PolicyStatusApproved},
		{ID: "g4", Country: "United States", PolicyArea: "AI Safety", Name: "AI Executive Order", Description: "Directives for frontier AI oversight", ImplementationYear: 2023, Status: models.PolicyStatusApproved},
		{ID: "g5", Country: "United States", PolicyArea: "Data Protection", Name: "Privacy Act", Description: "Federal records privacy", ImplementationYear: 1974, Status: models.PolicyStatusApproved},
		{ID: "g6", Country: "United Kingdom", PolicyArea: "AI Safety", Name: "AI White Paper", Description: "Pro-innovation AI regulation", ImplementationYear: 2023, Status: models.PolicyStatusApproved},
		{ID: "g7", Country: "Russia", PolicyArea: "AI Safety", Name: "AI Development Decree", Description: "National AI development goals", ImplementationYear: 2021, Status: models.PolicyStatusApproved},
		{ID: "g8", Country: "India", PolicyArea: "Data Protection", Name: "DPDP Act", Description: "Digital personal data protection", ImplementationYear: 2023, Status: models.PolicyStatusApproved},
	}
}

// DefaultCases returns the built-in golden set.
func DefaultCases() []Case {
	return []Case{
		{ID: "greeting", Message: "hello there", WantIntent: models.IntentGreeting},
		{ID: "help", Message: "what can you do?", WantIntent: models.IntentHelp},
		{ID: "list-countries", Message: "which countries do you cover?", WantIntent: models.IntentListCountries},
		{ID: "list-areas", Message: "what areas do you track", WantIntent: models.IntentListAreas},
		{ID: "out-of-scope", Message: "what's the weather today?", WantIntent: models.IntentOutOfScope},
		{ID: "out-of-scope-entity", Message: "how is the weather in Bangladesh?", WantIntent: models.IntentOutOfScope},

		{ID: "country-exact", Message: "policies in Bangladesh", WantIntent: models.IntentCountryLookup, WantCountry: "Bangladesh", WantRecords: 3},
		{ID: "country-alias", Message: "what policies does the USA have?", WantIntent: models.IntentCountryLookup, WantCountry: "United States", WantRecords: 2},
		{ID: "country-typo", Message: "policies in Bangldesh", WantIntent: models.IntentCountryLookup, WantCountry: "Bangladesh", WantRecords: 3},
		{ID: "country-shortform", Message: "policies in the states", WantIntent: models.IntentCountryLookup, WantCountry: "United States", WantRecords: 2},
		{ID: "country-unknown", Message: "policies in Atlantis", WantIntent: models.IntentCountryLookup, WantCountry: ""},

		{ID: "area-exact", Message: "tell me about data protection regulations", WantIntent: models.IntentAreaLookup, WantArea: "Data Protection", WantRecords: 3},
		{ID: "area-alias", Message: "ai policies across countries", WantIntent: models.IntentAreaLookup, WantArea: "AI Safety", WantRecords: 4},

		{ID: "comparison-explicit", Message: "compare Bangladesh and India", WantIntent: models.IntentComparison, WantEntities: []string{"Bangladesh", "India"}},
		{ID: "comparison-vs", Message: "United States vs United Kingdom", WantIntent: models.IntentComparison, WantEntities: []string{"United States", "United Kingdom"}},
		{ID: "comparison-followup", Message: "and Russia?", ContextCountries: []string{"United States"}, WantIntent: models.IntentComparison, WantEntities: []string{"United States", "Russia"}},

		{ID: "unknown", Message: "purple monkey dishwasher", WantIntent: models.IntentUnknown},
	}
}
