// ABOUTME: Intent is the classified purpose of a user message
// ABOUTME: Tagged variant decided once by the classifier and matched exhaustively downstream
package models

// IntentKind enumerates the recognized query intents.
type IntentKind string

const (
	IntentGreeting      IntentKind = "greeting"
	IntentHelp          IntentKind = "help"
	IntentListCountries IntentKind = "list_countries"
	IntentListAreas     IntentKind = "list_areas"
	IntentCountryLookup IntentKind = "country_lookup"
	IntentAreaLookup    IntentKind = "area_lookup"
	IntentComparison    IntentKind = "comparison"
	IntentOutOfScope    IntentKind = "out_of_scope"
	IntentUnknown       IntentKind = "unknown"
)

// Intent carries the classified kind plus any resolved entities.
// Country is set for CountryLookup, Area for AreaLookup, Entities for Comparison.
type Intent struct {
	Kind     IntentKind `json:"kind"`
	Country  string     `json:"country,omitempty"`
	Area     string     `json:"area,omitempty"`
	Entities []string   `json:"entities,omitempty"`
}

// NeedsRetrieval reports whether the intent requires a corpus lookup before
// generating a response. Template-only intents skip retrieval entirely.
func (i Intent) NeedsRetrieval() bool {
	switch i.Kind {
	case IntentCountryLookup, IntentAreaLookup, IntentComparison:
		return true
	default:
		return false
	}
}
