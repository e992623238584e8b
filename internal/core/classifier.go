// ABOUTME: QueryClassifier labels an incoming message with an intent
// ABOUTME: Precedence ladder: greeting, help, lists, out-of-scope, comparison, lookups, unknown
package core

import (
	"strings"

	"github.com/policyatlas/policyatlas/internal/corpus"
	"github.com/policyatlas/policyatlas/internal/models"
)

var greetingPhrases = []string{
	"hi", "hello", "hey", "hiya", "howdy",
	"good morning", "good afternoon", "good evening",
}

var helpPhrases = []string{
	"help", "what can you do", "how do i use", "how does this work", "what do you do",
}

var listCountryPhrases = []string{
	"countries", "list countries", "which countries", "what countries", "show countries",
	"list of countries", "countries do you know",
}

var listAreaPhrases = []string{
	"areas", "topics", "list areas", "which areas", "what areas", "show areas",
	"policy areas", "list of areas", "what topics",
}

// outOfScopeTerms is the deny-list of non-domain topics. Checked before
// entity resolution so an off-topic sentence mentioning a country is still
// rejected.
var outOfScopeTerms = []string{
	"weather", "sport", "sports", "football", "cricket", "soccer", "basketball",
	"recipe", "cooking", "movie", "movies", "music", "song",
	"stock", "stocks", "bitcoin", "crypto", "lottery",
	"joke", "riddle", "horoscope", "meaning of life",
}

var comparisonPhrases = []string{
	"compare", "comparison", "difference between", "differences between",
	"vs", "versus", "better than", "worse than",
}

// lookupCue marks messages that are clearly asking about policies even when
// the entity itself cannot be resolved ("policies in Atlantis").
var lookupCues = []string{"policy", "policies", "regulation", "regulations", "law", "laws"}

// Classifier decides the intent of a message once; downstream components
// switch on the result instead of re-deriving it.
type Classifier struct {
	resolver *Resolver
}

// NewClassifier creates a classifier over the given resolver.
func NewClassifier(resolver *Resolver) *Classifier {
	return &Classifier{resolver: resolver}
}

// Classify labels the message. Rules run in precedence order; the first
// matching rule wins.
func (c *Classifier) Classify(message string, rctx *models.ResolvedContext, snap *corpus.Snapshot) models.Intent {
	norm := normalizeMention(message)

	// 1. Greeting.
	if matchesPhrase(norm, greetingPhrases) {
		return models.Intent{Kind: models.IntentGreeting}
	}

	// 2. Help.
	if matchesPhrase(norm, helpPhrases) {
		return models.Intent{Kind: models.IntentHelp}
	}

	// 3. List commands.
	if matchesListCommand(norm, listCountryPhrases) {
		return models.Intent{Kind: models.IntentListCountries}
	}
	if matchesListCommand(norm, listAreaPhrases) {
		return models.Intent{Kind: models.IntentListAreas}
	}

	// 4. Out-of-scope deny-list, before any entity resolution.
	if containsWord(norm, outOfScopeTerms) {
		return models.Intent{Kind: models.IntentOutOfScope}
	}

	messageCountries := c.resolver.ExtractCountries(message, snap)

	// 5. Comparison: explicit keyword, or two-plus countries across the
	// message and carried-over context. Message entities come after context
	// entities so "and Russia?" compares in conversation order.
	hasKeyword := containsPhrase(norm, comparisonPhrases)
	var contextCountries []string
	if rctx != nil {
		contextCountries = rctx.MentionedCountries
	}
	entities := unionOrdered(contextCountries, messageCountries)
	if len(messageCountries) >= 2 {
		// The live message names its own comparison set; context fills no gaps.
		return models.Intent{Kind: models.IntentComparison, Entities: messageCountries}
	}
	if len(entities) >= 2 && (hasKeyword || len(messageCountries) >= 1) {
		return models.Intent{Kind: models.IntentComparison, Entities: entities}
	}

	// 6. Single-entity lookups.
	if len(messageCountries) == 1 {
		return models.Intent{Kind: models.IntentCountryLookup, Country: messageCountries[0]}
	}
	if areas := c.resolver.ExtractAreas(message, snap); len(areas) >= 1 {
		return models.Intent{Kind: models.IntentAreaLookup, Area: areas[0]}
	}

	// A clear policy question about an unresolvable place is still a lookup;
	// the responder reports "no match" instead of treating it as noise.
	if containsWord(norm, lookupCues) {
		return models.Intent{Kind: models.IntentCountryLookup}
	}

	// 7. Unknown.
	return models.Intent{Kind: models.IntentUnknown}
}

// matchesPhrase reports whether the message is essentially one of the given
// phrases (exact or leading match).
func matchesPhrase(norm string, phrases []string) bool {
	for _, p := range phrases {
		if norm == p || strings.HasPrefix(norm, p+" ") {
			return true
		}
	}
	return false
}

// matchesListCommand accepts exact list commands and short queries that
// contain one ("what countries do you cover").
func matchesListCommand(norm string, phrases []string) bool {
	for _, p := range phrases {
		if norm == p {
			return true
		}
	}
	// Longer phrasings still count when the phrase itself appears.
	for _, p := range phrases {
		if strings.Contains(p, " ") && strings.Contains(norm, p) {
			return true
		}
	}
	return false
}

func containsWord(norm string, words []string) bool {
	padded := " " + norm + " "
	for _, w := range words {
		if strings.Contains(padded, " "+w+" ") {
			return true
		}
	}
	return false
}

func containsPhrase(norm string, phrases []string) bool {
	padded := " " + norm + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

// unionOrdered appends extras not already present, preserving order.
func unionOrdered(base, extras []string) []string {
	out := make([]string, 0, len(base)+len(extras))
	seen := make(map[string]bool)
	for _, v := range base {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range extras {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
