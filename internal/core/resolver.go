// ABOUTME: EntityResolver matches free-text mentions to canonical country/area names
// ABOUTME: Precision-over-recall ordering: exact, substring, alias, then edit-distance fuzzy
package core

import (
	"strings"

	"github.com/policyatlas/policyatlas/internal/corpus"
)

// DefaultFuzzyCutoff is the normalized-similarity threshold for fuzzy matches.
// Tunable; not a correctness guarantee.
const DefaultFuzzyCutoff = 0.6

// countryAliases maps common short forms to the canonical-style name they
// expand to. The expansion is only accepted when the target exists in the
// current snapshot's known set.
var countryAliases = map[string]string{
	"usa":     "united states",
	"us":      "united states",
	"america": "united states",
	"uk":      "united kingdom",
	"britain": "united kingdom",
	"uae":     "united arab emirates",
	"drc":     "democratic republic of the congo",
	"korea":   "south korea",
	"holland": "netherlands",
}

// areaAliases covers common phrasing variants for policy areas.
var areaAliases = map[string]string{
	"ai":         "ai safety",
	"privacy":    "data protection",
	"climate":    "climate change",
	"healthcare": "health",
}

// Resolver resolves mentions against the known-name sets of a snapshot.
type Resolver struct {
	fuzzyCutoff float64
}

// NewResolver creates a resolver. A non-positive cutoff uses the default.
func NewResolver(fuzzyCutoff float64) *Resolver {
	if fuzzyCutoff <= 0 {
		fuzzyCutoff = DefaultFuzzyCutoff
	}
	return &Resolver{fuzzyCutoff: fuzzyCutoff}
}

// ResolveCountry resolves text to a canonical country name, or "" when no
// match clears the bar.
func (r *Resolver) ResolveCountry(text string, snap *corpus.Snapshot) string {
	if snap == nil {
		return ""
	}
	return r.resolve(text, snap.Countries, countryAliases)
}

// ResolveArea resolves text to a canonical policy-area name, or "".
func (r *Resolver) ResolveArea(text string, snap *corpus.Snapshot) string {
	if snap == nil {
		return ""
	}
	return r.resolve(text, snap.Areas, areaAliases)
}

// resolve applies the match ladder in order, first hit wins. Cheap
// high-precision checks run before fuzzy matching so short names cannot be
// stolen by a nearer edit-distance candidate.
func (r *Resolver) resolve(text string, known []string, aliases map[string]string) string {
	norm := normalizeMention(text)
	if norm == "" {
		return ""
	}

	// 1. Case-insensitive exact match.
	for _, name := range known {
		if strings.ToLower(name) == norm {
			return name
		}
	}

	// 2. Bidirectional substring containment ("states" -> "United States").
	if len(norm) >= 4 {
		for _, name := range known {
			lower := strings.ToLower(name)
			if strings.Contains(lower, norm) || strings.Contains(norm, lower) {
				return name
			}
		}
	}

	// 3. Alias expansion, accepted only when the target is known.
	if target, ok := aliases[norm]; ok {
		for _, name := range known {
			if strings.ToLower(name) == target {
				return name
			}
		}
	}

	// 4. Fuzzy match: single best candidate above the similarity cutoff.
	best := ""
	bestScore := r.fuzzyCutoff
	for _, name := range known {
		score := similarity(norm, strings.ToLower(name))
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	return best
}

// ExtractCountries finds all country mentions in a sentence, in order of
// first appearance, de-duplicated. Known names and aliases are matched as
// whole-word substrings; remaining tokens go through the resolution ladder.
func (r *Resolver) ExtractCountries(text string, snap *corpus.Snapshot) []string {
	if snap == nil {
		return nil
	}
	return r.extract(text, snap.Countries, countryAliases)
}

// ExtractAreas finds all policy-area mentions in a sentence.
func (r *Resolver) ExtractAreas(text string, snap *corpus.Snapshot) []string {
	if snap == nil {
		return nil
	}
	return r.extract(text, snap.Areas, areaAliases)
}

func (r *Resolver) extract(text string, known []string, aliases map[string]string) []string {
	norm := " " + normalizeMention(text) + " "

	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	seen := make(map[string]bool)

	record := func(pos int, name string) {
		if !seen[name] {
			seen[name] = true
			hits = append(hits, hit{pos: pos, name: name})
		}
	}

	for _, name := range known {
		if pos := strings.Index(norm, " "+strings.ToLower(name)+" "); pos >= 0 {
			record(pos, name)
		}
	}
	for alias, target := range aliases {
		pos := strings.Index(norm, " "+alias+" ")
		if pos < 0 {
			continue
		}
		for _, name := range known {
			if strings.ToLower(name) == target {
				record(pos, name)
				break
			}
		}
	}

	// Remaining tokens run the full single-mention ladder, so substring
	// containment and fuzzy matching apply inside sentences too: "states"
	// resolves to United States, "Bangldesh" to Bangladesh.
	for i, token := range strings.Fields(norm) {
		if len(token) < 4 {
			continue
		}
		if name := r.resolve(token, known, aliases); name != "" {
			record(len(norm)+i, name)
		}
	}

	ordered := make([]string, 0, len(hits))
	for len(hits) > 0 {
		minIdx := 0
		for i := 1; i < len(hits); i++ {
			if hits[i].pos < hits[minIdx].pos {
				minIdx = i
			}
		}
		ordered = append(ordered, hits[minIdx].name)
		hits = append(hits[:minIdx], hits[minIdx+1:]...)
	}
	return ordered
}

// normalizeMention lower-cases and strips punctuation, collapsing whitespace.
func normalizeMention(text string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// similarity is normalized Levenshtein similarity in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes edit distance with a two-row matrix.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
