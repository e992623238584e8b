// ABOUTME: ResolvedContext is the rolling conversational context derived per request
// ABOUTME: Ephemeral, recomputed from the recent message window; never persisted
package models

// ResolvedContext holds entities and topics resolved from the recent
// transcript of one conversation. Ordered sets keep insertion order with the
// most recent mention last; re-mentioning an entity moves it to the end.
type ResolvedContext struct {
	MentionedCountries []string `json:"mentioned_countries"`
	MentionedAreas     []string `json:"mentioned_areas"`
	RecentQueries      []string `json:"recent_queries"`
	LastTopic          string   `json:"last_topic,omitempty"`
}

// NewResolvedContext returns an empty context.
func NewResolvedContext() *ResolvedContext {
	return &ResolvedContext{
		MentionedCountries: []string{},
		MentionedAreas:     []string{},
		RecentQueries:      []string{},
	}
}

// AddCountry records a resolved country mention, de-duplicating and keeping
// the most recent mention last.
func (c *ResolvedContext) AddCountry(country string) {
	c.MentionedCountries = appendRecent(c.MentionedCountries, country)
	c.LastTopic = country
}

// AddArea records a resolved policy-area mention.
func (c *ResolvedContext) AddArea(area string) {
	c.MentionedAreas = appendRecent(c.MentionedAreas, area)
	c.LastTopic = area
}

// AddQuery records a recent user query, keeping at most limit entries.
func (c *ResolvedContext) AddQuery(query string, limit int) {
	c.RecentQueries = append(c.RecentQueries, query)
	if limit > 0 && len(c.RecentQueries) > limit {
		c.RecentQueries = c.RecentQueries[len(c.RecentQueries)-limit:]
	}
}

// appendRecent appends value to an ordered set, moving an existing entry to
// the end instead of duplicating it.
func appendRecent(set []string, value string) []string {
	for i, v := range set {
		if v == value {
			return append(append(set[:i:i], set[i+1:]...), value)
		}
	}
	return append(set, value)
}
