// ABOUTME: CorpusSnapshot is an immutable point-in-time view of the policy corpus
// ABOUTME: Built once per refresh with derived country/area indexes, then never mutated
package corpus

import (
	"sort"
	"strings"
	"time"

	"github.com/policyatlas/policyatlas/internal/models"
)

// Snapshot holds the corpus records plus derived indexes. Index values are
// positions into Records, so every indexed record is guaranteed to exist.
type Snapshot struct {
	Records   []models.PolicyRecord
	ByCountry map[string][]int
	ByArea    map[string][]int
	Countries []string
	Areas     []string
	FetchedAt time.Time
}

// BuildSnapshot derives the indexes and canonical name sets from a record
// list. Canonical names keep the casing of their first occurrence; lookups
// are case-insensitive via the fold maps.
func BuildSnapshot(records []models.PolicyRecord, fetchedAt time.Time) *Snapshot {
	snap := &Snapshot{
		Records:   records,
		ByCountry: make(map[string][]int),
		ByArea:    make(map[string][]int),
		FetchedAt: fetchedAt,
	}

	countryNames := make(map[string]string)
	areaNames := make(map[string]string)

	for i, rec := range records {
		ck := strings.ToLower(strings.TrimSpace(rec.Country))
		ak := strings.ToLower(strings.TrimSpace(rec.PolicyArea))
		if ck == "" || ak == "" {
			continue
		}
		if _, ok := countryNames[ck]; !ok {
			countryNames[ck] = strings.TrimSpace(rec.Country)
		}
		if _, ok := areaNames[ak]; !ok {
			areaNames[ak] = strings.TrimSpace(rec.PolicyArea)
		}
		snap.ByCountry[countryNames[ck]] = append(snap.ByCountry[countryNames[ck]], i)
		snap.ByArea[areaNames[ak]] = append(snap.ByArea[areaNames[ak]], i)
	}

	for _, name := range countryNames {
		snap.Countries = append(snap.Countries, name)
	}
	for _, name := range areaNames {
		snap.Areas = append(snap.Areas, name)
	}
	sort.Strings(snap.Countries)
	sort.Strings(snap.Areas)

	return snap
}

// CountryRecords returns the records for a canonical country name, in
// snapshot order.
func (s *Snapshot) CountryRecords(country string) []models.PolicyRecord {
	return s.recordsAt(s.ByCountry[country])
}

// AreaRecords returns the records for a canonical policy-area name.
func (s *Snapshot) AreaRecords(area string) []models.PolicyRecord {
	return s.recordsAt(s.ByArea[area])
}

func (s *Snapshot) recordsAt(indexes []int) []models.PolicyRecord {
	if len(indexes) == 0 {
		return nil
	}
	records := make([]models.PolicyRecord, 0, len(indexes))
	for _, i := range indexes {
		records = append(records, s.Records[i])
	}
	return records
}

// Age returns how long ago the snapshot was fetched.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}
