// ABOUTME: Tests for the corpus cache and snapshot construction
// ABOUTME: Verifies index integrity, atomic swap behavior, and stale-but-available degradation
package corpus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/policyatlas/policyatlas/internal/models"
)

type fakeFetcher struct {
	mu      sync.Mutex
	records []models.PolicyRecord
	err     error
	calls   int
}

func (f *fakeFetcher) ListApprovedPolicies(ctx context.Context) ([]models.PolicyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.PolicyRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeFetcher) set(records []models.PolicyRecord, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = records
	f.err = err
}

func testRecords() []models.PolicyRecord {
	return []models.PolicyRecord{
		{ID: "p1", Country: "Bangladesh", PolicyArea: "AI Safety", Name: "National AI Policy", ImplementationYear: 2024, Status: models.PolicyStatusApproved},
		{ID: "p2", Country: "Bangladesh", PolicyArea: "Data Protection", Name: "Data Act", ImplementationYear: 2021, Status: models.PolicyStatusApproved},
		{ID: "p3", Country: "United States", PolicyArea: "AI Safety", Name: "AI Executive Order", ImplementationYear: 2023, Status: models.PolicyStatusApproved},
	}
}

func TestBuildSnapshot_Indexes(t *testing.T) {
	snap := BuildSnapshot(testRecords(), time.Now())

	if len(snap.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(snap.Records))
	}
	if got := len(snap.ByCountry["Bangladesh"]); got != 2 {
		t.Errorf("ByCountry[Bangladesh] has %d entries, want 2", got)
	}
	if got := len(snap.ByArea["AI Safety"]); got != 2 {
		t.Errorf("ByArea[AI Safety] has %d entries, want 2", got)
	}

	// Every index entry must point into Records.
	for country, indexes := range snap.ByCountry {
		for _, i := range indexes {
			if i < 0 || i >= len(snap.Records) {
				t.Fatalf("ByCountry[%s] index %d out of range", country, i)
			}
			if snap.Records[i].Country != country {
				t.Errorf("Records[%d].Country = %q, indexed under %q", i, snap.Records[i].Country, country)
			}
		}
	}

	wantCountries := []string{"Bangladesh", "United States"}
	if len(snap.Countries) != len(wantCountries) {
		t.Fatalf("Countries = %v, want %v", snap.Countries, wantCountries)
	}
	for i, c := range wantCountries {
		if snap.Countries[i] != c {
			t.Errorf("Countries[%d] = %q, want %q", i, snap.Countries[i], c)
		}
	}
}

func TestBuildSnapshot_CanonicalizesCasing(t *testing.T) {
	records := []models.PolicyRecord{
		{ID: "p1", Country: "Kenya", PolicyArea: "AI Safety", Name: "A"},
		{ID: "p2", Country: "kenya", PolicyArea: "ai safety", Name: "B"},
	}
	snap := BuildSnapshot(records, time.Now())

	if len(snap.Countries) != 1 {
		t.Fatalf("Countries = %v, want single canonical Kenya", snap.Countries)
	}
	if got := len(snap.ByCountry["Kenya"]); got != 2 {
		t.Errorf("ByCountry[Kenya] has %d entries, want 2 (case-folded)", got)
	}
}

func TestRefresh_SwapsSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{records: testRecords()}
	cache := New(fetcher, time.Hour)

	if cache.Current() != nil {
		t.Fatal("Current() should be nil before first refresh")
	}

	snap, err := cache.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if cache.Current() != snap {
		t.Error("Current() should return the snapshot just built")
	}

	status := cache.Status()
	if !status.Loaded || status.RecordCount != 3 || status.CountryCount != 2 {
		t.Errorf("Status() = %+v, want loaded with 3 records / 2 countries", status)
	}
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{records: testRecords()}
	cache := New(fetcher, time.Hour)

	old, err := cache.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	fetcher.set(nil, errors.New("store down"))
	if _, err := cache.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() should surface the fetch error")
	}

	if cache.Current() != old {
		t.Error("failed refresh must leave the previous snapshot resident")
	}
}

func TestEnsure_ServesStaleOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{records: testRecords()}
	cache := New(fetcher, time.Nanosecond) // everything is immediately stale

	old, err := cache.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	time.Sleep(time.Millisecond)

	fetcher.set(nil, errors.New("store down"))
	snap, err := cache.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v, want stale degradation", err)
	}
	if snap != old {
		t.Error("Ensure() should serve the stale snapshot when refresh fails")
	}
}

func TestEnsure_NoSnapshotAndFetchFails(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("store down")}
	cache := New(fetcher, time.Hour)

	if _, err := cache.Ensure(context.Background()); err == nil {
		t.Error("Ensure() should error when no snapshot exists and fetch fails")
	}
}

func TestCurrent_AtomicUnderConcurrentRefresh(t *testing.T) {
	fetcher := &fakeFetcher{records: testRecords()}
	cache := New(fetcher, time.Hour)
	if _, err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup

	// Writers swap snapshots of alternating sizes.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if i%2 == 0 {
				fetcher.set(testRecords()[:1], nil)
			} else {
				fetcher.set(testRecords(), nil)
			}
			_, _ = cache.Refresh(context.Background())
		}
		close(done)
	}()

	// Readers must always observe an internally consistent snapshot.
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				snap := cache.Current()
				if snap == nil {
					t.Error("Current() = nil after first refresh")
					return
				}
				for _, indexes := range snap.ByCountry {
					for _, i := range indexes {
						if i >= len(snap.Records) {
							t.Errorf("torn snapshot: index %d beyond %d records", i, len(snap.Records))
							return
						}
					}
				}
			}
		}()
	}

	wg.Wait()
}

func TestStale(t *testing.T) {
	fetcher := &fakeFetcher{records: testRecords()}
	cache := New(fetcher, 50*time.Millisecond)

	if !cache.Stale() {
		t.Error("cache with no snapshot should be stale")
	}
	if _, err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if cache.Stale() {
		t.Error("fresh snapshot should not be stale")
	}
	time.Sleep(60 * time.Millisecond)
	if !cache.Stale() {
		t.Error("snapshot past TTL should be stale")
	}
}
