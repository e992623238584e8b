// ABOUTME: CorpusCache maintains the atomically-swapped in-memory corpus snapshot
// ABOUTME: Refreshes from the durable store on a timer or explicit trigger; stale-but-available on failure
package corpus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/policyatlas/policyatlas/internal/metrics"
	"github.com/policyatlas/policyatlas/internal/models"
	"github.com/policyatlas/policyatlas/internal/util"
)

// ErrNoSnapshot is returned when the cache has never successfully refreshed.
var ErrNoSnapshot = errors.New("corpus cache has no snapshot yet")

// Fetcher lists the currently approved policy records from the durable store.
type Fetcher interface {
	ListApprovedPolicies(ctx context.Context) ([]models.PolicyRecord, error)
}

// Cache owns the resident snapshot. Readers load it with a single atomic
// pointer read; a refresh in flight is invisible until the swap.
type Cache struct {
	fetcher  Fetcher
	ttl      time.Duration
	snapshot atomic.Pointer[Snapshot]
}

// Status describes the resident snapshot for the maintenance surface.
type Status struct {
	Loaded        bool      `json:"loaded"`
	RecordCount   int       `json:"record_count"`
	CountryCount  int       `json:"country_count"`
	AreaCount     int       `json:"area_count"`
	LastRefreshed time.Time `json:"last_refreshed,omitempty"`
}

// New creates a cache over the given fetcher. ttl governs staleness only;
// refresh happens via Run or explicit Refresh calls.
func New(fetcher Fetcher, ttl time.Duration) *Cache {
	return &Cache{fetcher: fetcher, ttl: ttl}
}

// Refresh fetches the corpus and atomically swaps in a new snapshot. On
// failure the previous snapshot stays resident.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	records, err := c.fetcher.ListApprovedPolicies(ctx)
	if err != nil {
		metrics.CacheRefreshes.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("corpus fetch failed: %w", err)
	}

	snap := BuildSnapshot(records, time.Now().UTC())
	c.snapshot.Store(snap)

	metrics.CacheRefreshes.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.CorpusRecords.Set(float64(len(snap.Records)))
	return snap, nil
}

// Current returns the resident snapshot without blocking. May be nil before
// the first successful refresh.
func (c *Cache) Current() *Snapshot {
	return c.snapshot.Load()
}

// Ensure returns the resident snapshot, refreshing first when none is loaded
// or the TTL has elapsed. A failed refresh over a stale-but-loaded snapshot
// degrades to the stale data.
func (c *Cache) Ensure(ctx context.Context) (*Snapshot, error) {
	snap := c.snapshot.Load()
	if snap != nil && !c.expired(snap) {
		return snap, nil
	}

	fresh, err := c.Refresh(ctx)
	if err != nil {
		if snap != nil {
			log.Printf("corpus refresh failed, serving stale snapshot (age %s): %v", snap.Age().Round(time.Second), err)
			return snap, nil
		}
		return nil, err
	}
	return fresh, nil
}

// Stale reports whether the resident snapshot is missing or older than the TTL.
func (c *Cache) Stale() bool {
	snap := c.snapshot.Load()
	return snap == nil || c.expired(snap)
}

func (c *Cache) expired(snap *Snapshot) bool {
	return c.ttl > 0 && snap.Age() > c.ttl
}

// Status reports counts for the maintenance surface.
func (c *Cache) Status() Status {
	snap := c.snapshot.Load()
	if snap == nil {
		return Status{}
	}
	return Status{
		Loaded:        true,
		RecordCount:   len(snap.Records),
		CountryCount:  len(snap.Countries),
		AreaCount:     len(snap.Areas),
		LastRefreshed: snap.FetchedAt,
	}
}

// Run refreshes on the given interval until the context is cancelled.
// Consecutive failures back off exponentially instead of hammering the store.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	failures := 0
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if _, err := c.Refresh(ctx); err != nil {
			failures++
			delay := util.CalculateBackoff(time.Second, failures)
			if delay > interval {
				delay = interval
			}
			log.Printf("corpus refresh failed (attempt %d, retrying in %s): %v", failures, delay.Round(time.Millisecond), err)
			timer.Reset(delay)
			continue
		}

		failures = 0
		timer.Reset(interval)
	}
}
