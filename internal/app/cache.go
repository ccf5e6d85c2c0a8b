package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"costafeed/internal/adapters/observability"
	"costafeed/internal/domain"
	"costafeed/internal/feeds"
)

// Snapshot is one immutable, fully-built view of the combined feeds. A new
// snapshot atomically replaces the previous one; readers always see either
// the whole old collection or the whole new one.
type Snapshot struct {
	Properties []domain.Property
	FetchedAt  time.Time

	byID  map[string]int
	byRef map[string]int
}

func newSnapshot(props []domain.Property, at time.Time) *Snapshot {
	s := &Snapshot{
		Properties: props,
		FetchedAt:  at,
		byID:       make(map[string]int, len(props)),
		byRef:      make(map[string]int, len(props)),
	}
	for i, p := range props {
		s.byID[p.ID] = i
		s.byRef[strings.ToUpper(p.Reference)] = i
	}
	return s
}

func (s *Snapshot) ByID(id string) (domain.Property, bool) {
	if i, ok := s.byID[id]; ok {
		return s.Properties[i], true
	}
	return domain.Property{}, false
}

// ByReference looks up the feed-native reference, case-insensitively.
func (s *Snapshot) ByReference(ref string) (domain.Property, bool) {
	if i, ok := s.byRef[strings.ToUpper(strings.TrimSpace(ref))]; ok {
		return s.Properties[i], true
	}
	return domain.Property{}, false
}

// Cache holds the most recent snapshot and decides when to rebuild it. It is
// an explicit, injectable object — construct one per process (or per test)
// and hand it to the query service; there is no package-level state.
type Cache struct {
	adapters []feeds.Adapter // in dedup priority order, primary first
	ttl      time.Duration
	log      zerolog.Logger
	clock    func() time.Time

	mu   sync.RWMutex
	snap *Snapshot

	group singleflight.Group
}

// NewCache builds a cache over the given adapters. Adapter order is the
// dedup source-priority order. TTL <= 0 falls back to one hour.
func NewCache(ttl time.Duration, log zerolog.Logger, adapters ...feeds.Adapter) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		adapters: adapters,
		ttl:      ttl,
		log:      log.With().Str("component", "cache").Logger(),
		clock:    time.Now,
	}
}

func (c *Cache) current() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Cache) fresh(s *Snapshot) bool {
	return s != nil && c.clock().Sub(s.FetchedAt) < c.ttl
}

// Snapshot returns the current snapshot, refreshing first when the cache is
// empty or the snapshot has outlived its TTL. Concurrent callers hitting a
// stale cache share a single in-flight refresh instead of each fetching the
// feeds themselves.
func (c *Cache) Snapshot(ctx context.Context) *Snapshot {
	if s := c.current(); c.fresh(s) {
		observability.ObserveCache("hit")
		return s
	}
	observability.ObserveCache("stale")
	return c.Refresh(ctx, false)
}

// Refresh runs the fetch → normalize → dedupe → swap pipeline. force skips
// the freshness re-check that lets late arrivals reuse a refresh that just
// finished. On total feed failure the previous snapshot keeps serving; only
// when nothing was ever fetched does an empty snapshot come back.
func (c *Cache) Refresh(ctx context.Context, force bool) *Snapshot {
	v, _, _ := c.group.Do("refresh", func() (any, error) {
		if !force {
			if s := c.current(); c.fresh(s) {
				return s, nil
			}
		}
		return c.rebuild(ctx), nil
	})
	return v.(*Snapshot)
}

func (c *Cache) rebuild(ctx context.Context) *Snapshot {
	observability.ObserveCache("refresh")
	start := c.clock()

	// Both fetches run concurrently; normalization waits for both to finish
	// or fail. Adapters degrade to empty slices, so the join never errors.
	batches := make([][]feeds.Record, len(c.adapters))
	var wg sync.WaitGroup
	for i, ad := range c.adapters {
		wg.Add(1)
		go func(i int, ad feeds.Adapter) {
			defer wg.Done()
			batches[i] = ad.Fetch(ctx)
		}(i, ad)
	}
	wg.Wait()

	at := c.clock()
	normalized := make([][]domain.Property, len(batches))
	total := 0
	for i, recs := range batches {
		props := make([]domain.Property, 0, len(recs))
		for _, rec := range recs {
			props = append(props, Normalize(rec, at))
		}
		normalized[i] = props
		total += len(props)
	}

	if total == 0 {
		observability.IncRefreshFailure()
		if prev := c.current(); prev != nil {
			c.log.Error().Time("previous", prev.FetchedAt).Msg("refresh produced no records, serving previous snapshot")
			return prev
		}
		c.log.Error().Msg("refresh produced no records and no previous snapshot exists")
		empty := newSnapshot(nil, at)
		c.swap(empty)
		return empty
	}

	deduped := Dedupe(normalized...)
	snap := newSnapshot(deduped, at)
	c.swap(snap)

	c.log.Info().
		Int("records", total).
		Int("unique", len(deduped)).
		Dur("took", c.clock().Sub(start)).
		Msg("snapshot refreshed")
	return snap
}

func (c *Cache) swap(s *Snapshot) {
	observability.ObserveCache("swap")
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}
