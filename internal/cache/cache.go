// Package cache provides a durable, TTL-bound key/value store for fetched
// issue payloads and search results. Entries past their TTL, and entries
// that no longer parse, read as plain misses rather than errors.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultTTL applies when a caller does not override the time-to-live.
const DefaultTTL = time.Hour

// entry is the persisted envelope around a cached payload.
type entry struct {
	Payload    json.RawMessage `json:"payload"`
	FetchedAt  time.Time       `json:"fetchedAt"`
	TTLSeconds int64           `json:"ttlSeconds"`
}

func (e *entry) expired(now time.Time) bool {
	if e.TTLSeconds <= 0 {
		return true
	}
	return now.Sub(e.FetchedAt) > time.Duration(e.TTLSeconds)*time.Second
}

// Stats summarizes cache contents for the management surface. Expired
// entries still on disk count toward both totals.
type Stats struct {
	TotalEntries   int   `json:"totalEntries"`
	ExpiredEntries int   `json:"expiredEntries"`
	SizeBytes      int64 `json:"sizeBytes"`

	PerBucket map[string]BucketStats `json:"buckets"`
}

// BucketStats is the per-namespace breakdown inside Stats.
type BucketStats struct {
	Entries int `json:"entries"`
	Expired int `json:"expired"`
}

// Cache layers key sanitization, TTL expiry and corruption tolerance over a
// Store backend. It is safe for concurrent use and carries no global state;
// callers receive an instance and own its lifecycle.
type Cache struct {
	store      Store
	defaultTTL time.Duration

	// now is swappable for expiry tests.
	now func() time.Time
}

// New wraps store with the TTL-bound cache contract. A non-positive
// defaultTTL falls back to DefaultTTL.
func New(store Store, defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{store: store, defaultTTL: defaultTTL, now: time.Now}
}

// Get returns the cached payload for key. The second return is false on a
// miss: no entry, an expired entry, or an entry that no longer parses.
// Expired and corrupt entries are lazily purged. The only errors returned
// are key sanitization failures.
func (c *Cache) Get(ctx context.Context, bucket Bucket, key string) ([]byte, bool, error) {
	if err := validBucket(bucket); err != nil {
		return nil, false, err
	}
	safe, err := SanitizeKey(key)
	if err != nil {
		return nil, false, err
	}

	data, err := c.store.Read(ctx, bucket, safe)
	if err != nil {
		// Unreadable entries are indistinguishable from absent ones.
		return nil, false, nil
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = c.store.Delete(ctx, bucket, safe)
		return nil, false, nil
	}
	if e.expired(c.now()) {
		_ = c.store.Delete(ctx, bucket, safe)
		return nil, false, nil
	}
	return e.Payload, true, nil
}

// Put replaces the entry for key wholesale. A non-positive ttl uses the
// cache default.
func (c *Cache) Put(ctx context.Context, bucket Bucket, key string, payload []byte, ttl time.Duration) error {
	if err := validBucket(bucket); err != nil {
		return err
	}
	safe, err := SanitizeKey(key)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(entry{
		Payload:    json.RawMessage(payload),
		FetchedAt:  c.now().UTC(),
		TTLSeconds: int64(ttl / time.Second),
	})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	return c.store.Write(ctx, bucket, safe, data)
}

// Clear removes every entry and reports how many were removed.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	return c.store.Clear(ctx)
}

// ClearExpired removes only entries past their TTL, plus any that no
// longer parse, and reports how many were removed.
func (c *Cache) ClearExpired(ctx context.Context) (int, error) {
	now := c.now()
	type victim struct {
		bucket Bucket
		key    string
	}
	var victims []victim
	err := c.store.Walk(ctx, func(bucket Bucket, key string, _ int64, data []byte) error {
		var e entry
		if err := json.Unmarshal(data, &e); err != nil || e.expired(now) {
			victims = append(victims, victim{bucket, key})
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, v := range victims {
		if err := c.store.Delete(ctx, v.bucket, v.key); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats walks the store and reports entry counts, expired counts and
// approximate size in bytes, overall and per bucket.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	now := c.now()
	stats := Stats{PerBucket: make(map[string]BucketStats)}
	for _, b := range Buckets {
		stats.PerBucket[string(b)] = BucketStats{}
	}

	err := c.store.Walk(ctx, func(bucket Bucket, _ string, size int64, data []byte) error {
		bs := stats.PerBucket[string(bucket)]
		bs.Entries++
		stats.TotalEntries++
		stats.SizeBytes += size

		var e entry
		if err := json.Unmarshal(data, &e); err != nil || e.expired(now) {
			bs.Expired++
			stats.ExpiredEntries++
		}
		stats.PerBucket[string(bucket)] = bs
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// Close releases the underlying store.
func (c *Cache) Close() error { return c.store.Close() }
