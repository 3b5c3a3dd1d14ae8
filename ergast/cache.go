package ergast

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"gridrate-backend/store"
)

const cacheKeyPrefix = "ergast:"

// Per-season TTLs. A strictly past season is immutable history and caches
// long; the current or a future season is still changing and caches short.
// When the season cannot be determined the medium TTL applies.
const (
	CurrentSeasonTTL = 2 * time.Minute
	PastSeasonTTL    = 24 * time.Hour
	UnknownSeasonTTL = 10 * time.Minute
)

type cacheEntry struct {
	ExpiresAt time.Time       `json:"expiresAt"`
	Data      json.RawMessage `json:"data"`
}

// Cache is a read-through cache over a Store. Expiry lives inside the
// entry rather than in the store so an expired entry remains readable: when
// the provider rate-limits, stale data beats no data.
type Cache struct {
	store store.Store

	CurrentTTL time.Duration
	PastTTL    time.Duration
	UnknownTTL time.Duration

	now func() time.Time
}

func NewCache(s store.Store) *Cache {
	return &Cache{
		store:      s,
		CurrentTTL: CurrentSeasonTTL,
		PastTTL:    PastSeasonTTL,
		UnknownTTL: UnknownSeasonTTL,
		now:        time.Now,
	}
}

// TTLFor picks the TTL window for a request about the given season. An
// empty or unparseable season falls back to the conservative medium TTL.
func (c *Cache) TTLFor(season string) time.Duration {
	year, err := strconv.Atoi(season)
	if err != nil || year < 1900 {
		return c.UnknownTTL
	}
	if year >= c.now().Year() {
		return c.CurrentTTL
	}
	return c.PastTTL
}

// Get returns the cached payload for key, whether it is still fresh, and
// whether it exists at all. Store failures are logged and reported as a
// miss.
func (c *Cache) Get(ctx context.Context, key string) (json.RawMessage, bool, bool) {
	raw, ok, err := c.store.Get(ctx, cacheKeyPrefix+key)
	if err != nil {
		log.Println("cache read failed:", err)
		return nil, false, false
	}
	if !ok {
		return nil, false, false
	}
	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		log.Println("dropping corrupt cache entry:", key)
		_ = c.store.Remove(ctx, cacheKeyPrefix+key)
		return nil, false, false
	}
	return entry.Data, c.now().Before(entry.ExpiresAt), true
}

// Put refreshes the entry for key with a new TTL window derived from the
// season. A store failure only costs the caching, so it is logged and
// swallowed.
func (c *Cache) Put(ctx context.Context, key string, data []byte, season string) {
	entry := cacheEntry{
		ExpiresAt: c.now().Add(c.TTLFor(season)),
		Data:      json.RawMessage(data),
	}
	blob, err := json.Marshal(entry)
	if err != nil {
		log.Println("cache encode failed:", err)
		return
	}
	if err := c.store.Set(ctx, cacheKeyPrefix+key, string(blob)); err != nil {
		log.Println("cache write failed:", err)
	}
}
