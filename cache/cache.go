package cache

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

// States reported by Get, surfaced to clients via the X-Cache header.
const (
	StateMiss   = "MISS"
	StateHit    = "HIT"
	StateHit304 = "HIT-304"
)

// ListParams identifies a logical post-listing query. Key normalizes and
// orders them so that identical queries collide to the same cache key
// regardless of how the request spelled its parameters.
type ListParams struct {
	Page      int
	Limit     int
	Category  string
	SortBy    string
	SortOrder string
	AuthorID  string
}

// Normalize substitutes defaults for absent values.
func (p ListParams) Normalize() ListParams {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Category == "" {
		p.Category = "all"
	}
	if p.SortBy == "" {
		p.SortBy = "created_at"
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}
	if p.AuthorID == "" {
		p.AuthorID = "all"
	}
	return p
}

// Key builds the deterministic cache key for a listing query.
func Key(p ListParams) string {
	p = p.Normalize()
	return fmt.Sprintf("posts:page=%d:limit=%d:category=%s:sortBy=%s:sortOrder=%s:author=%s",
		p.Page, p.Limit, p.Category, p.SortBy, p.SortOrder, p.AuthorID)
}

// Entry is a cached response snapshot.
type Entry struct {
	Payload  []byte
	ETag     string
	StoredAt time.Time
}

// ResponseCache is a process-local TTL cache for read-query responses.
// It is advisory only: every failure degrades to a miss and the caller is
// expected to fall through to the primary store. Entries are evicted
// individually on TTL expiry, in insertion order when capacity is exceeded,
// and in bulk by Clear/ClearDebounced after writes.
type ResponseCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	debounce time.Duration
	entries  map[string]*Entry
	order    []string

	clearTimer *time.Timer

	// now is swappable for tests.
	now func() time.Time
}

// New creates a ResponseCache. Zero or negative arguments fall back to the
// documented defaults: 60s TTL, 100 entries, 1s clear debounce.
func New(ttl time.Duration, capacity int, debounce time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if capacity <= 0 {
		capacity = 100
	}
	if debounce <= 0 {
		debounce = time.Second
	}
	return &ResponseCache{
		ttl:      ttl,
		capacity: capacity,
		debounce: debounce,
		entries:  make(map[string]*Entry),
		now:      time.Now,
	}
}

// Get returns the entry for key together with a state string. Entries older
// than the TTL are evicted and reported as a miss. When ifNoneMatch equals
// the stored ETag the state is StateHit304 and the caller should answer
// with 304 Not Modified and no body.
func (c *ResponseCache) Get(key, ifNoneMatch string) (*Entry, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, StateMiss
	}
	if c.now().Sub(entry.StoredAt) > c.ttl {
		c.removeLocked(key)
		return nil, StateMiss
	}
	if ifNoneMatch != "" && ifNoneMatch == entry.ETag {
		return entry, StateHit304
	}
	return entry, StateHit
}

// Set stores a response payload under key and returns the computed ETag.
// The payload is serialized to JSON and the ETag derived from its content;
// when serialization fails nothing is stored and the empty ETag is
// returned, so later reads degrade to a miss. Inserting beyond capacity
// evicts the single oldest-inserted entry.
func (c *ResponseCache) Set(key string, payload interface{}) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	etag := computeETag(b)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.capacity && len(c.order) > 0 {
			c.removeLocked(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = &Entry{Payload: b, ETag: etag, StoredAt: c.now()}
	return etag
}

// Clear drops all entries immediately.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	c.order = nil
}

// ClearDebounced schedules a full clear after the debounce interval,
// coalescing bursts of writes into a single clear.
func (c *ResponseCache) ClearDebounced() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clearTimer != nil {
		c.clearTimer.Stop()
	}
	c.clearTimer = time.AfterFunc(c.debounce, c.Clear)
}

// Len returns the number of live entries.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResponseCache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// computeETag returns a short content hash in quoted ETag form.
func computeETag(b []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return fmt.Sprintf("%q", fmt.Sprintf("%x", h.Sum64()))
}
