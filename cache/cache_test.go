package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key(ListParams{Page: 2, Limit: 20, Category: "design", SortBy: "created_at", SortOrder: "asc", AuthorID: "u1"})
	b := Key(ListParams{Page: 2, Limit: 20, Category: "design", SortBy: "created_at", SortOrder: "asc", AuthorID: "u1"})
	assert.Equal(t, a, b)
}

func TestKeyDefaultSubstitution(t *testing.T) {
	// Absent values and their explicit defaults are the same logical query.
	assert.Equal(t, Key(ListParams{}), Key(ListParams{Page: 1, Limit: 10, Category: "all", SortBy: "created_at", SortOrder: "desc", AuthorID: "all"}))
}

func TestKeyDistinctQueriesDoNotCollide(t *testing.T) {
	seen := map[string]ListParams{}
	variants := []ListParams{
		{},
		{Page: 2},
		{Limit: 20},
		{Category: "design"},
		{SortBy: "votes"},
		{SortOrder: "asc"},
		{AuthorID: "u1"},
		{Page: 2, Limit: 20},
	}
	for _, p := range variants {
		k := Key(p)
		prev, dup := seen[k]
		require.Falsef(t, dup, "params %+v and %+v collided on key %s", prev, p, k)
		seen[k] = p
	}
}

func TestGetMissOnUnknownKey(t *testing.T) {
	c := New(time.Minute, 100, time.Second)
	entry, state := c.Get("nope", "")
	assert.Nil(t, entry)
	assert.Equal(t, StateMiss, state)
}

func TestTTLExpiry(t *testing.T) {
	c := New(60*time.Second, 100, time.Second)
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Set("k", map[string]int{"v": 1})

	c.now = func() time.Time { return base.Add(59 * time.Second) }
	_, state := c.Get("k", "")
	assert.Equal(t, StateHit, state)

	c.now = func() time.Time { return base.Add(61 * time.Second) }
	entry, state := c.Get("k", "")
	assert.Nil(t, entry)
	assert.Equal(t, StateMiss, state)
	assert.Zero(t, c.Len(), "expired entry should be evicted on read")
}

func TestCapacityEvictsOldestInsertion(t *testing.T) {
	c := New(time.Minute, 100, time.Second)
	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	require.Equal(t, 100, c.Len())

	c.Set("k100", 100)
	assert.Equal(t, 100, c.Len())

	_, state := c.Get("k0", "")
	assert.Equal(t, StateMiss, state, "oldest-inserted entry should be gone")
	for i := 1; i <= 100; i++ {
		_, state := c.Get(fmt.Sprintf("k%d", i), "")
		require.Equalf(t, StateHit, state, "k%d should survive eviction", i)
	}
}

func TestOverwriteKeepsInsertionOrder(t *testing.T) {
	c := New(time.Minute, 2, time.Second)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3) // overwrite, a keeps its original slot as oldest

	c.Set("c", 4)
	_, state := c.Get("a", "")
	assert.Equal(t, StateMiss, state)
	_, state = c.Get("b", "")
	assert.Equal(t, StateHit, state)
}

func TestConditionalGetReturns304State(t *testing.T) {
	c := New(time.Minute, 100, time.Second)
	c.Set("k", map[string]string{"hello": "world"})

	entry, state := c.Get("k", "")
	require.Equal(t, StateHit, state)
	require.NotEmpty(t, entry.ETag)

	_, state = c.Get("k", entry.ETag)
	assert.Equal(t, StateHit304, state)

	_, state = c.Get("k", `"stale-etag"`)
	assert.Equal(t, StateHit, state)
}

func TestSetReturnsStoredETag(t *testing.T) {
	c := New(time.Minute, 100, time.Second)
	etag := c.Set("k", map[string]int{"v": 1})
	entry, _ := c.Get("k", "")
	require.NotEmpty(t, etag)
	assert.Equal(t, entry.ETag, etag)
}

func TestSetUnserializablePayloadStoresNothing(t *testing.T) {
	c := New(time.Minute, 100, time.Second)
	etag := c.Set("k", make(chan int))

	assert.Empty(t, etag)
	entry, state := c.Get("k", "")
	assert.Nil(t, entry)
	assert.Equal(t, StateMiss, state)
	assert.Zero(t, c.Len())
}

func TestETagTracksContent(t *testing.T) {
	c := New(time.Minute, 100, time.Second)
	c.Set("k", map[string]int{"v": 1})
	first, _ := c.Get("k", "")
	c.Set("k", map[string]int{"v": 2})
	second, _ := c.Get("k", "")
	assert.NotEqual(t, first.ETag, second.ETag)
}

func TestClearDropsEverything(t *testing.T) {
	c := New(time.Minute, 100, time.Second)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	assert.Zero(t, c.Len())
}

func TestClearDebouncedCoalesces(t *testing.T) {
	c := New(time.Minute, 100, 20*time.Millisecond)
	c.Set("a", 1)

	c.ClearDebounced()
	c.ClearDebounced()
	c.ClearDebounced()
	assert.Equal(t, 1, c.Len(), "clear must not happen before the debounce interval")

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}
