package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closer struct{ closed bool }

func (c *closer) Close() error {
	c.closed = true
	return nil
}

func TestRegistry_CreateLookup(t *testing.T) {
	r := NewRegistry[string]()

	id, handle := r.Create("transport-a")
	require.NotEmpty(t, id)
	assert.Equal(t, "transport-a", handle)

	got, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "transport-a", got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_UniqueIDs(t *testing.T) {
	r := NewRegistry[int]()
	seen := map[string]bool{}
	for i := range 100 {
		id, _ := r.Create(i)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, 100, r.Len())
}

func TestRegistry_CollidingGeneratorIsRetried(t *testing.T) {
	r := NewRegistry[int]()
	ids := []string{"same", "same", "other"}
	r.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, _ := r.Create(1)
	second, _ := r.Create(2)

	assert.Equal(t, "same", first)
	assert.Equal(t, "other", second)
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	r := NewRegistry[string]()
	id, _ := r.Create("x")

	r.Remove(id)
	r.Remove(id)
	r.Remove("never-existed")

	_, ok := r.Lookup(id)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewRegistry[*closer]()
	h, ok := r.Lookup("missing")
	assert.False(t, ok)
	assert.Nil(t, h)
}

func TestRegistry_CreateWith(t *testing.T) {
	r := NewRegistry[string]()

	var seenID string
	id, handle, err := r.CreateWith(func(id string) (string, error) {
		seenID = id
		_, visible := r.Lookup(id)
		assert.False(t, visible, "handle must not be visible before build returns")
		return "built-" + id, nil
	})
	require.NoError(t, err)
	assert.Equal(t, seenID, id)
	assert.Equal(t, "built-"+id, handle)

	got, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, handle, got)
}

func TestRegistry_CreateWithError(t *testing.T) {
	r := NewRegistry[string]()

	_, _, err := r.CreateWith(func(string) (string, error) {
		return "", errors.New("connect failed")
	})
	require.Error(t, err)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.reserved)
}

func TestRegistry_CloseAll(t *testing.T) {
	r := NewRegistry[*closer]()
	a, b := &closer{}, &closer{}
	r.Create(a)
	r.Create(b)

	r.CloseAll()

	assert.True(t, a.closed)
	assert.True(t, b.closed)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ConcurrentSessions(t *testing.T) {
	r := NewRegistry[string]()

	var wg sync.WaitGroup
	ids := make([]string, 50)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i], _ = r.Create(fmt.Sprintf("handle-%d", i))
		}()
	}
	wg.Wait()

	for i, id := range ids {
		got, ok := r.Lookup(id)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("handle-%d", i), got)
	}

	for _, id := range ids[:25] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Remove(id)
		}()
	}
	wg.Wait()

	assert.Equal(t, 25, r.Len())
	assert.ElementsMatch(t, ids[25:], r.IDs())
}
