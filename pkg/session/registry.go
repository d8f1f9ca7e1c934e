// Package session tracks the live MCP sessions of a streamable HTTP server.
//
// Entries are added when a client initializes and removed when it sends an
// explicit DELETE or its connection closes. There is no idle expiry: a client
// that disappears without closing keeps its entry until the process exits.
package session

import (
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry maps session ids to per-session handles.
type Registry[T any] struct {
	mu       sync.RWMutex
	sessions map[string]T
	reserved map[string]struct{}
	newID    func() string
}

// NewRegistry returns an empty registry that mints ids with uuid.NewString.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		sessions: make(map[string]T),
		reserved: make(map[string]struct{}),
		newID:    uuid.NewString,
	}
}

// Create allocates a fresh id, stores handle under it and returns both.
func (r *Registry[T]) Create(handle T) (string, T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.freshID()
	r.sessions[id] = handle
	return id, handle
}

// CreateWith is like Create but lets build see the id before the handle is
// stored, for transports that must know their session id at construction.
func (r *Registry[T]) CreateWith(build func(id string) (T, error)) (string, T, error) {
	r.mu.Lock()
	id := r.freshID()
	r.reserved[id] = struct{}{}
	r.mu.Unlock()

	handle, err := build(id)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reserved, id)
	if err != nil {
		var zero T
		return "", zero, err
	}
	r.sessions[id] = handle
	return id, handle, nil
}

// freshID must be called with mu held.
func (r *Registry[T]) freshID() string {
	for {
		id := r.newID()
		_, live := r.sessions[id]
		_, pending := r.reserved[id]
		if !live && !pending {
			return id
		}
	}
}

// Lookup returns the handle stored under id.
func (r *Registry[T]) Lookup(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.sessions[id]
	return h, ok
}

// Remove deletes id. Removing an unknown id is a no-op.
func (r *Registry[T]) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of live sessions.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the live session ids in sorted order.
func (r *Registry[T]) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// CloseAll empties the registry, closing every handle that is an io.Closer.
func (r *Registry[T]) CloseAll() {
	r.mu.Lock()
	old := r.sessions
	r.sessions = make(map[string]T)
	r.mu.Unlock()

	for _, h := range old {
		if c, ok := any(h).(io.Closer); ok {
			_ = c.Close()
		}
	}
}
