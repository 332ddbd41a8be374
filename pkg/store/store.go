package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-selectors/internal/clone"
)

var ErrNilTransform = errors.New("store: transform is required")

// Meta is container-owned metadata describing the current snapshot revision.
type Meta struct {
	RevisionID string    `json:"revision_id,omitempty"`
	Version    uint64    `json:"version,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// Source is the read-only accessor the selector engine consumes. A Store is
// a Source; tests can substitute fixture implementations.
type Source[S any] interface {
	State() S
}

// Listener receives the new snapshot and its revision after a transition.
type Listener[S any] func(snapshot S, meta Meta)

// Store holds the current immutable snapshot for one state domain.
type Store[S any] struct {
	mu        sync.RWMutex
	snapshot  S
	meta      Meta
	listeners map[int]Listener[S]
	nextID    int
}

// New constructs a store seeded with initial. The value is deep-cloned so
// the caller retains no mutable reference into stored state.
func New[S any](initial S) *Store[S] {
	s := &Store[S]{listeners: map[int]Listener[S]{}}
	s.snapshot = clone.Clone(initial)
	s.meta = nextMeta(Meta{})
	return s
}

// State returns the current snapshot. The returned reference is stable
// between transitions: repeated calls yield the identical value until
// Replace or Update swaps it.
func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Meta returns the revision metadata for the current snapshot.
func (s *Store[S]) Meta() Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// Replace swaps the snapshot wholesale and notifies listeners. The incoming
// value is deep-cloned before it is stored.
func (s *Store[S]) Replace(next S) Meta {
	s.mu.Lock()
	s.snapshot = clone.Clone(next)
	s.meta = nextMeta(s.meta)
	snapshot, meta := s.snapshot, s.meta
	listeners := s.cloneListeners()
	s.mu.Unlock()

	notify(listeners, snapshot, meta)
	return meta
}

// Update derives the next snapshot by applying a pure transform to the
// current one, then swaps and notifies as Replace does. The transform
// receives a deep clone and must not retain references into it.
func (s *Store[S]) Update(fn func(S) S) (Meta, error) {
	if fn == nil {
		return Meta{}, ErrNilTransform
	}
	s.mu.Lock()
	next := fn(clone.Clone(s.snapshot))
	s.snapshot = clone.Clone(next)
	s.meta = nextMeta(s.meta)
	snapshot, meta := s.snapshot, s.meta
	listeners := s.cloneListeners()
	s.mu.Unlock()

	notify(listeners, snapshot, meta)
	return meta, nil
}

// Subscribe registers a listener invoked synchronously after each
// transition. The returned func removes the listener.
func (s *Store[S]) Subscribe(fn Listener[S]) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = map[int]Listener[S]{}
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store[S]) cloneListeners() []Listener[S] {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]Listener[S], 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func notify[S any](listeners []Listener[S], snapshot S, meta Meta) {
	for _, fn := range listeners {
		if fn != nil {
			fn(snapshot, meta)
		}
	}
}

func nextMeta(prev Meta) Meta {
	return Meta{
		RevisionID: uuid.NewString(),
		Version:    prev.Version + 1,
		UpdatedAt:  time.Now(),
	}
}
