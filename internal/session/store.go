package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps per-visitor values in memory with a sliding expiry. It backs
// form sessions and popup state; nothing in it survives a restart.
type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]*entry[T]
	ttl   time.Duration
	now   func() time.Time
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// NewStore creates a store whose entries expire ttl after their last use.
func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		items: make(map[string]*entry[T]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// NewID returns a fresh random session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an identifier issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Put stores value under id, replacing any previous value.
func (s *Store[T]) Put(id string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = &entry[T]{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Get returns the value stored under id and extends its expiry.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, ok := s.items[id]
	if !ok {
		return zero, false
	}
	now := s.now()
	if now.After(e.expiresAt) {
		delete(s.items, id)
		return zero, false
	}
	e.expiresAt = now.Add(s.ttl)
	return e.value, true
}

// GetOrCreate returns the value under id, storing create() first when there
// is none.
func (s *Store[T]) GetOrCreate(id string, create func() T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.items[id]; ok && !now.After(e.expiresAt) {
		e.expiresAt = now.Add(s.ttl)
		return e.value
	}
	v := create()
	s.items[id] = &entry[T]{value: v, expiresAt: now.Add(s.ttl)}
	return v
}

// Delete removes id from the store.
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
}

// Len returns the number of stored entries, expired or not.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// CleanupExpired removes expired entries and returns how many were dropped.
func (s *Store[T]) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.items {
		if now.After(e.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// RunJanitor calls CleanupExpired every interval until ctx is done.
func (s *Store[T]) RunJanitor(ctx context.Context, interval time.Duration, onSweep func(removed, remaining int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.CleanupExpired()
			if onSweep != nil {
				onSweep(removed, s.Len())
			}
		}
	}
}

// Values is a small concurrency-safe key/value bag scoped to one visitor.
type Values struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewValues returns an empty bag.
func NewValues() *Values {
	return &Values{m: make(map[string]string)}
}

// Get returns the value stored under key.
func (v *Values) Get(key string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	val, ok := v.m[key]
	return val, ok
}

// Set stores value under key.
func (v *Values) Set(key, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.m[key] = value
}
