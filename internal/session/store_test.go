package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*Store[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := NewStore[string](ttl)
	s.now = clock.Now
	return s, clock
}

func TestStorePutGet(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	s.Put("a", "one")
	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "one", v)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	s.Put("a", "one")

	clock.Advance(30 * time.Second)
	_, ok := s.Get("a")
	require.True(t, ok, "entry should still be alive")

	// Get slid the expiry forward.
	clock.Advance(45 * time.Second)
	_, ok = s.Get("a")
	require.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok = s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStoreGetOrCreate(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	calls := 0
	create := func() string {
		calls++
		return "fresh"
	}

	assert.Equal(t, "fresh", s.GetOrCreate("a", create))
	assert.Equal(t, "fresh", s.GetOrCreate("a", create))
	assert.Equal(t, 1, calls)

	clock.Advance(2 * time.Minute)
	s.GetOrCreate("a", create)
	assert.Equal(t, 2, calls)
}

func TestStoreCleanupExpired(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	s.Put("old", "x")
	clock.Advance(50 * time.Second)
	s.Put("new", "y")
	clock.Advance(20 * time.Second)

	assert.Equal(t, 1, s.CleanupExpired())
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("new")
	assert.True(t, ok)
}

func TestStoreRunJanitorStopsOnCancel(t *testing.T) {
	s := NewStore[string](time.Nanosecond)
	s.Put("a", "x")

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 16)
	done := make(chan struct{})
	go func() {
		s.RunJanitor(ctx, time.Millisecond, func(removed, _ int) {
			select {
			case swept <- removed:
			default:
			}
		})
		close(done)
	}()

	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("janitor never swept")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
	assert.Equal(t, 0, s.Len())
}

func TestIDs(t *testing.T) {
	id := NewID()
	assert.True(t, ValidID(id))
	assert.NotEqual(t, id, NewID())
	assert.False(t, ValidID("../etc/passwd"))
}

func TestValues(t *testing.T) {
	v := NewValues()
	_, ok := v.Get("k")
	assert.False(t, ok)

	v.Set("k", "1")
	got, ok := v.Get("k")
	require.True(t, ok)
	assert.Equal(t, "1", got)
}
