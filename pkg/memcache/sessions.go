package mem

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionStore keeps values under a sliding TTL. Every successful Get pushes
// the expiry out again. The evict callback runs when an entry expires or is
// deleted, never when it is overwritten.
type SessionStore[V any] struct {
	items *cache.Cache
	ttl   time.Duration

	// deleteMu pairs the lookup and removal in Delete.
	deleteMu sync.Mutex
}

func NewSessionStore[V any](ttl time.Duration, onEvict func(id string, v V)) *SessionStore[V] {
	cleanup := ttl / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}
	c := cache.New(ttl, cleanup)
	if onEvict != nil {
		c.OnEvicted(func(id string, raw interface{}) {
			if v, ok := raw.(V); ok {
				onEvict(id, v)
			}
		})
	}
	return &SessionStore[V]{items: c, ttl: ttl}
}

func (s *SessionStore[V]) Put(id string, v V) {
	s.items.Set(id, v, s.ttl)
}

func (s *SessionStore[V]) Get(id string) (V, bool) {
	var zero V
	raw, ok := s.items.Get(id)
	if !ok {
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		return zero, false
	}
	// Replace fails if the entry expired in between, which is fine.
	_ = s.items.Replace(id, v, s.ttl)
	return v, true
}

// Delete removes the entry and fires the evict callback. Reports whether it existed.
func (s *SessionStore[V]) Delete(id string) bool {
	s.deleteMu.Lock()
	defer s.deleteMu.Unlock()
	if _, ok := s.items.Get(id); !ok {
		return false
	}
	s.items.Delete(id)
	return true
}

func (s *SessionStore[V]) Len() int {
	return s.items.ItemCount()
}

// DeleteAll evicts every entry, firing the callback for each.
func (s *SessionStore[V]) DeleteAll() {
	for id := range s.items.Items() {
		s.items.Delete(id)
	}
}
