package store

import (
	"sync"

	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"
)

// Subscriber wraps a callback with a stable identity and remembers every
// subscription it is handed. A store holds a given Subscriber at most once,
// and Dispose releases it from every store it joined.
//
// Go cannot compare funcs, so identity belongs to the wrapper: subscribe
// the same *Subscriber to collapse duplicates.
type Subscriber[T any] struct {
	id ulid.ULID
	fn func(T)

	mu     sync.Mutex
	unsubs []func()
}

var _ Listener[int] = (*Subscriber[int])(nil)

// NewSubscriber wraps fn.
func NewSubscriber[T any](fn func(T)) *Subscriber[T] {
	return &Subscriber[T]{id: ulid.Make(), fn: fn}
}

// ID returns the identity used for deduplication.
func (s *Subscriber[T]) ID() ulid.ULID {
	return s.id
}

// Equal reports whether both wrappers share an identity.
func (s *Subscriber[T]) Equal(other *Subscriber[T]) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.id == other.id
}

// Notify calls the wrapped func.
func (s *Subscriber[T]) Notify(value T) {
	if s == nil || s.fn == nil {
		return
	}
	s.fn(value)
}

// AddSubscription records an unsubscribe func to run on Dispose.
func (s *Subscriber[T]) AddSubscription(unsub func()) {
	if s == nil || unsub == nil {
		return
	}
	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsub)
	s.mu.Unlock()
}

// Subscriptions returns the number of recorded unsubscribe funcs.
func (s *Subscriber[T]) Subscriptions() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	n := len(s.unsubs)
	s.mu.Unlock()
	return n
}

// Dispose unsubscribes from every store. The Subscriber may be reused
// afterwards; a second Dispose without new subscriptions does nothing.
func (s *Subscriber[T]) Dispose() {
	if s == nil {
		return
	}
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	if len(unsubs) == 0 {
		return
	}
	glog.V(3).Infof("subscriber %s: releasing %d subscriptions", s.id, len(unsubs))
	for _, unsub := range unsubs {
		unsub()
	}
}
