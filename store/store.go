// Package store provides minimal reactive value containers: readable,
// writable and derived stores with synchronous change notification and a
// start/stop hook tied to the subscriber count.
//
// Stores are meant to be driven from a single goroutine. Internal state is
// locked, but the lock is never held while listeners run, so notification
// order across goroutines is not defined.
package store

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"
)

const (
	kindReadable = "Readable"
	kindWritable = "Writable"
	kindDerived  = "Derived"
)

type entry[T any] struct {
	key      ulid.ULID
	listener Listener[T]
	gen      uint64
}

// Store holds a value and notifies subscribers whenever a value is published.
type Store[T any] struct {
	mu       sync.Mutex
	kind     string
	name     string
	value    T
	subs     map[ulid.ULID]entry[T]
	gen      uint64
	start    StartFunc[T]
	stop     func()
	active   bool
	epoch    uint64
	equal    EqualFunc[T]
	maxDepth int
	depth    int
}

var _ Readable[int] = (*Store[int])(nil)

// NewReadable creates a store that only changes through its start hook.
func NewReadable[T any](initial T, start StartFunc[T], opts ...Option[T]) *Store[T] {
	s := newStore(kindReadable, initial, opts)
	if start != nil {
		s.start = start
	}
	return s
}

func newStore[T any](kind string, initial T, opts []Option[T]) *Store[T] {
	cfg := applyOptions(opts)
	return &Store[T]{
		kind:     kind,
		name:     cfg.name,
		value:    initial,
		start:    cfg.start,
		equal:    cfg.equal,
		maxDepth: cfg.maxDepth,
	}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	if s == nil {
		var zero T
		return zero
	}
	s.mu.Lock()
	value := s.value
	s.mu.Unlock()
	return value
}

// Subscribe registers fn and immediately calls it with the current value.
func (s *Store[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	return s.SubscribeListener(ListenerFunc[T](fn))
}

// Observe registers fn for change notifications, ignoring the value.
func (s *Store[T]) Observe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return s.SubscribeListener(ListenerFunc[T](func(T) { fn() }))
}

// SubscribeListener registers l and immediately notifies it with the
// current value. Listeners carrying an ID are added at most once. The first
// subscriber runs the start hook. The returned func removes l; calling it
// again is a no-op.
func (s *Store[T]) SubscribeListener(l Listener[T]) func() {
	if s == nil || l == nil {
		return func() {}
	}
	key := listenerKey(l)

	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[ulid.ULID]entry[T])
	}
	e, exists := s.subs[key]
	if !exists {
		s.gen++
		e = entry[T]{key: key, listener: l, gen: s.gen}
		s.subs[key] = e
	}
	activate := !s.active
	var epoch uint64
	if activate {
		s.active = true
		s.epoch++
		epoch = s.epoch
	}
	value := s.value
	s.mu.Unlock()

	unsub := s.unsubscriber(key, e.gen)
	if t, ok := l.(tracker); ok {
		t.AddSubscription(unsub)
	}
	l.Notify(value)
	if activate {
		s.runStart(epoch)
	}
	return unsub
}

// Subscribers returns the number of current subscribers.
func (s *Store[T]) Subscribers() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	n := len(s.subs)
	s.mu.Unlock()
	return n
}

// Active reports whether the store has subscribers and its start hook,
// if any, has run without being stopped.
func (s *Store[T]) Active() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	return active
}

// String renders the store kind and value, e.g. "Writable(3)".
func (s *Store[T]) String() string {
	if s == nil {
		return "<nil>"
	}
	s.mu.Lock()
	kind, value := s.kind, s.value
	s.mu.Unlock()
	return fmt.Sprintf("%s(%v)", kind, value)
}

// publish replaces the value when it differs from the held one and then
// notifies every subscriber, changed or not.
func (s *Store[T]) publish(value T) bool {
	s.mu.Lock()
	if s.maxDepth > 0 && s.depth >= s.maxDepth {
		label := s.labelLocked()
		s.mu.Unlock()
		panic(fmt.Errorf("%s: depth %d: %w", label, s.maxDepth, ErrReentrant))
	}
	changed := !s.equal(s.value, value)
	if changed {
		s.value = value
	}
	subs := s.copySubscribersLocked()
	s.depth++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.depth--
		s.mu.Unlock()
	}()
	for _, e := range subs {
		value, ok := s.currentFor(e)
		if !ok {
			continue
		}
		e.listener.Notify(value)
	}
	return changed
}

// publishFunc is handed to start hooks.
func (s *Store[T]) publishFunc(value T) {
	s.publish(value)
}

func (s *Store[T]) runStart(epoch uint64) {
	s.mu.Lock()
	start := s.start
	live := s.active && s.epoch == epoch
	s.mu.Unlock()
	if start == nil || !live {
		return
	}

	glog.V(2).Infof("%s: start", s.label())
	stop := start(s.publishFunc)

	s.mu.Lock()
	if s.active && s.epoch == epoch {
		s.stop = stop
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	// The last subscriber left while the hook was running.
	if stop != nil {
		stop()
	}
}

func (s *Store[T]) unsubscriber(key ulid.ULID, gen uint64) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			s.remove(key, gen)
		})
	}
}

func (s *Store[T]) remove(key ulid.ULID, gen uint64) {
	s.mu.Lock()
	e, ok := s.subs[key]
	if !ok || e.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.subs, key)
	if len(s.subs) > 0 || !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	stop := s.stop
	s.stop = nil
	label := s.labelLocked()
	s.mu.Unlock()

	if stop == nil {
		return
	}
	glog.V(2).Infof("%s: stop", label)
	stop()
}

func (s *Store[T]) copySubscribersLocked() []entry[T] {
	if len(s.subs) == 0 {
		return nil
	}
	subs := make([]entry[T], 0, len(s.subs))
	for _, e := range s.subs {
		subs = append(subs, e)
	}
	return subs
}

// currentFor returns the latest value if e is still subscribed; listeners
// removed earlier in the same sweep are skipped.
func (s *Store[T]) currentFor(e entry[T]) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.subs[e.key]
	if !ok || cur.gen != e.gen {
		var zero T
		return zero, false
	}
	return s.value, true
}

func (s *Store[T]) label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labelLocked()
}

func (s *Store[T]) labelLocked() string {
	if s.name != "" {
		return s.kind + " " + s.name
	}
	return s.kind
}

func listenerKey[T any](l Listener[T]) ulid.ULID {
	if id, ok := l.(identified); ok {
		return id.ID()
	}
	return ulid.Make()
}
