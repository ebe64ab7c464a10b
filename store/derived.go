package store

import (
	"sync"

	"github.com/golang/glog"
)

// Derived is a read-only store computed from other stores. It subscribes
// to its sources on construction and recomputes on every source
// notification until Dispose is called.
type Derived[T any] struct {
	store   *Store[T]
	compute func() T

	mu      sync.Mutex
	unsubs  []func()
	wiring  bool
	stopped bool
}

var _ Readable[int] = (*Derived[int])(nil)

// NewDerived creates a store whose value is compute(), refreshed whenever
// any of sources notifies.
func NewDerived[T any](compute func() T, sources ...Observable) *Derived[T] {
	return NewDerivedWithOptions(nil, compute, sources...)
}

// NewDerivedWithOptions is NewDerived with store options. WithStart is
// ignored; a derived store is driven by its sources.
func NewDerivedWithOptions[T any](opts []Option[T], compute func() T, sources ...Observable) *Derived[T] {
	if compute == nil {
		compute = func() T {
			var zero T
			return zero
		}
	}
	d := &Derived[T]{compute: compute}

	d.wiring = true
	unsubs := make([]func(), 0, len(sources))
	for _, src := range sources {
		if src == nil {
			continue
		}
		if unsub := src.Observe(d.recompute); unsub != nil {
			unsubs = append(unsubs, unsub)
		}
	}

	d.store = newStore(kindDerived, compute(), opts)
	d.store.start = nil

	d.mu.Lock()
	d.unsubs = unsubs
	d.wiring = false
	d.mu.Unlock()
	return d
}

// Derive combines sources of one type with fn.
func Derive[S, T any](fn func(values []S) T, sources ...Readable[S]) *Derived[T] {
	deps := make([]Observable, 0, len(sources))
	for _, src := range sources {
		if src != nil {
			deps = append(deps, src)
		}
	}
	return NewDerived(func() T {
		values := make([]S, len(sources))
		for i, src := range sources {
			if src != nil {
				values[i] = src.Get()
			}
		}
		return fn(values)
	}, deps...)
}

// Derive2 combines two sources with fn.
func Derive2[A, B, T any](a Readable[A], b Readable[B], fn func(A, B) T) *Derived[T] {
	return NewDerived(func() T {
		return fn(a.Get(), b.Get())
	}, a, b)
}

// Derive3 combines three sources with fn.
func Derive3[A, B, C, T any](a Readable[A], b Readable[B], c Readable[C], fn func(A, B, C) T) *Derived[T] {
	return NewDerived(func() T {
		return fn(a.Get(), b.Get(), c.Get())
	}, a, b, c)
}

// Get returns the current computed value.
func (d *Derived[T]) Get() T {
	if d == nil {
		var zero T
		return zero
	}
	return d.store.Get()
}

// Subscribe registers fn and immediately calls it with the current value.
func (d *Derived[T]) Subscribe(fn func(T)) func() {
	if d == nil {
		return func() {}
	}
	return d.store.Subscribe(fn)
}

// SubscribeListener registers l and immediately notifies it.
func (d *Derived[T]) SubscribeListener(l Listener[T]) func() {
	if d == nil {
		return func() {}
	}
	return d.store.SubscribeListener(l)
}

// Observe registers fn for change notifications.
func (d *Derived[T]) Observe(fn func()) func() {
	if d == nil {
		return func() {}
	}
	return d.store.Observe(fn)
}

// Subscribers returns the number of current subscribers.
func (d *Derived[T]) Subscribers() int {
	if d == nil {
		return 0
	}
	return d.store.Subscribers()
}

func (d *Derived[T]) String() string {
	if d == nil {
		return "<nil>"
	}
	return d.store.String()
}

// Dispose unsubscribes from every source. The value freezes at its last
// computation; existing subscribers stay attached.
func (d *Derived[T]) Dispose() {
	if d == nil {
		return
	}
	d.mu.Lock()
	unsubs := d.unsubs
	d.unsubs = nil
	d.stopped = true
	d.mu.Unlock()
	if len(unsubs) == 0 {
		return
	}
	glog.V(2).Infof("%s: releasing %d sources", d.store.label(), len(unsubs))
	for _, unsub := range unsubs {
		unsub()
	}
}

func (d *Derived[T]) recompute() {
	d.mu.Lock()
	skip := d.wiring || d.stopped
	d.mu.Unlock()
	if skip {
		return
	}
	d.store.publish(d.compute())
}
