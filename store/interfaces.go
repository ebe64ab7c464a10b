package store

import "github.com/oklog/ulid/v2"

// Listener receives store values.
type Listener[T any] interface {
	Notify(value T)
}

// ListenerFunc adapts a plain function into a Listener.
type ListenerFunc[T any] func(T)

// Notify calls f with value.
func (f ListenerFunc[T]) Notify(value T) {
	if f == nil {
		return
	}
	f(value)
}

// Observable emits change notifications without the value.
// It lets a Derived store depend on sources of different types.
type Observable interface {
	Observe(fn func()) func()
}

// Readable exposes read-only reactive state.
type Readable[T any] interface {
	Observable
	Get() T
	Subscribe(fn func(T)) func()
	SubscribeListener(l Listener[T]) func()
}

// Writable exposes read/write reactive state.
type Writable[T any] interface {
	Readable[T]
	Set(value T) bool
	Update(fn func(T) T) bool
}

// identified listeners are deduplicated by ID within a store.
type identified interface {
	ID() ulid.ULID
}

// tracker listeners collect the unsubscribe funcs they are handed.
type tracker interface {
	AddSubscription(unsub func())
}
