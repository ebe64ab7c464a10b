package store

import "reflect"

// StartFunc is invoked when a store gains its first subscriber. publish
// pushes a value with the same semantics as Writable.Set. The returned
// stop func, if any, runs when the last subscriber leaves.
type StartFunc[T any] func(publish func(T)) func()

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

// Option configures a store at construction.
type Option[T any] func(*options[T])

type options[T any] struct {
	start    StartFunc[T]
	equal    EqualFunc[T]
	maxDepth int
	name     string
}

// WithStart sets the start/stop hook.
func WithStart[T any](start StartFunc[T]) Option[T] {
	return func(o *options[T]) {
		o.start = start
	}
}

// WithEqual replaces the default reflect.DeepEqual comparison used to
// decide whether a published value replaces the held one.
func WithEqual[T any](equal EqualFunc[T]) Option[T] {
	return func(o *options[T]) {
		o.equal = equal
	}
}

// WithMaxDepth bounds how deeply notification sweeps on one store may nest.
// A publish beyond the bound panics with an error wrapping ErrReentrant.
// Zero, the default, leaves recursion unbounded.
func WithMaxDepth[T any](depth int) Option[T] {
	return func(o *options[T]) {
		if depth < 0 {
			depth = 0
		}
		o.maxDepth = depth
	}
}

// WithName labels the store in log output.
func WithName[T any](name string) Option[T] {
	return func(o *options[T]) {
		o.name = name
	}
}

func applyOptions[T any](opts []Option[T]) options[T] {
	var o options[T]
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.equal == nil {
		o.equal = func(a, b T) bool {
			return reflect.DeepEqual(a, b)
		}
	}
	return o
}
