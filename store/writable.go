package store

// WritableStore is a Store that outside callers may assign to.
type WritableStore[T any] struct {
	*Store[T]
}

var _ Writable[int] = (*WritableStore[int])(nil)

// NewWritable creates a writable store with an initial value.
func NewWritable[T any](initial T, opts ...Option[T]) *WritableStore[T] {
	return &WritableStore[T]{Store: newStore(kindWritable, initial, opts)}
}

// Set publishes value to every subscriber. Subscribers are notified even
// when value equals the held one; the result reports whether it changed.
func (w *WritableStore[T]) Set(value T) bool {
	if w == nil || w.Store == nil {
		return false
	}
	return w.publish(value)
}

// Update replaces the value with fn applied to the current one.
// fn runs outside the store lock; Update is not atomic across goroutines.
func (w *WritableStore[T]) Update(fn func(T) T) bool {
	if w == nil || w.Store == nil || fn == nil {
		return false
	}
	return w.Set(fn(w.Get()))
}

// Readonly returns a view of the store without Set and Update.
func (w *WritableStore[T]) Readonly() Readable[T] {
	if w == nil {
		return nil
	}
	return w.Store
}
