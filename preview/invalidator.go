package preview

import (
	"sync/atomic"

	"github.com/odvcencio/furry-store/store"
)

// Invalidator coalesces redraw requests until the next Reset.
type Invalidator struct {
	post    func() bool
	pending atomic.Bool
}

// NewInvalidator creates an invalidator wired to a post function.
// post reports whether the request was delivered.
func NewInvalidator(post func() bool) *Invalidator {
	return &Invalidator{post: post}
}

// Invalidate requests a redraw unless one is already pending.
func (i *Invalidator) Invalidate() {
	if i == nil || i.post == nil {
		return
	}
	if i.pending.CompareAndSwap(false, true) {
		if !i.post() {
			i.pending.Store(false)
		}
	}
}

// Reset marks the pending redraw as handled.
func (i *Invalidator) Reset() {
	if i == nil {
		return
	}
	i.pending.Store(false)
}

// Watch invalidates whenever any source notifies. The returned func
// detaches from every source.
func (i *Invalidator) Watch(sources ...store.Observable) func() {
	unsubs := make([]func(), 0, len(sources))
	for _, src := range sources {
		if src != nil {
			unsubs = append(unsubs, src.Observe(i.Invalidate))
		}
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
