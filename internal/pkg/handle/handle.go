// Package handle provides a stable indirection cell for replaceable targets.
// Anything that captures a Handle once keeps observing the live target across
// swaps; the handle's identity never changes.
package handle

import "sync/atomic"

// Handle wraps a target that can be replaced without changing the handle
// itself. Swap is total: no error path, and readers racing a swap observe
// either the old or the new target in full, never a partial one.
type Handle[T any] struct {
	target atomic.Pointer[T]
}

// New returns a handle initially pointing at target.
func New[T any](target T) *Handle[T] {
	h := &Handle[T]{}
	h.target.Store(&target)
	return h
}

// Get returns the current target.
func (h *Handle[T]) Get() T {
	return *h.target.Load()
}

// Swap atomically replaces the target.
func (h *Handle[T]) Swap(target T) {
	h.target.Store(&target)
}
