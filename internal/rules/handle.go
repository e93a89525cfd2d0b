package rules

import "sync/atomic"

// Handle publishes the active rule set. Readers fetch the set through
// Current on every lookup, so a Swap from the reload watcher becomes
// visible without synchronizing with in-flight pipeline runs.
type Handle struct {
	ptr atomic.Pointer[Set]
}

// NewHandle wraps a compiled set.
func NewHandle(set *Set) *Handle {
	h := &Handle{}
	h.ptr.Store(set)
	return h
}

// Current returns the active set.
func (h *Handle) Current() *Set {
	return h.ptr.Load()
}

// Swap publishes set as the new active set. The previous set stays valid
// for readers that already hold it.
func (h *Handle) Swap(set *Set) {
	h.ptr.Store(set)
}
