package catalog

import "sync/atomic"

// Holder owns the current Index and swaps it atomically on reload.
// In-flight requests keep the snapshot they grabbed; there is no point at
// which a reader can observe a half-replaced catalog. No lock is held
// around reads.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder creates a holder seeded with the given index.
func NewHolder(idx *Index) *Holder {
	h := &Holder{}
	h.current.Store(idx)
	return h
}

// Snapshot returns the current index. Callers hold onto the returned
// pointer for the duration of one request.
func (h *Holder) Snapshot() *Index {
	return h.current.Load()
}

// Replace swaps in a freshly built index.
func (h *Holder) Replace(idx *Index) {
	h.current.Store(idx)
}
