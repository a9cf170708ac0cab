package catalog

import "sync/atomic"

// Snapshot publishes the current Index. Readers call Current once per
// request and keep using that index even if a reload swaps it meanwhile.
type Snapshot struct {
	current atomic.Pointer[Index]
}

// NewSnapshot returns a snapshot holding idx, or an empty index when idx is nil.
func NewSnapshot(idx *Index) *Snapshot {
	s := &Snapshot{}
	s.Swap(idx)
	return s
}

// Current returns the active index. It is never nil.
func (s *Snapshot) Current() *Index {
	return s.current.Load()
}

// Swap installs idx and returns the previous index.
func (s *Snapshot) Swap(idx *Index) *Index {
	if idx == nil {
		idx = NewIndex(nil)
	}
	return s.current.Swap(idx)
}
