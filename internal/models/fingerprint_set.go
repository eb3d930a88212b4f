package models

import "sync"

// FingerprintCapacity bounds the set of remembered fingerprints. Eviction is
// oldest-first, so the set always holds the most recently queued content.
const FingerprintCapacity = 500

// FingerprintSet is a bounded ordered set of content fingerprints.
// Insertion order is recency: Snapshot returns most-recent-last, which is
// also the persisted layout.
// Thread-safe: all public methods acquire s.mu internally.
type FingerprintSet struct {
	mu    sync.Mutex
	order []string
	index map[string]struct{}
}

func NewFingerprintSet() *FingerprintSet {
	return &FingerprintSet{
		index: make(map[string]struct{}),
	}
}

func (s *FingerprintSet) Contains(fp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[fp]
	return ok
}

// Add inserts a fingerprint, evicting the oldest entries once over capacity.
// Returns false when the fingerprint was already present (no mutation).
func (s *FingerprintSet) Add(fp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[fp]; ok {
		return false
	}
	s.order = append(s.order, fp)
	s.index[fp] = struct{}{}
	for len(s.order) > FingerprintCapacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.index, oldest)
	}
	return true
}

func (s *FingerprintSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Snapshot returns the fingerprints most-recent-last.
func (s *FingerprintSet) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Restore replaces the set content from a persisted snapshot, keeping only
// the newest FingerprintCapacity entries.
func (s *FingerprintSet) Restore(fps []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if over := len(fps) - FingerprintCapacity; over > 0 {
		fps = fps[over:]
	}
	s.order = make([]string, 0, len(fps))
	s.index = make(map[string]struct{}, len(fps))
	for _, fp := range fps {
		if _, ok := s.index[fp]; ok {
			continue
		}
		s.order = append(s.order, fp)
		s.index[fp] = struct{}{}
	}
}
