package session

import (
	"sort"
	"sync"
)

// HashSet is a grow-only set of transaction hashes. The scheduler feeds it
// from a single goroutine; the lock keeps concurrent readers safe.
type HashSet struct {
	mu     sync.RWMutex
	hashes map[string]struct{}
}

// NewHashSet creates an empty hash set.
func NewHashSet() *HashSet {
	return &HashSet{
		hashes: make(map[string]struct{}),
	}
}

// Add inserts the given hashes and reports how many were not seen before.
func (s *HashSet) Add(hashes []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, h := range hashes {
		if _, ok := s.hashes[h]; ok {
			continue
		}
		s.hashes[h] = struct{}{}
		added++
	}
	return added
}

// Contains reports whether the hash was accumulated.
func (s *HashSet) Contains(hash string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hashes[hash]
	return ok
}

// Len returns the number of unique hashes.
func (s *HashSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hashes)
}

// Values returns the unique hashes in ascending order.
func (s *HashSet) Values() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([]string, 0, len(s.hashes))
	for h := range s.hashes {
		values = append(values, h)
	}
	sort.Strings(values)
	return values
}
