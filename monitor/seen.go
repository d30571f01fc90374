package monitor

import (
	"sync"
)

// DefaultSeenCapacity bounds the seen-set so long-running watches do not
// grow memory without limit. When the cap is reached the oldest entries
// are evicted first.
const DefaultSeenCapacity = 10000

// SeenSet tracks which comment IDs have already been handled.
// Membership is in-memory only and insertion-ordered so eviction
// removes the oldest entries. Safe for concurrent use.
type SeenSet struct {
	mu       sync.Mutex
	capacity int
	members  map[string]struct{}
	order    []string
}

// NewSeenSet creates a seen-set with the given capacity.
// A capacity of zero or less uses DefaultSeenCapacity.
func NewSeenSet(capacity int) *SeenSet {
	if capacity <= 0 {
		capacity = DefaultSeenCapacity
	}
	return &SeenSet{
		capacity: capacity,
		members:  make(map[string]struct{}),
	}
}

// Contains reports whether the ID has been seen.
func (s *SeenSet) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.members[id]
	return ok
}

// Add marks the ID as seen, evicting the oldest entry when full.
// Adding an already-seen ID is a no-op.
func (s *SeenSet) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; ok {
		return
	}
	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.members, oldest)
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
}

// Len returns the number of tracked IDs.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}
