package striped

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const DefaultStripes = 16

// Set is a fixed pool of mutexes. Keys map onto stripes by hash, so
// locking a key serializes every key sharing its stripe.
type Set struct {
	stripes []sync.Mutex
}

func New(n int) *Set {
	if n <= 0 {
		n = DefaultStripes
	}

	return &Set{stripes: make([]sync.Mutex, n)}
}

func (s *Set) index(key string) int {
	hash := xxhash.Sum64String(key)
	return int(hash % uint64(len(s.stripes)))
}

// Lock acquires the stripes covering the given keys in ascending stripe
// order, so two callers locking overlapping key sets cannot deadlock.
// The returned function releases them in reverse order.
func (s *Set) Lock(keys ...string) (release func()) {
	seen := make(map[int]bool, len(keys))
	idx := make([]int, 0, len(keys))
	for _, k := range keys {
		i := s.index(k)
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}

	sort.Ints(idx)

	for _, i := range idx {
		s.stripes[i].Lock()
	}

	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			s.stripes[idx[j]].Unlock()
		}
	}
}
