package service

import (
	"sort"
	"sync"
)

// LockManager serializes mutations per account. Multi-account operations
// (an investment touching investor and referrer) take all locks in ascending
// id order, so overlapping lock sets cannot deadlock. Mutexes are retained
// for the life of the process; the map is bounded by the user population.
type LockManager struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[int64]*sync.Mutex)}
}

func (m *LockManager) get(id int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// Lock acquires the mutexes for the given account ids (deduplicated, in
// ascending order) and returns the release function.
func (m *LockManager) Lock(ids ...int64) (unlock func()) {
	uniq := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	held := make([]*sync.Mutex, 0, len(uniq))
	for _, id := range uniq {
		l := m.get(id)
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
