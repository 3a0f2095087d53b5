package handlers

import (
	"sync"

	"zscore-backtest/internal/backtest"
)

// resultStore keeps the most recent backtest results so their ledgers can be
// fetched after the run. The oldest entry is evicted once capacity is reached.
type resultStore struct {
	mu    sync.Mutex
	cap   int
	order []string
	byID  map[string]*backtest.Result
}

func newResultStore(capacity int) *resultStore {
	if capacity <= 0 {
		capacity = 64
	}
	return &resultStore{cap: capacity, byID: make(map[string]*backtest.Result, capacity)}
}

func (s *resultStore) put(id string, res *backtest.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		s.order = append(s.order, id)
	}
	s.byID[id] = res
	for len(s.order) > s.cap {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *resultStore) get(id string) (*backtest.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.byID[id]
	return res, ok
}
