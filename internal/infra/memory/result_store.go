package memory

import (
	"context"
	"sync"

	"quizshow/internal/app"
)

// ResultStore is an in-memory implementation of app.ResultStore. It keeps the
// newest results per bank up to capacity.
type ResultStore struct {
	capacity int

	mu      sync.RWMutex
	results map[string][]app.Result
}

func NewResultStore(capacity int) *ResultStore {
	if capacity <= 0 {
		capacity = 50
	}
	return &ResultStore{
		capacity: capacity,
		results:  make(map[string][]app.Result),
	}
}

func (s *ResultStore) SaveResult(_ context.Context, r app.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append([]app.Result{r}, s.results[r.Bank]...)
	if len(list) > s.capacity {
		list = list[:s.capacity]
	}
	s.results[r.Bank] = list
	return nil
}

func (s *ResultStore) RecentResults(_ context.Context, bank string, limit int) ([]app.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.results[bank]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return append([]app.Result(nil), list...), nil
}
