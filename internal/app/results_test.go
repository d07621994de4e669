package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	mu      sync.Mutex
	results []Result
}

func (s *recordingStore) SaveResult(_ context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *recordingStore) RecentResults(_ context.Context, _ string, _ int) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...), nil
}

func TestRecordResultsOncePerGame(t *testing.T) {
	g, _ := newTestGame(t, Rules{})
	store := &recordingStore{}
	finished := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	RecordResults(context.Background(), g, store, func() time.Time { return finished })

	playThrough(t, g, answerCorrectly)
	firstID := g.Snapshot().GameID
	require.True(t, g.Restart())
	playThrough(t, g, answerCorrectly)

	got, err := store.RecentResults(context.Background(), "pme", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Result{
		GameID:     firstID,
		Bank:       "pme",
		Score:      400,
		Possible:   400,
		Percent:    100,
		Grade:      GradeOutstanding,
		FinishedAt: finished,
	}, got[0])
	assert.NotEqual(t, got[0].GameID, got[1].GameID)
}
