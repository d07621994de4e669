package app

import (
	"context"
	"sync"
	"time"

	"quizshow/internal/domain"
)

// Result is the record of one completed game.
type Result struct {
	GameID     string    `json:"gameId"`
	Bank       string    `json:"bank"`
	Score      int       `json:"score"`
	Possible   int       `json:"possible"`
	Percent    int       `json:"percent"`
	Grade      Grade     `json:"grade"`
	FinishedAt time.Time `json:"finishedAt"`
}

// ResultStore keeps completed games per bank, newest first.
type ResultStore interface {
	SaveResult(ctx context.Context, r Result) error
	RecentResults(ctx context.Context, bank string, limit int) ([]Result, error)
}

// RecordResults saves one Result each time g reaches the results screen.
// Store failures are logged and do not affect play.
func RecordResults(ctx context.Context, g *Game, store ResultStore, now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	bank := g.bank.Name
	logger := g.logger

	var (
		mu       sync.Mutex
		recorded = make(map[string]bool)
	)
	g.Observe(func(snap Snapshot) {
		if snap.Phase.Kind != domain.PhaseResults {
			return
		}
		mu.Lock()
		if recorded[snap.GameID] {
			mu.Unlock()
			return
		}
		recorded[snap.GameID] = true
		mu.Unlock()

		percent := domain.Percent(snap.Score, snap.TotalPossible)
		result := Result{
			GameID:     snap.GameID,
			Bank:       bank,
			Score:      snap.Score,
			Possible:   snap.TotalPossible,
			Percent:    percent,
			Grade:      GradeFor(percent),
			FinishedAt: now().UTC(),
		}
		if err := store.SaveResult(ctx, result); err != nil {
			logger.Warn().Err(err).Str("game", snap.GameID).Msg("save result")
			return
		}
		logger.Info().Str("game", snap.GameID).Int("score", snap.Score).Str("grade", string(result.Grade)).Msg("result recorded")
	})
}
