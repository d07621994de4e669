package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"quizshow/internal/domain"
	"quizshow/internal/timer"
)

// Snapshot is everything the presentation layer needs for one render.
type Snapshot struct {
	GameID        string
	Phase         domain.Phase
	Rule          RoundRule
	QuestionIndex int
	QuestionCount int
	Question      domain.Question
	Session       *SessionView
	Score         int
	TotalPossible int
	Tallies       [domain.RoundCount]domain.RoundTally
}

// Summary is the results screen data.
type Summary struct {
	Score    int
	Possible int
	Percent  int
	Grade    Grade
	Tallies  [domain.RoundCount]domain.RoundTally
	History  []domain.Outcome
}

// Options configures a Game.
type Options struct {
	Rules  Rules
	Clock  timer.Clock
	Logger zerolog.Logger
}

// Game sequences rounds and questions, owns score and tallies, and is the only
// writer of game state. A single mutex orders user actions against timer
// callbacks so exactly one resolution per question wins.
type Game struct {
	bank   domain.Bank
	rules  Rules
	clock  timer.Clock
	logger zerolog.Logger

	mu        sync.Mutex
	id        uuid.UUID
	phase     domain.Phase
	index     int
	score     int
	tallies   [domain.RoundCount]domain.RoundTally
	session   *Session
	history   []domain.Outcome
	observers []func(Snapshot)
}

// NewGame validates bank and returns a game in the Start phase.
func NewGame(bank domain.Bank, opts Options) (*Game, error) {
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	rules := opts.Rules
	if rules[0].Number == 0 {
		rules = DefaultRules()
	}
	for i, r := range rules {
		if r.Seconds < 1 {
			return nil, fmt.Errorf("round %d: %w", i+1, timer.ErrInvalidDuration)
		}
		if r.Kind != domain.RoundKind(i+1) {
			return nil, errors.New("rules do not match the round format")
		}
	}
	clock := opts.Clock
	if clock == nil {
		clock = timer.SystemClock{}
	}

	g := &Game{
		bank:   bank,
		rules:  rules,
		clock:  clock,
		logger: opts.Logger.With().Str("bank", bank.Name).Logger(),
	}
	g.reset()
	return g, nil
}

func (g *Game) reset() {
	g.id = uuid.New()
	g.phase = domain.Start()
	g.index = 0
	g.score = 0
	g.tallies = g.rules.newTallies(g.bank)
	g.session = nil
	g.history = nil
}

// Observe registers fn to be called after every applied transition and every
// timer tick. fn runs outside the game lock and may run on the timer goroutine.
func (g *Game) Observe(fn func(Snapshot)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observers = append(g.observers, fn)
}

// Start leaves the start screen for the first round intro.
func (g *Game) Start() bool {
	return g.apply("start", func() bool {
		if g.phase.Kind != domain.PhaseStart {
			return false
		}
		g.setPhase(domain.RoundIntro(1))
		return true
	})
}

// ContinueFromIntro begins play of the introduced round at its first question.
func (g *Game) ContinueFromIntro() bool {
	return g.apply("continue", func() bool {
		if g.phase.Kind != domain.PhaseRoundIntro {
			return false
		}
		g.setPhase(domain.RoundPlay(g.phase.Round))
		g.index = 0
		g.startSession()
		return true
	})
}

// SetDraft stores in-progress free text for the active question.
func (g *Game) SetDraft(text string) bool {
	return g.apply("draft", func() bool {
		return g.playing() && g.session.setDraft(text)
	})
}

func (g *Game) SubmitTrueFalse(answer bool) bool {
	return g.apply("submit_true_false", func() bool {
		if !g.playing() {
			return false
		}
		return g.record(g.session.submitTrueFalse(answer))
	})
}

// SubmitFillBlank answers the active fill-in-the-blank question. Blank text is
// rejected without resolving the question.
func (g *Game) SubmitFillBlank(text string) bool {
	return g.apply("submit_fill_blank", func() bool {
		if !g.playing() {
			return false
		}
		return g.record(g.session.submitFillBlank(text))
	})
}

// SubmitStructured locks in the current draft of a structured answer.
func (g *Game) SubmitStructured() bool {
	return g.apply("submit_structured", func() bool {
		return g.playing() && g.session.submitStructured()
	})
}

// SelfMark records the player's own verdict on a submitted structured answer.
func (g *Game) SelfMark(correct bool) bool {
	return g.apply("self_mark", func() bool {
		if !g.playing() {
			return false
		}
		return g.record(g.session.selfMark(correct))
	})
}

// Next advances past a finalized question to the next question, the next
// round intro, or the results.
func (g *Game) Next() bool {
	return g.apply("next", func() bool {
		if !g.playing() || !g.session.finalized() {
			return false
		}
		round := g.phase.Round
		switch {
		case g.index < len(g.bank.Round(round))-1:
			g.index++
			g.startSession()
		case round < domain.RoundCount:
			g.session = nil
			g.index = 0
			g.setPhase(domain.RoundIntro(round + 1))
		default:
			g.session = nil
			g.setPhase(domain.Results())
		}
		return true
	})
}

// Restart discards the current game and returns to the start screen with
// zeroed score and tallies.
func (g *Game) Restart() bool {
	return g.apply("restart", func() bool {
		if g.phase.Kind == domain.PhaseStart {
			return false
		}
		if g.session != nil {
			g.session.stop()
		}
		prev := g.id
		g.reset()
		g.logger.Info().Str("previous_game", prev.String()).Str("game", g.id.String()).Msg("game restarted")
		return true
	})
}

// Close stops any running countdown.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session != nil {
		g.session.stop()
	}
}

// timerExpired is the callback handed to every question timer.
func (g *Game) timerExpired(e timer.Expiry) {
	g.apply("timeout", func() bool {
		if !g.playing() || g.session.epoch() != e.Epoch {
			g.logger.Debug().Int("question", e.Key).Uint64("epoch", e.Epoch).Msg("stale timer callback discarded")
			return false
		}
		return g.record(g.session.expire(e.Epoch))
	})
}

func (g *Game) timerTicked(epoch uint64) {
	g.mu.Lock()
	if !g.playing() || g.session.epoch() != epoch {
		g.mu.Unlock()
		return
	}
	snap := g.snapshotLocked()
	observers := g.observers
	g.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}

func (g *Game) apply(action string, fn func() bool) bool {
	g.mu.Lock()
	applied := fn()
	if !applied {
		g.logger.Debug().Str("game", g.id.String()).Str("action", action).Str("phase", g.phase.String()).Msg("action ignored")
		g.mu.Unlock()
		return false
	}
	snap := g.snapshotLocked()
	observers := g.observers
	g.mu.Unlock()

	for _, observe := range observers {
		observe(snap)
	}
	return true
}

func (g *Game) playing() bool {
	return g.phase.Kind == domain.PhaseRoundPlay && g.session != nil
}

func (g *Game) setPhase(p domain.Phase) {
	g.logger.Debug().Str("game", g.id.String()).Str("from", g.phase.String()).Str("to", p.String()).Msg("phase transition")
	g.phase = p
}

func (g *Game) startSession() {
	round := g.phase.Round
	q := g.bank.Round(round)[g.index]
	s := newSession(q, g.rules.Round(round), g.clock)
	epoch := s.epoch()
	g.session = s
	if err := s.start(g.timerExpired, func(int) { g.timerTicked(epoch) }); err != nil {
		panic(err)
	}
	g.logger.Debug().Str("game", g.id.String()).Int("round", round).Int("question", q.QuestionID()).Uint64("epoch", epoch).Msg("question started")
}

// record applies a finalized outcome to score and tally.
func (g *Game) record(out domain.Outcome, finalized bool) bool {
	if !finalized {
		return false
	}
	tally := &g.tallies[out.Round-1]
	tally.PointsEarned += out.Points
	if out.Correct {
		tally.QuestionsCorrect++
	}
	g.score += out.Points
	g.history = append(g.history, out)
	g.logger.Info().
		Str("game", g.id.String()).
		Int("round", out.Round).
		Int("question", out.QuestionID).
		Bool("correct", out.Correct).
		Bool("timed_out", out.TimedOut).
		Int("points", out.Points).
		Int("score", g.score).
		Msg("question finalized")
	return true
}

// Snapshot returns the current state for rendering.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	snap := Snapshot{
		GameID:        g.id.String(),
		Phase:         g.phase,
		Score:         g.score,
		TotalPossible: g.totalPossibleLocked(),
		Tallies:       g.tallies,
	}
	if g.phase.Round > 0 {
		snap.Rule = g.rules.Round(g.phase.Round)
		snap.QuestionCount = len(g.bank.Round(g.phase.Round))
	}
	if g.playing() {
		snap.QuestionIndex = g.index
		snap.Question = g.session.question
		view := g.session.view()
		snap.Session = &view
	}
	return snap
}

func (g *Game) totalPossibleLocked() int {
	total := 0
	for _, t := range g.tallies {
		total += t.PointsPossible
	}
	return total
}

// Summary returns the results breakdown. It is meaningful in any phase and
// final once the game reaches Results.
func (g *Game) Summary() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()
	possible := g.totalPossibleLocked()
	percent := domain.Percent(g.score, possible)
	return Summary{
		Score:    g.score,
		Possible: possible,
		Percent:  percent,
		Grade:    GradeFor(percent),
		Tallies:  g.tallies,
		History:  append([]domain.Outcome(nil), g.history...),
	}
}
