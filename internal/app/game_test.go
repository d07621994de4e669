package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizshow/internal/domain"
	"quizshow/internal/infra/file"
	"quizshow/internal/testutil"
	"quizshow/internal/timer"
)

const eventually = 2 * time.Second

func embeddedBank(t *testing.T) domain.Bank {
	t.Helper()
	bank, err := file.NewBankLoader("").LoadBank(context.Background(), file.DefaultBank)
	require.NoError(t, err)
	return bank
}

func newTestGame(t *testing.T, rules Rules) (*Game, *testutil.ManualClock) {
	t.Helper()
	clock := testutil.NewManualClock(time.Unix(0, 0))
	g, err := NewGame(embeddedBank(t), Options{Rules: rules, Clock: clock, Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g, clock
}

// answerCorrectly resolves the current question with the right answer.
func answerCorrectly(t *testing.T, g *Game) {
	t.Helper()
	switch q := g.Snapshot().Question.(type) {
	case domain.TrueFalse:
		require.True(t, g.SubmitTrueFalse(q.Answer))
	case domain.FillBlank:
		require.True(t, g.SubmitFillBlank("  "+strings.ToUpper(q.Blank)+" "))
	case domain.Structured:
		require.True(t, g.SetDraft("my answer"))
		require.True(t, g.SubmitStructured())
		require.True(t, g.SelfMark(true))
	default:
		t.Fatalf("no active question in phase %s", g.Snapshot().Phase)
	}
}

func playThrough(t *testing.T, g *Game, answer func(*testing.T, *Game)) {
	t.Helper()
	require.True(t, g.Start())
	for round := 1; round <= domain.RoundCount; round++ {
		require.Equal(t, domain.RoundIntro(round), g.Snapshot().Phase)
		require.True(t, g.ContinueFromIntro())
		for {
			answer(t, g)
			require.Equal(t, StateFinalized, g.Snapshot().Session.State)
			require.True(t, g.Next())
			if g.Snapshot().Phase != domain.RoundPlay(round) {
				break
			}
		}
	}
}

func TestFullGameScoresFourHundred(t *testing.T) {
	g, _ := newTestGame(t, Rules{})

	playThrough(t, g, answerCorrectly)

	snap := g.Snapshot()
	assert.Equal(t, domain.Results(), snap.Phase)
	assert.Equal(t, 400, snap.Score)
	assert.Equal(t, 400, snap.TotalPossible)

	sum := g.Summary()
	assert.Equal(t, 100, sum.Percent)
	assert.Equal(t, GradeOutstanding, sum.Grade)
	assert.Len(t, sum.History, 25)
	assert.Equal(t, domain.RoundTally{Round: 1, PointsEarned: 150, PointsPossible: 150, QuestionsCorrect: 15, QuestionsTotal: 15}, sum.Tallies[0])
	assert.Equal(t, domain.RoundTally{Round: 2, PointsEarned: 100, PointsPossible: 100, QuestionsCorrect: 5, QuestionsTotal: 5}, sum.Tallies[1])
	assert.Equal(t, domain.RoundTally{Round: 3, PointsEarned: 150, PointsPossible: 150, QuestionsCorrect: 5, QuestionsTotal: 5}, sum.Tallies[2])
}

func TestRestartResetsEverything(t *testing.T) {
	g, _ := newTestGame(t, Rules{})
	firstID := g.Snapshot().GameID

	playThrough(t, g, answerCorrectly)
	require.True(t, g.Restart())

	snap := g.Snapshot()
	assert.Equal(t, domain.Start(), snap.Phase)
	assert.Zero(t, snap.Score)
	assert.Nil(t, snap.Session)
	assert.NotEqual(t, firstID, snap.GameID)
	for i, tally := range snap.Tallies {
		assert.Zero(t, tally.PointsEarned, "round %d", i+1)
		assert.Zero(t, tally.QuestionsCorrect, "round %d", i+1)
	}
	assert.Empty(t, g.Summary().History)
	assert.False(t, g.Restart(), "restart from the start screen is a no-op")
}

func TestRestartMidRoundStopsTimer(t *testing.T) {
	g, clock := newTestGame(t, Rules{})
	require.True(t, g.Start())
	require.True(t, g.ContinueFromIntro())
	require.Equal(t, 1, clock.Live())

	require.True(t, g.Restart())
	require.Eventually(t, func() bool { return clock.Live() == 0 }, eventually, time.Millisecond)
	assert.Equal(t, domain.Start(), g.Snapshot().Phase)
}

func TestPhaseSequenceIsObserved(t *testing.T) {
	g, _ := newTestGame(t, Rules{})

	var (
		mu     sync.Mutex
		phases []string
	)
	g.Observe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		p := s.Phase.String()
		if len(phases) == 0 || phases[len(phases)-1] != p {
			phases = append(phases, p)
		}
	})

	playThrough(t, g, answerCorrectly)
	require.True(t, g.Restart())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"round1-intro", "round1",
		"round2-intro", "round2",
		"round3-intro", "round3",
		"results", "start",
	}, phases)
}

func TestTimeoutScoresZeroAndNeedsNext(t *testing.T) {
	g, clock := newTestGame(t, DefaultRules().WithSeconds([domain.RoundCount]int{2, 2, 2}))
	require.True(t, g.Start())
	require.True(t, g.ContinueFromIntro())

	clock.Advance(2)
	require.Eventually(t, func() bool {
		s := g.Snapshot().Session
		return s != nil && s.State == StateFinalized
	}, eventually, time.Millisecond)

	snap := g.Snapshot()
	assert.Equal(t, domain.RoundPlay(1), snap.Phase, "timeout does not auto-advance")
	assert.True(t, snap.Session.TimedOut)
	assert.Equal(t, domain.TimeUpValue, snap.Session.Submitted)
	assert.Equal(t, domain.VerdictIncorrect, snap.Session.Verdict)
	assert.Zero(t, snap.Score)
	assert.False(t, g.SubmitTrueFalse(false), "late submission is ignored")

	require.True(t, g.Next())
	assert.Equal(t, 1, g.Snapshot().QuestionIndex)
}

func TestStructuredTimeoutSkipsSelfMark(t *testing.T) {
	g, clock := newTestGame(t, DefaultRules().WithSeconds([domain.RoundCount]int{1, 1, 3}))
	require.True(t, g.Start())
	for g.Snapshot().Phase != domain.RoundPlay(3) {
		switch g.Snapshot().Phase.Kind {
		case domain.PhaseRoundIntro:
			require.True(t, g.ContinueFromIntro())
		default:
			answerCorrectly(t, g)
			require.True(t, g.Next())
		}
	}
	require.True(t, g.SetDraft("half an answer"))

	clock.Advance(3)
	require.Eventually(t, func() bool {
		return g.Snapshot().Session.State == StateFinalized
	}, eventually, time.Millisecond)

	assert.False(t, g.SelfMark(true))
	assert.Equal(t, 250, g.Snapshot().Score)
	assert.Equal(t, "Time Up", g.Snapshot().Session.Submitted)
}

func TestSubmissionsAreIdempotent(t *testing.T) {
	g, _ := newTestGame(t, Rules{})
	require.True(t, g.Start())
	require.True(t, g.ContinueFromIntro())

	q := g.Snapshot().Question.(domain.TrueFalse)
	require.True(t, g.SubmitTrueFalse(q.Answer))
	assert.False(t, g.SubmitTrueFalse(q.Answer))
	assert.False(t, g.SubmitTrueFalse(!q.Answer))
	assert.False(t, g.SubmitFillBlank("anything"))
	assert.Equal(t, 10, g.Snapshot().Score)
	assert.Len(t, g.Summary().History, 1)
}

func TestStructuredSelfMarkAppliedOnce(t *testing.T) {
	g, _ := newTestGame(t, Rules{})
	require.True(t, g.Start())
	for g.Snapshot().Phase != domain.RoundPlay(3) {
		if g.Snapshot().Phase.Kind == domain.PhaseRoundIntro {
			require.True(t, g.ContinueFromIntro())
			continue
		}
		answerCorrectly(t, g)
		require.True(t, g.Next())
	}
	before := g.Snapshot().Score

	assert.False(t, g.SelfMark(true), "self-mark before submit")
	require.True(t, g.SetDraft("draft"))
	require.True(t, g.SubmitStructured())
	snap := g.Snapshot()
	assert.Equal(t, StateAwaitingSelfMark, snap.Session.State)
	assert.NotEmpty(t, snap.Session.Reveal, "sample answer shown while awaiting self-mark")
	assert.False(t, g.Next(), "next requires a self-mark")

	require.True(t, g.SelfMark(false))
	assert.False(t, g.SelfMark(true))
	assert.Equal(t, before, g.Snapshot().Score)
}

func TestStaleTimerCallbackIsDiscarded(t *testing.T) {
	g, _ := newTestGame(t, Rules{})
	require.True(t, g.Start())
	require.True(t, g.ContinueFromIntro())

	g.mu.Lock()
	old := timer.Expiry{Key: g.session.question.QuestionID(), Epoch: g.session.epoch()}
	g.mu.Unlock()

	answerCorrectly(t, g)
	require.True(t, g.Next())

	g.timerExpired(old)
	snap := g.Snapshot()
	assert.Equal(t, StateActive, snap.Session.State)
	assert.Equal(t, 10, snap.Score)
	assert.Len(t, g.Summary().History, 1)

	require.True(t, g.Restart())
	g.timerExpired(old)
	assert.Equal(t, domain.Start(), g.Snapshot().Phase)
}

func TestActionsOutOfPhaseAreIgnored(t *testing.T) {
	g, _ := newTestGame(t, Rules{})

	assert.False(t, g.ContinueFromIntro())
	assert.False(t, g.Next())
	assert.False(t, g.SubmitTrueFalse(true))
	require.True(t, g.Start())
	assert.False(t, g.Start())
	assert.False(t, g.SubmitTrueFalse(true))
	require.True(t, g.ContinueFromIntro())
	assert.False(t, g.Next(), "next before the question is resolved")
	assert.False(t, g.SetDraft("not a text question"))
}

func TestNewGameRejectsInvalidRules(t *testing.T) {
	bank := embeddedBank(t)

	rules := DefaultRules()
	rules[1].Seconds = 0
	_, err := NewGame(bank, Options{Rules: rules})
	assert.ErrorIs(t, err, timer.ErrInvalidDuration)

	_, err = NewGame(domain.Bank{Name: "empty"}, Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidBank)
}
