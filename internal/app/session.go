package app

import (
	"fmt"

	"quizshow/internal/domain"
	"quizshow/internal/timer"
)

// SessionState is the lifecycle position of a single question.
type SessionState int

const (
	StateActive SessionState = iota
	StateResolved
	StateAwaitingSelfMark
	StateFinalized
)

func (s SessionState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateResolved:
		return "resolved"
	case StateAwaitingSelfMark:
		return "awaiting_self_mark"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SessionView is a read-only copy of a session for presentation.
type SessionView struct {
	QuestionID int
	State      SessionState
	Verdict    domain.Verdict
	Draft      string
	Submitted  string
	TimedOut   bool
	Remaining  int
	Duration   int
	// Reveal is the explanation or sample answer; empty while Active.
	Reveal string
	// Expected is the correct answer text once resolved, empty for structured questions.
	Expected string
}

// Session runs one question: it owns the question's timer and turns the first
// qualifying submission, or the timeout, into exactly one Outcome. Session is
// not safe for concurrent use; Game serializes every call.
type Session struct {
	question domain.Question
	round    int
	points   int
	seconds  int
	timer    *timer.Timer

	state     SessionState
	verdict   domain.Verdict
	draft     string
	submitted string
	timedOut  bool
	emitted   bool
}

func newSession(q domain.Question, rule RoundRule, clock timer.Clock) *Session {
	return &Session{
		question: q,
		round:    rule.Number,
		points:   rule.Points,
		seconds:  rule.Seconds,
		timer:    timer.New(q.QuestionID(), clock),
		state:    StateActive,
	}
}

func (s *Session) start(onExpire func(timer.Expiry), onTick func(int)) error {
	if onTick != nil {
		s.timer.OnTick(onTick)
	}
	if err := s.timer.Start(s.seconds, onExpire); err != nil {
		return fmt.Errorf("start timer for question %d: %w", s.question.QuestionID(), err)
	}
	return nil
}

// stop halts the timer without resolving the question.
func (s *Session) stop() { s.timer.Stop() }

func (s *Session) epoch() uint64 { return s.timer.Epoch() }

// setDraft records in-progress free text.
func (s *Session) setDraft(text string) bool {
	if s.state != StateActive {
		return false
	}
	switch s.question.(type) {
	case domain.FillBlank, domain.Structured:
		s.draft = text
		return true
	default:
		return false
	}
}

func (s *Session) submitTrueFalse(answer bool) (domain.Outcome, bool) {
	q, ok := s.question.(domain.TrueFalse)
	if !ok || s.state != StateActive {
		return domain.Outcome{}, false
	}
	submitted := "False"
	if answer {
		submitted = "True"
	}
	s.resolve(submitted, domain.VerdictOf(EvaluateTrueFalse(q, answer)))
	return s.finalize()
}

func (s *Session) submitFillBlank(text string) (domain.Outcome, bool) {
	q, ok := s.question.(domain.FillBlank)
	if !ok || s.state != StateActive || IsBlankSubmission(text) {
		return domain.Outcome{}, false
	}
	s.draft = text
	s.resolve(text, domain.VerdictOf(EvaluateFillBlank(q, text)))
	return s.finalize()
}

// submitStructured locks in the current draft and waits for the self-mark.
func (s *Session) submitStructured() bool {
	if _, ok := s.question.(domain.Structured); !ok || s.state != StateActive {
		return false
	}
	s.resolve(s.draft, domain.VerdictPending)
	s.state = StateAwaitingSelfMark
	return true
}

func (s *Session) selfMark(correct bool) (domain.Outcome, bool) {
	if s.state != StateAwaitingSelfMark {
		return domain.Outcome{}, false
	}
	s.verdict = domain.VerdictOf(correct)
	return s.finalize()
}

// expire applies a timeout reported by the timer with the given epoch. Stale
// epochs and timeouts that lost the race to a submission are ignored.
func (s *Session) expire(epoch uint64) (domain.Outcome, bool) {
	if epoch != s.timer.Epoch() || s.state != StateActive {
		return domain.Outcome{}, false
	}
	s.timedOut = true
	s.resolve(domain.TimeUpValue, domain.VerdictIncorrect)
	return s.finalize()
}

func (s *Session) resolve(submitted string, verdict domain.Verdict) {
	s.timer.Stop()
	s.submitted = submitted
	s.verdict = verdict
	s.state = StateResolved
}

func (s *Session) finalize() (domain.Outcome, bool) {
	if s.emitted || s.verdict == domain.VerdictPending {
		return domain.Outcome{}, false
	}
	s.emitted = true
	s.state = StateFinalized
	correct := s.verdict == domain.VerdictCorrect
	points := 0
	if correct {
		points = s.points
	}
	return domain.Outcome{
		QuestionID: s.question.QuestionID(),
		Round:      s.round,
		Correct:    correct,
		Submitted:  s.submitted,
		TimedOut:   s.timedOut,
		Points:     points,
	}, true
}

func (s *Session) finalized() bool { return s.state == StateFinalized }

func (s *Session) view() SessionView {
	v := SessionView{
		QuestionID: s.question.QuestionID(),
		State:      s.state,
		Verdict:    s.verdict,
		Draft:      s.draft,
		Submitted:  s.submitted,
		TimedOut:   s.timedOut,
		Remaining:  s.timer.Remaining(),
		Duration:   s.seconds,
	}
	if s.state != StateActive {
		v.Reveal = domain.Reveal(s.question)
		switch q := s.question.(type) {
		case domain.TrueFalse:
			v.Expected = "False"
			if q.Answer {
				v.Expected = "True"
			}
		case domain.FillBlank:
			v.Expected = q.Blank
		}
	}
	return v
}
