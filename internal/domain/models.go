package domain

import "fmt"

// TimeUpValue is recorded as the submitted value of a question that ran out
// of time. Check Outcome.TimedOut rather than comparing against it.
const TimeUpValue = "Time Up"

// PhaseKind enumerates the top-level game screens.
type PhaseKind int

const (
	PhaseStart PhaseKind = iota
	PhaseRoundIntro
	PhaseRoundPlay
	PhaseResults
)

// Phase is the single active top-level state of a game. Round is set for
// PhaseRoundIntro and PhaseRoundPlay only.
type Phase struct {
	Kind  PhaseKind
	Round int
}

func Start() Phase   { return Phase{Kind: PhaseStart} }
func Results() Phase { return Phase{Kind: PhaseResults} }

func RoundIntro(n int) Phase {
	checkRound(n)
	return Phase{Kind: PhaseRoundIntro, Round: n}
}

func RoundPlay(n int) Phase {
	checkRound(n)
	return Phase{Kind: PhaseRoundPlay, Round: n}
}

func (p Phase) String() string {
	switch p.Kind {
	case PhaseStart:
		return "start"
	case PhaseRoundIntro:
		return fmt.Sprintf("round%d-intro", p.Round)
	case PhaseRoundPlay:
		return fmt.Sprintf("round%d", p.Round)
	case PhaseResults:
		return "results"
	default:
		return fmt.Sprintf("phase(%d)", int(p.Kind))
	}
}

// Verdict is the correctness of a question as currently known. It stays
// pending for a structured answer until the player marks it.
type Verdict int

const (
	VerdictPending Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

func VerdictOf(correct bool) Verdict {
	if correct {
		return VerdictCorrect
	}
	return VerdictIncorrect
}

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	default:
		return "pending"
	}
}

// Outcome is the final result of one question, emitted once per question.
type Outcome struct {
	QuestionID int    `json:"questionId"`
	Round      int    `json:"round"`
	Correct    bool   `json:"correct"`
	Submitted  string `json:"submitted"`
	TimedOut   bool   `json:"timedOut"`
	Points     int    `json:"points"`
}

// RoundTally accumulates one round's score.
type RoundTally struct {
	Round            int `json:"round"`
	PointsEarned     int `json:"pointsEarned"`
	PointsPossible   int `json:"pointsPossible"`
	QuestionsCorrect int `json:"questionsCorrect"`
	QuestionsTotal   int `json:"questionsTotal"`
}

// Percent is PointsEarned as a whole percentage of PointsPossible, rounded
// half up.
func (t RoundTally) Percent() int {
	return Percent(t.PointsEarned, t.PointsPossible)
}

// Percent rounds part/whole*100 half up; a zero whole yields 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (part*200 + whole) / (whole * 2)
}
