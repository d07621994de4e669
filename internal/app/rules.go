package app

import (
	"fmt"

	"quizshow/internal/domain"
)

// RoundRule is the fixed presentation and scoring data of one round.
type RoundRule struct {
	Number      int
	Kind        domain.Kind
	Title       string
	Description string
	Points      int
	Seconds     int
}

// Rules holds one RoundRule per round.
type Rules [domain.RoundCount]RoundRule

// DefaultRules returns the standard three-round format.
func DefaultRules() Rules {
	return Rules{
		{
			Number:      1,
			Kind:        domain.KindTrueFalse,
			Title:       "True or False",
			Description: "Decide if each statement is true or false.",
			Points:      10,
			Seconds:     20,
		},
		{
			Number:      2,
			Kind:        domain.KindFillBlank,
			Title:       "Fill in the Blank",
			Description: "Complete each sentence with the correct term or concept.",
			Points:      20,
			Seconds:     30,
		},
		{
			Number:      3,
			Kind:        domain.KindStructured,
			Title:       "Structured Questions",
			Description: "Write detailed answers, then compare them with the sample answer and mark yourself.",
			Points:      30,
			Seconds:     90,
		},
	}
}

// WithSeconds overrides per-round time limits. Entries below one second keep
// the existing limit.
func (r Rules) WithSeconds(seconds [domain.RoundCount]int) Rules {
	for i, s := range seconds {
		if s >= 1 {
			r[i].Seconds = s
		}
	}
	return r
}

// Round returns the rule for round n.
func (r Rules) Round(n int) RoundRule {
	if n < 1 || n > domain.RoundCount {
		panic(fmt.Sprintf("app: round %d out of range", n))
	}
	return r[n-1]
}

// newTallies builds the zeroed per-round tallies for bank.
func (r Rules) newTallies(bank domain.Bank) [domain.RoundCount]domain.RoundTally {
	var tallies [domain.RoundCount]domain.RoundTally
	for i := range tallies {
		total := len(bank.Rounds[i])
		tallies[i] = domain.RoundTally{
			Round:          i + 1,
			PointsPossible: total * r[i].Points,
			QuestionsTotal: total,
		}
	}
	return tallies
}

// Grade is the headline verdict on the results screen.
type Grade string

const (
	GradeOutstanding  Grade = "OUTSTANDING"
	GradeExcellent    Grade = "EXCELLENT"
	GradeGoodJob      Grade = "GOOD JOB"
	GradeKeepLearning Grade = "KEEP LEARNING"
	GradeTryAgain     Grade = "TRY AGAIN"
)

// GradeFor maps a whole percentage to a Grade.
func GradeFor(percent int) Grade {
	switch {
	case percent >= 90:
		return GradeOutstanding
	case percent >= 75:
		return GradeExcellent
	case percent >= 60:
		return GradeGoodJob
	case percent >= 40:
		return GradeKeepLearning
	default:
		return GradeTryAgain
	}
}
