package domain

import (
	"fmt"
	"strings"
)

// RoundCount is the number of rounds in a game.
const RoundCount = 3

// roundKinds fixes which question variant each round consumes.
var roundKinds = [RoundCount]Kind{KindTrueFalse, KindFillBlank, KindStructured}

// RoundKind returns the question kind played in round n.
func RoundKind(n int) Kind {
	checkRound(n)
	return roundKinds[n-1]
}

// Bank is the read-only question source for a game: one ordered sequence per
// round.
type Bank struct {
	Name   string
	Title  string
	Rounds [RoundCount][]Question
}

// Round returns the questions of round n in play order.
func (b Bank) Round(n int) []Question {
	checkRound(n)
	return b.Rounds[n-1]
}

// Size is the total number of questions across all rounds.
func (b Bank) Size() int {
	total := 0
	for _, qs := range b.Rounds {
		total += len(qs)
	}
	return total
}

// Validate checks the invariants every consumer relies on.
func (b Bank) Validate() error {
	seen := make(map[int]int)
	for i, qs := range b.Rounds {
		round := i + 1
		if len(qs) == 0 {
			return fmt.Errorf("%w: round %d has no questions", ErrInvalidBank, round)
		}
		for pos, q := range qs {
			if q == nil {
				return fmt.Errorf("%w: round %d position %d is empty", ErrInvalidBank, round, pos)
			}
			id := q.QuestionID()
			if id <= 0 {
				return fmt.Errorf("%w: round %d position %d has non-positive id %d", ErrInvalidBank, round, pos, id)
			}
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("%w: id %d used in round %d and round %d", ErrInvalidBank, id, prev, round)
			}
			seen[id] = round
			if q.Kind() != roundKinds[i] {
				return fmt.Errorf("%w: question %d is %s, round %d expects %s", ErrInvalidBank, id, q.Kind(), round, roundKinds[i])
			}
			if strings.TrimSpace(q.Text()) == "" {
				return fmt.Errorf("%w: question %d has an empty prompt", ErrInvalidBank, id)
			}
			if fb, ok := q.(FillBlank); ok {
				if !strings.Contains(fb.Prompt, BlankMarker) {
					return fmt.Errorf("%w: question %d prompt has no blank marker", ErrInvalidBank, id)
				}
				if strings.TrimSpace(fb.Blank) == "" {
					return fmt.Errorf("%w: question %d has an empty blank", ErrInvalidBank, id)
				}
			}
		}
	}
	return nil
}

func checkRound(n int) {
	if n < 1 || n > RoundCount {
		panic(fmt.Sprintf("domain: round %d out of range 1..%d", n, RoundCount))
	}
}
