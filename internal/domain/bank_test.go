package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBank() Bank {
	return Bank{
		Name: "test",
		Rounds: [RoundCount][]Question{
			{
				TrueFalse{ID: 1, Prompt: "Sky is blue", Answer: true},
				TrueFalse{ID: 2, Prompt: "Fire is cold", Answer: false},
			},
			{FillBlank{ID: 3, Prompt: "Go was made at _______.", Blank: "Google"}},
			{Structured{ID: 4, Prompt: "Explain channels.", SampleAnswer: "Typed conduits."}},
		},
	}
}

func TestBankValidateAcceptsWellFormedBank(t *testing.T) {
	b := validBank()
	require.NoError(t, b.Validate())
	assert.Equal(t, 4, b.Size())
	assert.Len(t, b.Round(1), 2)
}

func TestBankValidateRejects(t *testing.T) {
	cases := map[string]func(b *Bank){
		"empty round": func(b *Bank) { b.Rounds[1] = nil },
		"duplicate id across rounds": func(b *Bank) {
			b.Rounds[2] = []Question{Structured{ID: 1, Prompt: "dup"}}
		},
		"wrong kind for round": func(b *Bank) {
			b.Rounds[0] = append(b.Rounds[0], Structured{ID: 9, Prompt: "misplaced"})
		},
		"missing blank marker": func(b *Bank) {
			b.Rounds[1] = []Question{FillBlank{ID: 3, Prompt: "no marker", Blank: "x"}}
		},
		"empty blank": func(b *Bank) {
			b.Rounds[1] = []Question{FillBlank{ID: 3, Prompt: "a _______", Blank: "  "}}
		},
		"non-positive id": func(b *Bank) {
			b.Rounds[0] = []Question{TrueFalse{ID: 0, Prompt: "zero"}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			b := validBank()
			mutate(&b)
			err := b.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidBank), "got %v", err)
		})
	}
}

func TestRoundOutOfRangePanics(t *testing.T) {
	b := validBank()
	assert.Panics(t, func() { b.Round(0) })
	assert.Panics(t, func() { b.Round(4) })
	assert.Panics(t, func() { RoundPlay(5) })
}

func TestRecordConversion(t *testing.T) {
	for _, q := range []Question{
		TrueFalse{ID: 1, Prompt: "p", Answer: false, Explanation: "e"},
		FillBlank{ID: 2, Prompt: "p _______", Blank: "b", Explanation: "e"},
		Structured{ID: 3, Prompt: "p", SampleAnswer: "s"},
	} {
		back, err := RecordOf(q).Question()
		require.NoError(t, err)
		assert.Equal(t, q, back)
	}

	_, err := QuestionRecord{Kind: "essay", ID: 5}.Question()
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = QuestionRecord{Kind: "true_false", ID: 6, Prompt: "p"}.Question()
	assert.ErrorIs(t, err, ErrInvalidBank)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "start", Start().String())
	assert.Equal(t, "round2-intro", RoundIntro(2).String())
	assert.Equal(t, "round3", RoundPlay(3).String())
	assert.Equal(t, "results", Results().String())
}

func TestPercentRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 100, Percent(400, 400))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 63, Percent(250, 400))
	assert.Equal(t, 50, RoundTally{PointsEarned: 50, PointsPossible: 100}.Percent())
}
