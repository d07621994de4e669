package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizshow/internal/domain"
)

func TestEmbeddedDefaultBank(t *testing.T) {
	bank, err := NewBankLoader("").LoadBank(context.Background(), DefaultBank)
	require.NoError(t, err)

	assert.Equal(t, "pme", bank.Name)
	assert.Len(t, bank.Round(1), 15)
	assert.Len(t, bank.Round(2), 5)
	assert.Len(t, bank.Round(3), 5)

	first, ok := bank.Round(1)[0].(domain.TrueFalse)
	require.True(t, ok)
	assert.Equal(t, 1, first.ID)
	assert.False(t, first.Answer)

	blank, ok := bank.Round(2)[0].(domain.FillBlank)
	require.True(t, ok)
	assert.Equal(t, "Monitoring", blank.Blank)
	assert.Equal(t, 25, bank.Round(3)[4].QuestionID())
}

func TestDirectoryBankShadowsEmbedded(t *testing.T) {
	dir := t.TempDir()
	doc := `name: pme
title: Local copy
true_false:
  - id: 1
    prompt: "Go has goroutines."
    answer: true
fill_blank:
  - id: 2
    prompt: "A _______ carries values between goroutines."
    blank: channel
structured:
  - id: 3
    prompt: "Explain select."
    sample_answer: "It waits on several channel operations."
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pme.yml"), []byte(doc), 0o644))

	bank, err := NewBankLoader(dir).LoadBank(context.Background(), "pme")
	require.NoError(t, err)
	assert.Equal(t, "Local copy", bank.Title)
	assert.Equal(t, 3, bank.Size())
}

func TestUnknownBank(t *testing.T) {
	_, err := NewBankLoader(t.TempDir()).LoadBank(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrBankNotFound)
}

func TestParseBankRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": "name: x\ncolour: red\n",
		"kind mismatch": `true_false:
  - {id: 1, kind: structured, prompt: p}
fill_blank:
  - {id: 2, prompt: "a _______", blank: b}
structured:
  - {id: 3, prompt: p}
`,
		"missing answer": `true_false:
  - {id: 1, prompt: p}
fill_blank:
  - {id: 2, prompt: "a _______", blank: b}
structured:
  - {id: 3, prompt: p}
`,
		"two documents": "name: a\n---\nname: b\n",
		"empty round":   "true_false:\n  - {id: 1, prompt: p, answer: true}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBank([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	bank, err := NewBankLoader("").LoadBank(context.Background(), DefaultBank)
	require.NoError(t, err)

	data, err := EncodeBank(bank)
	require.NoError(t, err)
	back, err := ParseBank(data)
	require.NoError(t, err)
	assert.Equal(t, bank, back)
}
