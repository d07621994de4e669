package domain

import (
	"fmt"
	"strings"
)

// BlankMarker is the placeholder a fill-in-the-blank prompt must contain.
const BlankMarker = "_______"

// Kind identifies the variant of a Question.
type Kind int

const (
	KindTrueFalse Kind = iota + 1
	KindFillBlank
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindTrueFalse:
		return "true_false"
	case KindFillBlank:
		return "fill_blank"
	case KindStructured:
		return "structured"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true_false":
		return KindTrueFalse, nil
	case "fill_blank":
		return KindFillBlank, nil
	case "structured":
		return KindStructured, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
}

// Question is one immutable entry of the bank. It is implemented by
// TrueFalse, FillBlank and Structured only.
type Question interface {
	QuestionID() int
	Text() string
	Kind() Kind
	isQuestion()
}

// TrueFalse is a statement the player judges as true or false.
type TrueFalse struct {
	ID          int
	Prompt      string
	Answer      bool
	Explanation string
}

// FillBlank asks for the word(s) hidden behind BlankMarker in Prompt.
type FillBlank struct {
	ID          int
	Prompt      string
	Blank       string
	Explanation string
}

// Structured is a free-text question the player marks themselves against
// SampleAnswer.
type Structured struct {
	ID           int
	Prompt       string
	SampleAnswer string
}

func (q TrueFalse) QuestionID() int { return q.ID }
func (q TrueFalse) Text() string    { return q.Prompt }
func (q TrueFalse) Kind() Kind      { return KindTrueFalse }
func (TrueFalse) isQuestion()       {}

func (q FillBlank) QuestionID() int { return q.ID }
func (q FillBlank) Text() string    { return q.Prompt }
func (q FillBlank) Kind() Kind      { return KindFillBlank }
func (FillBlank) isQuestion()       {}

func (q Structured) QuestionID() int { return q.ID }
func (q Structured) Text() string    { return q.Prompt }
func (q Structured) Kind() Kind      { return KindStructured }
func (Structured) isQuestion()       {}

// Reveal returns the text shown once a question is resolved: the explanation
// for automatically marked questions, the sample answer for structured ones.
func Reveal(q Question) string {
	switch q := q.(type) {
	case TrueFalse:
		return q.Explanation
	case FillBlank:
		return q.Explanation
	case Structured:
		return q.SampleAnswer
	default:
		panic(fmt.Sprintf("domain: unhandled question type %T", q))
	}
}

// QuestionRecord is the flat wire form of a Question shared by the YAML,
// Postgres and Redis suppliers.
type QuestionRecord struct {
	Kind         string `json:"kind" yaml:"kind,omitempty"`
	ID           int    `json:"id" yaml:"id"`
	Prompt       string `json:"prompt" yaml:"prompt"`
	Answer       *bool  `json:"answer,omitempty" yaml:"answer,omitempty"`
	Blank        string `json:"blank,omitempty" yaml:"blank,omitempty"`
	Explanation  string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	SampleAnswer string `json:"sample_answer,omitempty" yaml:"sample_answer,omitempty"`
}

// RecordOf flattens q.
func RecordOf(q Question) QuestionRecord {
	switch q := q.(type) {
	case TrueFalse:
		answer := q.Answer
		return QuestionRecord{
			Kind:        KindTrueFalse.String(),
			ID:          q.ID,
			Prompt:      q.Prompt,
			Answer:      &answer,
			Explanation: q.Explanation,
		}
	case FillBlank:
		return QuestionRecord{
			Kind:        KindFillBlank.String(),
			ID:          q.ID,
			Prompt:      q.Prompt,
			Blank:       q.Blank,
			Explanation: q.Explanation,
		}
	case Structured:
		return QuestionRecord{
			Kind:         KindStructured.String(),
			ID:           q.ID,
			Prompt:       q.Prompt,
			SampleAnswer: q.SampleAnswer,
		}
	default:
		panic(fmt.Sprintf("domain: unhandled question type %T", q))
	}
}

// Question converts the record back into its variant.
func (r QuestionRecord) Question() (Question, error) {
	kind, err := ParseKind(r.Kind)
	if err != nil {
		return nil, fmt.Errorf("question %d: %w", r.ID, err)
	}
	switch kind {
	case KindTrueFalse:
		if r.Answer == nil {
			return nil, fmt.Errorf("%w: question %d has no answer", ErrInvalidBank, r.ID)
		}
		return TrueFalse{ID: r.ID, Prompt: r.Prompt, Answer: *r.Answer, Explanation: r.Explanation}, nil
	case KindFillBlank:
		return FillBlank{ID: r.ID, Prompt: r.Prompt, Blank: r.Blank, Explanation: r.Explanation}, nil
	default:
		return Structured{ID: r.ID, Prompt: r.Prompt, SampleAnswer: r.SampleAnswer}, nil
	}
}
