package app

import (
	"strings"

	"quizshow/internal/domain"
)

// EvaluateTrueFalse reports whether answer matches the statement's truth value.
func EvaluateTrueFalse(q domain.TrueFalse, answer bool) bool {
	return answer == q.Answer
}

// EvaluateFillBlank compares text with the expected blank ignoring case and
// surrounding whitespace. Callers must reject blank submissions first.
func EvaluateFillBlank(q domain.FillBlank, text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(q.Blank))
}

// IsBlankSubmission reports whether text carries no answer at all.
func IsBlankSubmission(text string) bool {
	return strings.TrimSpace(text) == ""
}
