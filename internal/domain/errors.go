package domain

import "errors"

var (
	// ErrBankNotFound indicates the question bank could not be located by its supplier.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidBank is returned when bank content breaks a structural invariant.
	ErrInvalidBank = errors.New("invalid question bank")
	// ErrUnknownKind indicates a question record names no known variant.
	ErrUnknownKind = errors.New("unknown question kind")
)
