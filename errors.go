package leaf

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned for parameters that can't produce any output, such as a negative cycle count
	ErrInvalidInput = errors.New("invalid input")

	// ErrLengthExceeded is returned when a generation outgrows Parameters.MaxLength
	ErrLengthExceeded = errors.New("generation exceeds maximum length")

	// Warnings, these never abort a run
	ErrNoRules    = errors.New("no rules added")
	ErrEmptyAxiom = errors.New("empty axiom")
)
