package lexicon

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches every *InvalidInputError through errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports malformed caller input. It is never retried or corrected.
type InvalidInputError struct {
	Op     string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Op == "" {
		return "invalid input: " + e.Reason
	}
	return e.Op + ": invalid input: " + e.Reason
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Invalidf builds an *InvalidInputError for op.
func Invalidf(op, format string, args ...any) error {
	return &InvalidInputError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
