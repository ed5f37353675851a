package dataset

import (
	"errors"
	"fmt"
)

// #region errors

// ErrInvalidInput matches every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a dataset that violates the clean-matrix contract:
// non-finite cells, ragged rows, nested or non-numeric structures.
type InvalidInputError struct {
	Op     string // operation that rejected the input, e.g. "validate", "decode"
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) true for any InvalidInputError.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidf(op, format string, args ...any) error {
	return &InvalidInputError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// #endregion errors
