package model

import (
	"errors"
	"fmt"
)

// ErrEvaluation is returned when evaluation hits an inconsistency in the
// workspace: a referenced entity is missing or an evaluator precondition does
// not hold. Correctly published configuration never produces it.
var ErrEvaluation = errors.New("evaluation error")

// Errorf wraps ErrEvaluation with a formatted detail message.
func Errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEvaluation, fmt.Sprintf(format, args...))
}
