package core

import "fmt"

// Ensure checks a programming invariant. A failed check is logged and the
// current operation is aborted with a panic wrapping ErrInvariantViolated.
func Ensure(cond bool, msg string, args ...interface{}) {
	if cond {
		return
	}
	err := fmt.Errorf("%w: %s", ErrInvariantViolated, fmt.Sprintf(msg, args...))
	LogError(err.Error())
	panic(err)
}
