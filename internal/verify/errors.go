package verify

import (
	"errors"
	"fmt"
)

// AssertionFailure reports page state that did not match within the wait timeout
type AssertionFailure struct {
	Check    string
	Expected string
	Actual   string
	Err      error
}

func (e *AssertionFailure) Error() string {
	msg := e.Check
	if e.Expected != "" || e.Actual != "" {
		msg = fmt.Sprintf("%s: expected %s, got %s", msg, e.Expected, e.Actual)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AssertionFailure) Unwrap() error {
	return e.Err
}

// IsAssertionFailure reports whether err is or wraps an AssertionFailure
func IsAssertionFailure(err error) bool {
	var af *AssertionFailure
	return errors.As(err, &af)
}

func mismatch(expected, actual string) *AssertionFailure {
	return &AssertionFailure{Expected: expected, Actual: actual}
}
