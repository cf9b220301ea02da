package app

import (
	"errors"
	"fmt"
)

// Process exit codes
const (
	ExitFailure       = 1
	ExitConfigMissing = 2
	ExitInvalidInput  = 3
)

// ExitError is an error that carries an explicit process exit code.
// errors.Is/As see through it to the cause.
type ExitError struct {
	Code  int
	Cause error
}

func (e *ExitError) Error() string {
	return e.Cause.Error()
}

func (e *ExitError) Unwrap() error { return e.Cause }

// WithExitCode wraps err so the process exits with code
func WithExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	if code <= 0 {
		code = ExitFailure
	}
	return &ExitError{Code: code, Cause: err}
}

// ExitCodeOf extracts an exit code from any error, defaulting to 1
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Errorf is fmt.Errorf with an exit code attached
func Errorf(code int, format string, args ...any) error {
	return WithExitCode(code, fmt.Errorf(format, args...))
}
