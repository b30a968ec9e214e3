package cli

import (
	stderrors "errors"
)

// ExitError ends the process with Code. Reported is set when the error
// was already rendered to the user.
type ExitError struct {
	Code     int
	Err      error
	Reported bool
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps the error returned by the root command to a process exit
// status: 0 on success, 1 for usage and configuration errors, plan errors
// and runs with failed links.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Reported reports whether err has already been shown to the user.
func Reported(err error) bool {
	var exitErr *ExitError
	return stderrors.As(err, &exitErr) && exitErr.Reported
}
