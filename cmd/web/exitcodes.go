package main

// Exit codes for energy-forecast.
const (
	ExitOK              = 0
	ExitPipelineFailure = 1 // No dashboard produced.
	ExitInvalidConfig   = 2
	ExitServerFailure   = 3 // Dashboard written but could not be served.
)

// exitCodeError carries a process exit code for an error that has already
// been reported on the console.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }

func (e *exitCodeError) Unwrap() error { return e.err }
