package errors

import "fmt"

// Exit codes returned by commands.
const (
	ExitInvalidArgs = 1
	ExitFailure     = 2
	// ExitNoRecords means a finding source held no records for some rule.
	ExitNoRecords = 3
)

// CommandError is returned by commands to carry the process exit code together with the cause.
type CommandError struct {
	ExitCode int
	Args     interface{}
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("command failed with exit code %d", e.ExitCode)
	}
	return e.Err.Error()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError for the given command arguments.
func NewCommandError(args interface{}, err error, code int) *CommandError {
	return &CommandError{
		ExitCode: code,
		Args:     args,
		Err:      err,
	}
}
