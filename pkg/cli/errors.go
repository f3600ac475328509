package cli

import (
	"fmt"

	"mercator-hq/meter/pkg/ledger"
)

// InputError reports a rejected flag, configuration key or env file.
type InputError struct {
	// Source names the input, e.g. "--format" or "telemetry.logging".
	Source string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Source, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError creates an InputError for source.
func NewInputError(source string, err error) *InputError {
	return &InputError{Source: source, Err: err}
}

// CommandError reports a failed meter command together with the ledger state
// at the time of the failure.
type CommandError struct {
	Command  string
	Session  string
	Requests int
	Err      error
}

func (e *CommandError) Error() string {
	if e.Session == "" {
		return fmt.Sprintf("meter %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("meter %s: %v (session %s, %d requests tracked)", e.Command, e.Err, e.Session, e.Requests)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a CommandError. tracker may be nil.
func NewCommandError(command string, tracker *ledger.Tracker, err error) *CommandError {
	ce := &CommandError{Command: command, Err: err}
	if tracker != nil {
		ce.Session = tracker.SessionID()
		ce.Requests = tracker.Len()
	}
	return ce
}
