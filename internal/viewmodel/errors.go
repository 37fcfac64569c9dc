package viewmodel

import "fmt"

// ParseError reports that the committed amount string could not be converted
// to a positive amount. The reducer and validator should make this unreachable
// from the UI, but the orchestrator still guards against it.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("amount %q is not a positive value", e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed repository call. The triggering action can
// be retried; no local state is lost.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
