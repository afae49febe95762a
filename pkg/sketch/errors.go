package sketch

import (
	"errors"
)

// Warning is a user-facing precondition failure. It is distinct from a
// service error and leaves the session unchanged.
type Warning struct {
	message string
}

func (w *Warning) Error() string {
	return w.message
}

var (
	ErrNoSketch      = &Warning{"please draw something on the canvas or upload an image first"}
	ErrNoDescription = &Warning{"please generate a description first"}
	ErrNoImage       = &Warning{"please generate an image first"}
	ErrBusy          = &Warning{"another operation is in progress"}
	ErrInvalidStyle  = &Warning{"unknown style"}
)

var (
	ErrClosed   = errors.New("session closed")
	ErrNotFound = errors.New("session not found")
)

func IsWarning(err error) bool {
	var w *Warning
	return errors.As(err, &w)
}
