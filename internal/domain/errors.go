package domain

import "fmt"

var (
	ErrNotFound          = errString("not found")
	ErrInvalidTransition = errString("invalid transition")
	ErrRatingUnavailable = errString("security rating temporarily unavailable")
	ErrInvalidInput      = errString("invalid input")
)

// Refinements of the base kinds above; errors.Is matches both.
var (
	ErrNoTransition     = fmt.Errorf("%w: no transition for this state", ErrInvalidTransition)
	ErrRoleNotPermitted = fmt.Errorf("%w: role not permitted", ErrInvalidTransition)
	ErrServiceLocked    = fmt.Errorf("%w: service is not editable once sent for review", ErrInvalidTransition)
	ErrInvalidScore     = fmt.Errorf("%w: score out of range", ErrInvalidInput)
)

type errString string

func (e errString) Error() string { return string(e) }
