package meetup

import "errors"

var (
	// ErrInvalidInput marks input outside the current step's accepted set,
	// including catalog misses. The session is left unchanged.
	ErrInvalidInput = errors.New("invalid input for current step")

	// ErrNoActiveSession marks an event for a user with no session, e.g. a
	// stray callback after cancel or confirm.
	ErrNoActiveSession = errors.New("no active session")
)
