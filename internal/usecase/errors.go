package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Round lifecycle violations.
	ErrRoundNotEditable = errors.New("round not editable")
	ErrRoundLocked      = errors.New("round locked")
	ErrAlreadyClosed    = errors.New("round already closed")
	ErrDeadlinePassed   = errors.New("round deadline passed")

	// Team save that would change nothing.
	ErrNoChanges = errors.New("no changes to save")
)
