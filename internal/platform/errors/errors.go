package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrNoActiveSession = errors.New("no active session")
	ErrNotConfirmed    = errors.New("destructive action requires confirmation")
)
