package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrNoActiveSession  = errors.New("there is no session in progress")
	ErrAlreadyInSession = errors.New("there is already a session in progress")
	ErrLoadFailure      = errors.New("load tracker state")
	ErrSaveFailure      = errors.New("save tracker state")
)
