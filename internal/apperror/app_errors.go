package apperror

import "errors"

var (
	ErrInvalidConfig    = errors.New("invalid game config")
	ErrSessionNotFound  = errors.New("session not found")
	ErrTooManySessions  = errors.New("too many sessions")
	ErrDefaultSession   = errors.New("default session can't be deleted")
	ErrSessionIDIsEmpty = errors.New("session id is empty")
)
