package session

import "errors"

var (
	ErrClosed        = errors.New("session closed")
	ErrSharedBackend = errors.New("duplicate player shares the session backend")
	ErrNilPlayer     = errors.New("player is nil")
)
