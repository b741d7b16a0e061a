package systems

import "errors"

var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNotFound = errors.New("system not found")
	ErrInvalidDelta   = errors.New("fixed delta must be positive")
)
