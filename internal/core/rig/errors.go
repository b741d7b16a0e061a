package rig

import "errors"

var (
	ErrMissingHead    = errors.New("rig: head tracker is required")
	ErrMissingHand    = errors.New("rig: left and right hands are required")
	ErrMissingBackend = errors.New("rig: backend is required")
	ErrClosed         = errors.New("rig: player is closed")
)
