package backend

import "errors"

var (
	ErrAlreadyInitialized = errors.New("backend already initialized")
	ErrIncompleteRig      = errors.New("rig is missing head or hand trackers")
	ErrNoRuntime          = errors.New("native runtime not available")
)
