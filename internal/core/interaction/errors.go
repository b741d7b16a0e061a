package interaction

import "errors"

var (
	ErrNoBody       = errors.New("interactable has no rigid body")
	ErrAlreadyAdded = errors.New("interactable already in a scene")
	ErrDestroyed    = errors.New("interactable destroyed")
	ErrHandSide     = errors.New("scene already has a hand on that side")
	ErrUnknownStyle = errors.New("unknown interaction style")
)
