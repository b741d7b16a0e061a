package events

// Event types published by a session.
const (
	BackendSelected    = "backend.selected"
	BackendInitialized = "backend.initialized"
	BackendFailed      = "backend.failed"
	BackendTornDown    = "backend.torn_down"

	InteractableAdded     = "interactable.added"
	InteractableAttached  = "interactable.attached"
	InteractableDetached  = "interactable.detached"
	InteractableDropped   = "interactable.dropped"
	InteractableCulled    = "interactable.culled"
	InteractableDestroyed = "interactable.destroyed"

	GraspTargetBegin = "hand.grasp_target.begin"
	GraspTargetEnd   = "hand.grasp_target.end"
)

// wildcard is the internal key of SubscribeAll handlers.
const wildcard = "*"
