// Package backend defines the contract every VR runtime integration
// satisfies, and the Base state machine the integrations share.
package backend

import (
	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// State is the bring-up state of a backend.
type State uint8

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateTornDown:
		return "torn_down"
	default:
		return "unknown"
	}
}

// Kind names a backend implementation.
type Kind string

const (
	KindOpenVR Kind = "openvr"
	KindOculus Kind = "oculus"
	KindWMR    Kind = "wmr"
	KindPSVR   Kind = "psvr"
	KindMock   Kind = "mock"
	KindBridge Kind = "bridge"
)

// Rig is what a backend drives: the head and both hand trackers.
type Rig interface {
	Head() *tracking.Tracker
	LeftHand() *tracking.Tracker
	RightHand() *tracking.Tracker
}

// Backend is the live adapter to one VR runtime.
//
// All methods are called from the simulation thread. Bring-up is
// asynchronous: Initialize moves the backend to StateInitializing and the
// Initialized listeners fire from a later Update, once.
type Backend interface {
	Kind() Kind
	State() State

	// Initialize starts bring-up. A second call while initializing or ready
	// returns ErrAlreadyInitialized and has no effect.
	Initialize(rig Rig) error
	// DeInitialize releases native resources and cancels a pending bring-up
	// without firing the Initialized event. It is a no-op when never
	// initialized.
	DeInitialize()
	IsInit() bool

	// IsHmdPresent probes for a headset. Probing outside a session may
	// briefly start the runtime but leaves no state behind.
	IsHmdPresent() bool

	// GetPlayspaceBounds returns (width, 1, depth), or zero when unknown.
	GetPlayspaceBounds() math32.Vector3

	RegisterNewPoseCallback(cb func()) ListenerID
	DeregisterNewPoseCallback(id ListenerID)
	AddOnInitializedListener(cb func()) ListenerID
	RemoveOnInitializedListener(id ListenerID)
	// AddOnFailedListener is called when bring-up is abandoned because the
	// runtime failed to start.
	AddOnFailedListener(cb func(err error)) ListenerID
	RemoveOnFailedListener(id ListenerID)

	// MoveRig repositions the tracked volume origin. Before a rig is known
	// it is a no-op.
	MoveRig(origin tracking.Transform)
	MoveRigTo(pos math32.Vector3, rot math32.Quat)
	GetOrigin() tracking.Transform

	GetEyeOffset(eye tracking.Eye) math32.Vector3
	GetEyeProjectionMatrix(eye tracking.Eye, near, far float32) math32.Matrix4

	// Recenter re-zeros tracking at the current head pose.
	Recenter()
	// Update is called once per presentation tick by the owner.
	Update()
}
