package interaction

import (
	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/systems/physics"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// RotatorMaxAngularVelocity lets levers and wheels spin freely.
const RotatorMaxAngularVelocity = 100

var _ Interactable = (*Rotator)(nil)

// Rotator is a hinged object such as a lever or wheel: the hand pulls the
// point where it grabbed, and the body's constraints turn that pull into
// rotation.
type Rotator struct {
	*Base

	DeltaMagic float32
	// ShouldApplyForce overrides when the pull is applied. By default the
	// rotator pulls while attached.
	ShouldApplyForce func(r *Rotator) bool

	currentAngle float32
	attachPoint  math32.Vector3
	hasAttach    bool
}

func NewRotator(name string, body *physics.Body, d Defaults) *Rotator {
	r := &Rotator{DeltaMagic: 1}
	r.Base = NewBase(name, body, d, r)
	if body != nil {
		body.MaxAngularVelocity = RotatorMaxAngularVelocity
	}
	return r
}

// CurrentAngle is the body's rotation from identity in degrees, as of the
// last fixed tick.
func (r *Rotator) CurrentAngle() float32 { return r.currentAngle }

// AttachPoint is the grab point in world space, false while free.
func (r *Rotator) AttachPoint() (math32.Vector3, bool) {
	if !r.hasAttach {
		return math32.Vector3{}, false
	}
	return r.Body.Pose().TransformPoint(r.attachPoint), true
}

func (r *Rotator) BeginInteraction(h *Hand) bool {
	if !r.Base.BeginInteraction(h) {
		return false
	}
	r.attachPoint = r.Body.Pose().InverseTransformPoint(h.Position())
	r.hasAttach = true
	return true
}

func (r *Rotator) EndInteraction() {
	r.Base.EndInteraction()
	r.hasAttach = false
	r.attachPoint = math32.Vector3{}
}

func (r *Rotator) FixedUpdate(float32) {
	apply := r.IsAttached()
	if r.ShouldApplyForce != nil {
		apply = r.ShouldApplyForce(r)
	}
	if apply {
		r.applyRotationalForce()
	}
	r.currentAngle = tracking.AngleDeg(tracking.IdentityQuat(), r.Body.Quat)
}

func (r *Rotator) applyRotationalForce() {
	at, ok := r.AttachPoint()
	if !ok || !r.IsAttached() {
		return
	}
	delta := r.AttachedHand().Position().Sub(at).MulScalar(r.DeltaMagic)
	r.Body.AddForceAtPosition(delta, at, physics.ForceModeVelocityChange)
}
