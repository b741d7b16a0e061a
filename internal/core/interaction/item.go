package interaction

import (
	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/systems/physics"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// ExpectedDeltaTime is the fixed tick the force gains were tuned for.
const ExpectedDeltaTime float32 = 0.0111

var _ Interactable = (*Item)(nil)

// Item is a freely grabbed object. While held it is driven toward the hand
// by velocity changes, keeping the hand-relative pose it had when picked
// up. On release it inherits the hand's throw velocity.
type Item struct {
	*Base

	VelocityMagic            float32
	AngularVelocityMagic     float32
	MaxVelocityChange        float32
	MaxAngularVelocityChange float32

	// pickup is the hand pose at attach time, in body space.
	pickup tracking.Pose
}

func NewItem(name string, body *physics.Body, d Defaults) *Item {
	it := &Item{
		VelocityMagic:            6000,
		AngularVelocityMagic:     50,
		MaxVelocityChange:        10,
		MaxAngularVelocityChange: 20,
	}
	it.Base = NewBase(name, body, d, it)
	return it
}

func (it *Item) BeginInteraction(h *Hand) bool {
	if !it.Base.BeginInteraction(h) {
		return false
	}
	it.pickup = it.Body.Pose().Inverse().Mul(h.Pose())
	return true
}

func (it *Item) EndInteraction() {
	h := it.AttachedHand()
	if h == nil {
		return
	}
	it.Base.EndInteraction()
	it.pickup = tracking.IdentityPose()
	if it.Body.Kinematic {
		return
	}
	it.Body.LinVel = h.VelocityEstimate()
	it.Body.AngVel = h.AngularVelocityEstimate()
}

// FixedUpdate drives the held body toward the hand.
func (it *Item) FixedUpdate(dt float32) {
	if !it.IsAttached() || dt <= 0 {
		return
	}
	hand := it.AttachedHand().Pose()
	held := it.Body.Pose().Mul(it.pickup)

	// gains scale inversely with the tick so the result is rate independent
	velocityMagic := it.VelocityMagic / (dt / ExpectedDeltaTime)
	angularMagic := it.AngularVelocityMagic / (dt / ExpectedDeltaTime)

	velTarget := hand.Pos.Sub(held.Pos).MulScalar(velocityMagic * dt)
	if !isNaN(velTarget) {
		next := moveTowards(it.Body.LinVel, velTarget, it.MaxVelocityChange)
		it.Body.AddForce(next.Sub(it.Body.LinVel), physics.ForceModeVelocityChange)
	}

	rotDelta := tracking.MulQuat(hand.Rot, tracking.Conjugate(held.Rot))
	angle, axis := tracking.ToAngleAxis(rotDelta)
	deg := math32.RadToDeg(angle)
	if deg > 180 {
		deg -= 360
	}
	if deg == 0 {
		return
	}
	angTarget := axis.MulScalar(deg * angularMagic * dt)
	if isNaN(angTarget) {
		return
	}
	next := moveTowards(it.Body.AngVel, angTarget, it.MaxAngularVelocityChange)
	it.Body.AddTorque(next.Sub(it.Body.AngVel), physics.ForceModeVelocityChange)
}

// moveTowards steps from toward to by at most maxDelta.
func moveTowards(from, to math32.Vector3, maxDelta float32) math32.Vector3 {
	diff := to.Sub(from)
	dist := diff.Length()
	if dist <= maxDelta || dist == 0 {
		return to
	}
	return from.Add(diff.MulScalar(maxDelta / dist))
}

func isNaN(v math32.Vector3) bool {
	return v.X != v.X || v.Y != v.Y || v.Z != v.Z
}
