package physics

import (
	"cogentcore.org/core/math32"
	"github.com/google/uuid"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// ForceMode selects how a force argument changes a body's velocity.
type ForceMode uint8

const (
	// ForceModeForce accumulates a continuous force, integrated with mass at the next step.
	ForceModeForce ForceMode = iota
	// ForceModeAcceleration accumulates a continuous acceleration, ignoring mass.
	ForceModeAcceleration
	// ForceModeImpulse changes velocity immediately, scaled by mass.
	ForceModeImpulse
	// ForceModeVelocityChange changes velocity immediately, ignoring mass.
	ForceModeVelocityChange
)

// DefaultMaxAngularVelocity caps spin in radians per second.
const DefaultMaxAngularVelocity = 7

// Body is a rigid body with box colliders.
type Body struct {
	State

	// rigid body properties
	Mass    float32
	Inertia float32

	Kinematic          bool
	UseGravity         bool
	MaxAngularVelocity float32
	LinearDamping      float32
	AngularDamping     float32

	id        uuid.UUID
	name      string
	colliders []*Collider
	force     math32.Vector3
	torque    math32.Vector3
	world     *World
}

// NewBody returns a dynamic body with gravity at the origin.
func NewBody(name string, mass float32) *Body {
	if mass <= 0 {
		mass = 1
	}
	b := &Body{
		Mass:               mass,
		UseGravity:         true,
		MaxAngularVelocity: DefaultMaxAngularVelocity,
		AngularDamping:     0.05,
		id:                 uuid.New(),
		name:               name,
	}
	b.Defaults()
	return b
}

func (b *Body) ID() uuid.UUID { return b.id }

func (b *Body) Name() string { return b.name }

// World returns the world the body was added to, if any.
func (b *Body) World() *World { return b.world }

// AddCollider attaches a collider to the body. Colliders may be added at any
// time, owners re-read Colliders afterwards.
func (b *Body) AddCollider(c *Collider) {
	if c.body == b {
		return
	}
	if c.body != nil {
		c.body.RemoveCollider(c)
	}
	c.body = b
	b.colliders = append(b.colliders, c)
}

// RemoveCollider detaches c if it belongs to the body.
func (b *Body) RemoveCollider(c *Collider) {
	for i, cc := range b.colliders {
		if cc == c {
			b.colliders = append(b.colliders[:i], b.colliders[i+1:]...)
			c.body = nil
			return
		}
	}
}

// Colliders returns a copy of the attached colliders.
func (b *Body) Colliders() []*Collider {
	out := make([]*Collider, len(b.colliders))
	copy(out, b.colliders)
	return out
}

// SetPose teleports the body.
func (b *Body) SetPose(p tracking.Pose) {
	b.Pos = p.Pos
	b.Quat = tracking.NormalizeQuat(p.Rot)
}

// Bounds is the union of the collider bounds, or a point box at Pos.
func (b *Body) Bounds() math32.Box3 {
	if len(b.colliders) == 0 {
		return math32.Box3{Min: b.Pos, Max: b.Pos}
	}
	bb := math32.B3Empty()
	for _, c := range b.colliders {
		bb.ExpandByBox(c.Bounds())
	}
	return bb
}

// inertia returns the scalar moment, defaulting to a solid sphere enclosing
// the local collider extents.
func (b *Body) inertia() float32 {
	if b.Inertia > 0 {
		return b.Inertia
	}
	r := float32(0.5)
	if len(b.colliders) > 0 {
		r = 0
		for _, c := range b.colliders {
			ext := c.Center.Length() + c.Size.Length()*0.5
			r = math32.Max(r, ext)
		}
		r = math32.Max(r, 0.01)
	}
	return 0.4 * b.Mass * r * r
}

// AddForce applies a force to the center of mass.
func (b *Body) AddForce(f math32.Vector3, mode ForceMode) {
	if b.Kinematic {
		return
	}
	switch mode {
	case ForceModeForce:
		b.force = b.force.Add(f)
	case ForceModeAcceleration:
		b.force = b.force.Add(f.MulScalar(b.Mass))
	case ForceModeImpulse:
		b.LinVel = b.LinVel.Add(f.DivScalar(b.Mass))
	case ForceModeVelocityChange:
		b.LinVel = b.LinVel.Add(f)
	}
}

// AddTorque applies a torque about the center of mass.
func (b *Body) AddTorque(t math32.Vector3, mode ForceMode) {
	if b.Kinematic {
		return
	}
	switch mode {
	case ForceModeForce:
		b.torque = b.torque.Add(t)
	case ForceModeAcceleration:
		b.torque = b.torque.Add(t.MulScalar(b.inertia()))
	case ForceModeImpulse:
		b.AngVel = b.AngVel.Add(t.DivScalar(b.inertia()))
	case ForceModeVelocityChange:
		b.AngVel = b.AngVel.Add(t)
	}
	b.clampAngVel()
}

// AddForceAtPosition applies a force at a world point, producing both a
// linear change and a torque about the center of mass.
func (b *Body) AddForceAtPosition(f, pos math32.Vector3, mode ForceMode) {
	if b.Kinematic {
		return
	}
	b.AddForce(f, mode)
	lever := pos.Sub(b.Pos)
	torque := lever.Cross(f)
	switch mode {
	case ForceModeVelocityChange, ForceModeAcceleration:
		// mass-independent modes become a torque of the equivalent impulse
		b.AddTorque(torque.MulScalar(b.Mass), modeAsTorque(mode))
	default:
		b.AddTorque(torque, mode)
	}
}

func modeAsTorque(mode ForceMode) ForceMode {
	if mode == ForceModeVelocityChange {
		return ForceModeImpulse
	}
	return ForceModeForce
}

// Step integrates the body over dt seconds.
func (b *Body) Step(dt float32, gravity math32.Vector3) {
	defer func() {
		b.force = math32.Vector3{}
		b.torque = math32.Vector3{}
	}()
	if b.Kinematic || dt <= 0 {
		return
	}
	acc := b.force.DivScalar(b.Mass)
	if b.UseGravity {
		acc = acc.Add(gravity)
	}
	b.LinVel = b.LinVel.Add(acc.MulScalar(dt))
	b.AngVel = b.AngVel.Add(b.torque.DivScalar(b.inertia()).MulScalar(dt))
	if b.LinearDamping > 0 {
		b.LinVel = b.LinVel.MulScalar(math32.Max(0, 1-b.LinearDamping*dt))
	}
	if b.AngularDamping > 0 {
		b.AngVel = b.AngVel.MulScalar(math32.Max(0, 1-b.AngularDamping*dt))
	}
	b.clampAngVel()
	b.StepByLinVel(dt)
	b.StepByAngVel(dt)
}

func (b *Body) clampAngVel() {
	if b.MaxAngularVelocity <= 0 {
		return
	}
	if l := b.AngVel.Length(); l > b.MaxAngularVelocity {
		b.AngVel = b.AngVel.MulScalar(b.MaxAngularVelocity / l)
	}
}
