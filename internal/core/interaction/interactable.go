// Package interaction is the grab layer: interactables and their attach
// state machine, the hands that drive it, the collider registry that links
// the two, and the scene that ticks them in a fixed order.
package interaction

import (
	"cogentcore.org/core/math32"
	"github.com/google/uuid"
	"github.com/zeusync/grasp/internal/core/systems/physics"
)

// NeverDrop disables distance-based release.
const NeverDrop float32 = -1

// DefaultCullHeight is the vertical distance from the origin past which an
// object is considered fallen out of the world.
const DefaultCullHeight float32 = 10000

// Interactable is an object a hand can hold. Implementations embed *Base
// and override the hooks they specialise.
type Interactable interface {
	Core() *Base

	// BeginInteraction attaches h. It returns false, changing nothing, when
	// the object cannot attach or is already held.
	BeginInteraction(h *Hand) bool
	// EndInteraction releases the object. On a free object it does nothing.
	EndInteraction()

	// InteractingUpdate runs each presentation tick while h holds the object.
	InteractingUpdate(h *Hand)
	// HoveringUpdate runs each presentation tick while h hovers the object.
	HoveringUpdate(h *Hand, forTime float32)

	GraspTargetBegin(h *Hand)
	GraspTargetEnd(h *Hand)

	// FixedUpdate applies the subtype's forces on the fixed tick.
	FixedUpdate(dt float32)
}

// Defaults configures newly created interactables.
type Defaults struct {
	CanAttach                bool    `yaml:"can_attach"`
	DisableKinematicOnAttach bool    `yaml:"disable_kinematic_on_attach"`
	EnableKinematicOnDetach  bool    `yaml:"enable_kinematic_on_detach"`
	EnableGravityOnDetach    bool    `yaml:"enable_gravity_on_detach"`
	DropDistance             float32 `yaml:"drop_distance"`
}

func DefaultDefaults() Defaults {
	return Defaults{
		CanAttach:                true,
		DisableKinematicOnAttach: true,
		DropDistance:             1,
	}
}

var _ Interactable = (*Base)(nil)

// Base is the attach state machine shared by every interactable. The
// object is Free exactly when AttachedHand is nil.
type Base struct {
	Defaults

	Name string
	Body *physics.Body

	// Use button hooks, called while attached.
	OnUseButtonDown func()
	OnUseButtonUp   func()
	// OnHover is called each tick a hand hovers the object.
	OnHover func(h *Hand, forTime float32)

	id    uuid.UUID
	self  Interactable
	scene *Scene

	attached         *Hand
	graspTargets     int
	colliders        []*physics.Collider
	closestHeldPoint math32.Vector3
	doomed           bool
	destroyed        bool
}

// NewBase returns a free interactable over body. Subtypes pass themselves
// as self so that state transitions dispatch to their overrides.
func NewBase(name string, body *physics.Body, d Defaults, self Interactable) *Base {
	b := &Base{
		Defaults: d,
		Name:     name,
		Body:     body,
		id:       uuid.New(),
	}
	b.self = self
	if self == nil {
		b.self = b
	}
	return b
}

func (b *Base) Core() *Base { return b }

func (b *Base) ID() uuid.UUID { return b.id }

// Self returns the outermost interactable embedding b.
func (b *Base) Self() Interactable { return b.self }

func (b *Base) Scene() *Scene { return b.scene }

func (b *Base) AttachedHand() *Hand { return b.attached }

func (b *Base) IsAttached() bool { return b.attached != nil }

func (b *Base) GraspTargetCount() int { return b.graspTargets }

func (b *Base) IsTargetedByGrasp() bool { return b.graspTargets > 0 }

// ClosestHeldPoint is the bounds point nearest the hand at the last drop
// check. It is zero while free.
func (b *Base) ClosestHeldPoint() math32.Vector3 { return b.closestHeldPoint }

func (b *Base) Colliders() []*physics.Collider {
	return append([]*physics.Collider(nil), b.colliders...)
}

// MarkedForDestroy reports that a cull condemned the object.
func (b *Base) MarkedForDestroy() bool { return b.doomed }

func (b *Base) Destroyed() bool { return b.destroyed }

// Attachable reports whether a free hand could attach right now.
func (b *Base) Attachable() bool {
	return b.Body != nil && b.CanAttach && b.attached == nil && !b.destroyed && !b.doomed
}

func (b *Base) BeginInteraction(h *Hand) bool {
	if h == nil || !b.Attachable() {
		return false
	}
	b.attached = h
	if b.DisableKinematicOnAttach && b.Body != nil {
		b.Body.Kinematic = false
	}
	return true
}

func (b *Base) EndInteraction() {
	if b.attached == nil {
		return
	}
	b.attached = nil
	b.closestHeldPoint = math32.Vector3{}
	if b.Body == nil {
		return
	}
	if b.EnableKinematicOnDetach {
		b.Body.Kinematic = true
	}
	if b.EnableGravityOnDetach {
		b.Body.UseGravity = true
	}
}

func (b *Base) InteractingUpdate(h *Hand) {
	if h.UseButtonUp() && b.OnUseButtonUp != nil {
		b.OnUseButtonUp()
	}
	if h.UseButtonDown() && b.OnUseButtonDown != nil {
		b.OnUseButtonDown()
	}
}

func (b *Base) HoveringUpdate(h *Hand, forTime float32) {
	if b.OnHover != nil {
		b.OnHover(h, forTime)
	}
}

func (b *Base) GraspTargetBegin(*Hand) { b.graspTargets++ }

func (b *Base) GraspTargetEnd(*Hand) {
	b.graspTargets = max(b.graspTargets-1, 0)
}

func (b *Base) FixedUpdate(float32) {}

// ForceDetach releases the object through its hand, so the hand forgets it
// in the same step.
func (b *Base) ForceDetach() {
	if b.attached != nil {
		b.attached.EndInteraction(b.self)
	}
	if b.attached != nil {
		b.self.EndInteraction()
	}
}

// CheckForDrop releases the object when the holding hand is farther than
// DropDistance from every collider. Distance is measured to each
// collider's world bounds rather than its surface, which makes the check
// lenient for rotated or non-box shapes. An object without colliders is
// never dropped.
func (b *Base) CheckForDrop() bool {
	if b.attached == nil || len(b.colliders) == 0 {
		return false
	}
	hand := b.attached.Position()
	shortest := math32.Inf(1)
	for _, c := range b.colliders {
		closest := c.ClosestPointOnBounds(hand)
		if d := hand.DistanceTo(closest); d < shortest {
			shortest = d
			b.closestHeldPoint = closest
		}
	}
	if b.DropDistance == NeverDrop || shortest <= b.DropDistance {
		return false
	}
	h := b.attached
	h.EndInteraction(b.self)
	if b.scene != nil {
		b.scene.droppedByDistance(b.self, h, shortest)
	}
	return true
}

// UpdateColliders re-reads the body's colliders and replaces the
// registry entries.
func (b *Base) UpdateColliders() {
	if b.Body == nil {
		b.colliders = nil
	} else {
		b.colliders = b.Body.Colliders()
	}
	if b.scene != nil {
		b.scene.registry.Register(b.self, b.colliders)
	}
}

// ResetInteractable re-reads colliders and forgets the holding hand
// without running the detach side effects.
func (b *Base) ResetInteractable() {
	b.UpdateColliders()
	if b.attached != nil {
		b.attached.forget(b.self)
	}
	b.attached = nil
	b.closestHeldPoint = math32.Vector3{}
}

func (b *Base) AddExternalVelocity(v math32.Vector3) {
	if b.Body != nil {
		b.Body.AddForce(v, physics.ForceModeVelocityChange)
	}
}

func (b *Base) AddExternalAngularVelocity(w math32.Vector3) {
	if b.Body != nil {
		b.Body.AddTorque(w, physics.ForceModeVelocityChange)
	}
}

// outOfWorld reports whether the body fell past the cull height.
func (b *Base) outOfWorld(limit float32) bool {
	if b.Body == nil {
		return false
	}
	return math32.Abs(b.Body.Pos.Y) > limit
}

// cull detaches an object that left the world and marks it for destroy.
func (b *Base) cull() {
	if b.attached != nil {
		b.attached.EndInteraction(b.self)
	}
	b.doomed = true
}
