package interaction

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/grasp/internal/core/events"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/systems"
	"github.com/zeusync/grasp/internal/core/systems/physics"
	"github.com/zeusync/grasp/internal/core/tracking"
)

func assertFreeInvariant(t *testing.T, i Interactable, hands ...*Hand) {
	t.Helper()
	core := i.Core()
	holder := heldBy(i, hands...)
	assert.Equal(t, core.AttachedHand() == nil, holder == nil)
	if holder != nil {
		assert.Same(t, holder, core.AttachedHand())
	}
	assert.GreaterOrEqual(t, core.GraspTargetCount(), 0)
}

func TestBeginIsExclusive(t *testing.T) {
	it := newItem("ball", math32.Vector3{})
	left, _ := newHand(tracking.Left, math32.Vector3{})
	right, _ := newHand(tracking.Right, math32.Vector3{})

	assert.True(t, left.BeginInteraction(it))
	assert.False(t, right.BeginInteraction(it))
	assert.Same(t, left, it.AttachedHand())
	assert.Nil(t, right.CurrentlyInteracting())
	assertFreeInvariant(t, it, left, right)
}

func TestBeginRespectsCanAttachAndKinematic(t *testing.T) {
	it := newItem("ball", math32.Vector3{})
	it.Body.Kinematic = true
	it.CanAttach = false
	h, _ := newHand(tracking.Left, math32.Vector3{})
	assert.False(t, h.BeginInteraction(it))
	assert.True(t, it.Body.Kinematic)

	it.CanAttach = true
	assert.True(t, h.BeginInteraction(it))
	assert.False(t, it.Body.Kinematic)
}

func TestEndIsIdempotent(t *testing.T) {
	it := newItem("ball", math32.Vector3{})
	it.EnableKinematicOnDetach = true
	it.EnableGravityOnDetach = true
	it.Body.UseGravity = false
	h, _ := newHand(tracking.Left, math32.Vector3{})
	require.True(t, h.BeginInteraction(it))

	it.EndInteraction()
	once := *it.Body
	onceHeld := it.ClosestHeldPoint()
	it.EndInteraction()

	assert.Nil(t, it.AttachedHand())
	assert.Equal(t, once, *it.Body)
	assert.Equal(t, onceHeld, it.ClosestHeldPoint())
	assert.True(t, it.Body.Kinematic)
	assert.True(t, it.Body.UseGravity)
}

func TestForceDetachClearsHand(t *testing.T) {
	it := newItem("ball", math32.Vector3{})
	h, _ := newHand(tracking.Left, math32.Vector3{})
	require.True(t, h.BeginInteraction(it))

	it.ForceDetach()
	assert.Nil(t, it.AttachedHand())
	assert.Nil(t, h.CurrentlyInteracting())
	assertFreeInvariant(t, it, h)

	it.ForceDetach()
	assert.Nil(t, it.AttachedHand())
}

func TestGraspTargetCountFloorsAtZero(t *testing.T) {
	it := newItem("ball", math32.Vector3{})
	h, _ := newHand(tracking.Left, math32.Vector3{})
	it.GraspTargetEnd(h)
	it.GraspTargetEnd(h)
	assert.Zero(t, it.GraspTargetCount())

	it.GraspTargetBegin(h)
	it.GraspTargetBegin(h)
	assert.Equal(t, 2, it.GraspTargetCount())
	assert.True(t, it.IsTargetedByGrasp())
	for range 5 {
		it.GraspTargetEnd(h)
	}
	assert.Zero(t, it.GraspTargetCount())
	assert.False(t, it.IsTargetedByGrasp())
}

func TestDropDistance(t *testing.T) {
	tests := []struct {
		name     string
		handX    float32
		attached bool
	}{
		// the cube's bounds end at x = 0.1
		{"beyond threshold", 1.6, false},
		{"within threshold", 1.0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newScene()
			it := newItem("crate", math32.Vector3{})
			it.DropDistance = 1
			require.NoError(t, s.Add(it))
			h, _ := newHand(tracking.Left, math32.Vector3{})
			require.NoError(t, s.AddHand(h))
			require.True(t, h.BeginInteraction(it))

			moveHand(h, math32.Vec3(tt.handX, 0, 0))
			s.FixedInteract(ExpectedDeltaTime)
			s.FixedCull(ExpectedDeltaTime)

			assert.Equal(t, tt.attached, it.IsAttached())
			assertFreeInvariant(t, it, h)
			if !tt.attached {
				assert.Equal(t, 1, rec.counts[events.InteractableDropped])
				assert.Equal(t, 1, rec.counts[events.InteractableDetached])
				assert.Equal(t, math32.Vector3{}, it.ClosestHeldPoint())
			} else {
				assert.InDelta(t, 0.1, it.ClosestHeldPoint().X, 1e-6)
			}
		})
	}
}

func TestNeverDrop(t *testing.T) {
	s, _ := newScene()
	it := newItem("crate", math32.Vector3{})
	it.DropDistance = NeverDrop
	require.NoError(t, s.Add(it))
	h, _ := newHand(tracking.Left, math32.Vector3{})
	require.NoError(t, s.AddHand(h))
	require.True(t, h.BeginInteraction(it))

	moveHand(h, math32.Vec3(100, 0, 0))
	s.FixedCull(ExpectedDeltaTime)
	assert.True(t, it.IsAttached())
}

func TestObjectWithoutCollidersIsNotDropped(t *testing.T) {
	s, _ := newScene()
	it := NewItem("ghost", physics.NewBody("ghost", 1), DefaultDefaults())
	require.NoError(t, s.Add(it))
	h, _ := newHand(tracking.Left, math32.Vector3{})
	require.True(t, h.BeginInteraction(it))
	moveHand(h, math32.Vec3(50, 0, 0))
	assert.False(t, it.CheckForDrop())
	assert.True(t, it.IsAttached())
}

func TestDropThroughScheduler(t *testing.T) {
	s, _ := newScene()
	it := newItem("crate", math32.Vector3{})
	it.Body.UseGravity = false
	require.NoError(t, s.Add(it))
	h, _ := newHand(tracking.Left, math32.Vector3{})
	require.NoError(t, s.AddHand(h))
	require.True(t, h.BeginInteraction(it))

	m, err := systems.NewManager(ExpectedDeltaTime, log.NewNop())
	require.NoError(t, err)
	for _, sys := range s.Systems() {
		require.NoError(t, m.RegisterSystem(sys))
	}

	moveHand(h, math32.Vec3(1.6, 0, 0))
	require.NoError(t, m.Frame(ExpectedDeltaTime))
	assert.Equal(t, uint64(1), m.FixedStepCount())
	assert.False(t, it.IsAttached())
	assertFreeInvariant(t, it, h)
}

func TestCullDetachesAndDestroys(t *testing.T) {
	s, rec := newScene()
	it := newItem("rock", math32.Vector3{})
	require.NoError(t, s.Add(it))
	h, _ := newHand(tracking.Right, math32.Vector3{})
	require.NoError(t, s.AddHand(h))
	require.True(t, h.BeginInteraction(it))
	colliders := it.Colliders()

	it.Body.Pos.Y = -10001
	s.FixedCull(ExpectedDeltaTime)

	assert.Nil(t, it.AttachedHand())
	assert.Nil(t, h.CurrentlyInteracting())
	assert.True(t, it.Destroyed())
	assert.Empty(t, s.Interactables())
	for _, c := range colliders {
		_, ok := s.Registry().Lookup(c)
		assert.False(t, ok)
	}
	assert.NotContains(t, s.World().Bodies(), it.Body)
	assert.Equal(t, 1, rec.counts[events.InteractableCulled])
	assert.Equal(t, 1, rec.counts[events.InteractableDestroyed])
	assert.False(t, h.BeginInteraction(it))
}

func TestDestroyWhileAttached(t *testing.T) {
	s, _ := newScene()
	it := newItem("cup", math32.Vector3{})
	require.NoError(t, s.Add(it))
	h, _ := newHand(tracking.Left, math32.Vector3{})
	require.NoError(t, s.AddHand(h))
	require.True(t, h.BeginInteraction(it))

	s.Destroy(it)
	assert.Nil(t, h.CurrentlyInteracting())
	assert.Nil(t, it.AttachedHand())
	assert.Zero(t, s.Registry().Len())
	assert.ErrorIs(t, s.Add(it), ErrDestroyed)
	s.Destroy(it)
}

func TestDestroyThroughEmbeddedBase(t *testing.T) {
	s, _ := newScene()
	it := newItem("cup", math32.Vector3{})
	require.NoError(t, s.Add(it))
	h, _ := newHand(tracking.Left, math32.Vector3{})
	require.NoError(t, s.AddHand(h))
	require.True(t, h.BeginInteraction(it))

	s.Destroy(it.Core())
	assert.True(t, it.Destroyed())
	assert.Nil(t, h.CurrentlyInteracting())
	for _, c := range it.Colliders() {
		_, ok := s.Registry().Lookup(c)
		assert.False(t, ok)
	}
	assert.Zero(t, s.Registry().Len())
	assert.Empty(t, s.Interactables())
	assert.NotContains(t, s.World().Bodies(), it.Body)
}

func TestAddThroughEmbeddedBase(t *testing.T) {
	s, _ := newScene()
	it := newItem("cup", math32.Vector3{})
	require.NoError(t, s.Add(it.Base))

	require.Len(t, s.Interactables(), 1)
	assert.Same(t, it, s.Interactables()[0])
	owner, ok := s.Registry().Lookup(it.Colliders()[0])
	require.True(t, ok)
	assert.Same(t, it, owner)
	assert.ErrorIs(t, s.Add(it), ErrAlreadyAdded)

	h, _ := newHand(tracking.Left, math32.Vec3(0, 0.1, 0))
	require.NoError(t, s.AddHand(h))
	require.True(t, h.BeginInteraction(it))
	moveHand(h, math32.Vec3(0, 0.2, 0))
	s.FixedInteract(ExpectedDeltaTime)
	assert.Greater(t, it.Body.LinVel.Y, float32(0))
}

func TestUpdateCollidersPicksUpRuntimeChildren(t *testing.T) {
	s, _ := newScene()
	it := newItem("table", math32.Vector3{})
	require.NoError(t, s.Add(it))
	before := it.Colliders()

	leg := physics.NewBoxCollider("leg", math32.Vec3(0, -0.5, 0), math32.Vec3(0.05, 1, 0.05))
	it.Body.AddCollider(leg)
	old := before[0]
	it.Body.RemoveCollider(old)
	it.UpdateColliders()

	got, ok := s.Registry().Lookup(leg)
	assert.True(t, ok)
	assert.Equal(t, Interactable(it), got)
	_, ok = s.Registry().Lookup(old)
	assert.False(t, ok)
}

func TestResetInteractable(t *testing.T) {
	s, _ := newScene()
	it := newItem("cup", math32.Vector3{})
	require.NoError(t, s.Add(it))
	h, _ := newHand(tracking.Left, math32.Vector3{})
	require.True(t, h.BeginInteraction(it))

	it.ResetInteractable()
	assert.Nil(t, it.AttachedHand())
	assert.Nil(t, h.CurrentlyInteracting())
	assert.Equal(t, 1, s.Registry().Len())
}

func TestSceneAddErrors(t *testing.T) {
	s, _ := newScene()
	assert.ErrorIs(t, s.Add(NewItem("nobody", nil, DefaultDefaults())), ErrNoBody)
	it := newItem("x", math32.Vector3{})
	require.NoError(t, s.Add(it))
	assert.ErrorIs(t, s.Add(it), ErrAlreadyAdded)
}

func TestExternalVelocity(t *testing.T) {
	it := newItem("ball", math32.Vector3{})
	it.AddExternalVelocity(math32.Vec3(1, 2, 3))
	it.AddExternalAngularVelocity(math32.Vec3(0, 1, 0))
	assert.Equal(t, math32.Vec3(1, 2, 3), it.Body.LinVel)
	assert.Equal(t, math32.Vec3(0, 1, 0), it.Body.AngVel)
}
