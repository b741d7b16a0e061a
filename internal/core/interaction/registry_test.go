package interaction

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/zeusync/grasp/internal/core/systems/physics"
)

func TestRegistryRoundTrip(t *testing.T) {
	r := NewRegistry()
	it := newItem("mug", math32.Vector3{})
	extra := physics.NewBoxCollider("handle", math32.Vec3(0.1, 0, 0), math32.Vec3(0.05, 0.1, 0.02))
	it.Body.AddCollider(extra)
	cs := it.Body.Colliders()

	r.Register(it, cs)
	for _, c := range cs {
		got, ok := r.Lookup(c)
		assert.True(t, ok)
		assert.Equal(t, Interactable(it), got)
	}

	r.Deregister(it)
	for _, c := range cs {
		_, ok := r.Lookup(c)
		assert.False(t, ok)
	}
	assert.Zero(t, r.Len())
}

func TestRegistryReplacesPriorEntries(t *testing.T) {
	r := NewRegistry()
	it := newItem("crate", math32.Vector3{})
	c1 := physics.NewBoxCollider("c1", math32.Vector3{}, math32.Vec3(1, 1, 1))
	c2 := physics.NewBoxCollider("c2", math32.Vector3{}, math32.Vec3(1, 1, 1))
	c3 := physics.NewBoxCollider("c3", math32.Vector3{}, math32.Vec3(1, 1, 1))

	r.Register(it, []*physics.Collider{c1, c2})
	r.Register(it, []*physics.Collider{c2, c3, c3})

	_, ok := r.Lookup(c1)
	assert.False(t, ok)
	assert.ElementsMatch(t, []*physics.Collider{c2, c3}, r.Colliders(it))
	assert.Equal(t, 2, r.Len())
}

func TestRegistryLastWriterWins(t *testing.T) {
	r := NewRegistry()
	a := newItem("a", math32.Vector3{})
	b := newItem("b", math32.Vector3{})
	shared := physics.NewBoxCollider("shared", math32.Vector3{}, math32.Vec3(1, 1, 1))
	own := physics.NewBoxCollider("own", math32.Vector3{}, math32.Vec3(1, 1, 1))

	r.Register(a, []*physics.Collider{shared, own})
	r.Register(b, []*physics.Collider{shared})

	got, _ := r.Lookup(shared)
	assert.Equal(t, Interactable(b), got)
	assert.Equal(t, []*physics.Collider{own}, r.Colliders(a))

	r.Deregister(a)
	got, ok := r.Lookup(shared)
	assert.True(t, ok)
	assert.Equal(t, Interactable(b), got)
}

func TestRegistryMissIsNotAnError(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup(physics.NewBoxCollider("x", math32.Vector3{}, math32.Vec3(1, 1, 1)))
	assert.False(t, ok)
	r.Deregister(newItem("never", math32.Vector3{}))
}
