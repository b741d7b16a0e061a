// Package physics is a small rigid body simulation: bodies with box colliders,
// force modes, gravity and axis aligned overlap queries.
package physics

import (
	"slices"

	"cogentcore.org/core/math32"
)

// DefaultGravity points down the Y axis.
var DefaultGravity = math32.Vec3(0, -9.81, 0)

// World owns the simulated bodies. Bodies step in insertion order.
type World struct {
	Gravity math32.Vector3
	bodies  []*Body
}

func NewWorld() *World {
	return &World{Gravity: DefaultGravity}
}

// Add inserts a body; adding twice is a no-op.
func (w *World) Add(b *Body) {
	if b.world == w {
		return
	}
	b.world = w
	w.bodies = append(w.bodies, b)
}

// Remove deletes a body; removing an absent body is a no-op.
func (w *World) Remove(b *Body) {
	i := slices.Index(w.bodies, b)
	if i < 0 {
		return
	}
	w.bodies = slices.Delete(w.bodies, i, i+1)
	b.world = nil
}

func (w *World) Bodies() []*Body {
	return slices.Clone(w.bodies)
}

func (w *World) Len() int { return len(w.bodies) }

// Step integrates every body by dt seconds.
func (w *World) Step(dt float32) {
	for _, b := range w.bodies {
		b.Step(dt, w.Gravity)
	}
}

// Overlapping appends to out every collider whose bounds intersect box,
// skipping colliders owned by the exclude body.
func (w *World) Overlapping(box math32.Box3, exclude *Body, out []*Collider) []*Collider {
	for _, b := range w.bodies {
		if b == exclude {
			continue
		}
		for _, c := range b.colliders {
			if c.Bounds().IntersectsBox(box) {
				out = append(out, c)
			}
		}
	}
	return out
}
