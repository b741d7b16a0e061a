package physics

import (
	"cogentcore.org/core/math32"
)

// Collider is an oriented box attached to a body, described in body space.
type Collider struct {
	Name string

	// Center of the box in body space.
	Center math32.Vector3

	// Size is the full extent of the box along each body axis.
	Size math32.Vector3

	// IsTrigger colliders report overlaps but are not solid.
	IsTrigger bool

	body *Body
}

func NewBoxCollider(name string, center, size math32.Vector3) *Collider {
	return &Collider{Name: name, Center: center, Size: size}
}

// NewSphereTrigger returns a trigger whose bounds enclose a sphere of the given radius.
func NewSphereTrigger(name string, center math32.Vector3, radius float32) *Collider {
	d := 2 * radius
	return &Collider{Name: name, Center: center, Size: math32.Vec3(d, d, d), IsTrigger: true}
}

// Body returns the owning body, nil when detached.
func (c *Collider) Body() *Body { return c.body }

// Bounds is the world-space axis aligned box enclosing the collider.
func (c *Collider) Bounds() math32.Box3 {
	half := c.Size.MulScalar(0.5)
	local := math32.Box3{Min: c.Center.Sub(half), Max: c.Center.Add(half)}
	if c.body == nil {
		return local
	}
	pose := c.body.Pose()
	return local.MulQuat(pose.Rot).Translate(pose.Pos)
}

// ClosestPointOnBounds returns the point of the world bounds nearest to p.
// This is measured against the axis aligned bounds, not the collider surface,
// so for rotated boxes it under-reports the true distance.
func (c *Collider) ClosestPointOnBounds(p math32.Vector3) math32.Vector3 {
	return c.Bounds().ClampPoint(p)
}
