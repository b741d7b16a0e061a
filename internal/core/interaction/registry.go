package interaction

import (
	"github.com/zeusync/grasp/internal/core/systems/physics"
)

// Registry maps colliders to the interactable that owns them. It is how a
// hand resolves a touched collider into something it can grab.
//
// The registry is mutated only on the simulation thread and has no lock.
type Registry struct {
	byCollider map[*physics.Collider]Interactable
	byOwner    map[Interactable][]*physics.Collider
}

func NewRegistry() *Registry {
	return &Registry{
		byCollider: make(map[*physics.Collider]Interactable),
		byOwner:    make(map[Interactable][]*physics.Collider),
	}
}

// Register maps every collider to i. Entries i held before are dropped
// first, so a re-registration after the collider set changed leaves no
// stale keys. A collider claimed by another interactable moves to i.
func (r *Registry) Register(i Interactable, colliders []*physics.Collider) {
	r.Deregister(i)
	owned := make([]*physics.Collider, 0, len(colliders))
	for _, c := range colliders {
		if c == nil {
			continue
		}
		if prev, ok := r.byCollider[c]; ok && prev != i {
			r.drop(prev, c)
		}
		if r.byCollider[c] == i {
			continue
		}
		r.byCollider[c] = i
		owned = append(owned, c)
	}
	if len(owned) > 0 {
		r.byOwner[i] = owned
	}
}

// Deregister removes every collider mapped to i.
func (r *Registry) Deregister(i Interactable) {
	for _, c := range r.byOwner[i] {
		if r.byCollider[c] == i {
			delete(r.byCollider, c)
		}
	}
	delete(r.byOwner, i)
}

// Lookup returns the owner of c. A miss means c is not an interactable.
func (r *Registry) Lookup(c *physics.Collider) (Interactable, bool) {
	i, ok := r.byCollider[c]
	return i, ok
}

// Colliders returns the colliders currently mapped to i.
func (r *Registry) Colliders(i Interactable) []*physics.Collider {
	return append([]*physics.Collider(nil), r.byOwner[i]...)
}

// Len is the number of mapped colliders.
func (r *Registry) Len() int { return len(r.byCollider) }

func (r *Registry) drop(owner Interactable, c *physics.Collider) {
	list := r.byOwner[owner]
	for k, cc := range list {
		if cc == c {
			list = append(list[:k], list[k+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.byOwner, owner)
		return
	}
	r.byOwner[owner] = list
}
