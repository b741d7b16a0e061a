package interaction

import (
	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/events"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/systems/physics"
	"github.com/zeusync/grasp/internal/core/tracking"
)

func cube(name string, pos math32.Vector3, size float32) *physics.Body {
	b := physics.NewBody(name, 1)
	b.Pos = pos
	b.AddCollider(physics.NewBoxCollider(name+"_box", math32.Vector3{}, math32.Vec3(size, size, size)))
	return b
}

func newItem(name string, pos math32.Vector3) *Item {
	return NewItem(name, cube(name, pos, 0.2), DefaultDefaults())
}

func newHand(side tracking.Side, pos math32.Vector3) (*Hand, *ScriptedInput) {
	tr := tracking.NewTracker(side.String())
	tr.SetWorld(tracking.NewPose(pos, tracking.IdentityQuat()))
	in := NewScriptedInput()
	return NewHand(side, tr, in, DefaultHandConfig(), log.NewNop()), in
}

func moveHand(h *Hand, pos math32.Vector3) {
	h.Tracker().SetWorld(tracking.NewPose(pos, tracking.IdentityQuat()))
}

// recorder counts published event types.
type recorder struct {
	counts map[string]int
}

func record(bus events.Bus) *recorder {
	r := &recorder{counts: map[string]int{}}
	bus.SubscribeAll(func(e events.Event) error {
		r.counts[e.Type()]++
		return nil
	})
	return r
}

func newScene() (*Scene, *recorder) {
	bus := events.New()
	return NewScene(physics.NewWorld(), bus, SceneConfig{}, log.NewNop()), record(bus)
}

// heldBy returns the hand whose current object is i.
func heldBy(i Interactable, hands ...*Hand) *Hand {
	for _, h := range hands {
		if h.CurrentlyInteracting() == i {
			return h
		}
	}
	return nil
}
