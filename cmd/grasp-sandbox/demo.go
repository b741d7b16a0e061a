package main

import (
	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/backend/mock"
	"github.com/zeusync/grasp/internal/core/events"
	"github.com/zeusync/grasp/internal/core/interaction"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/systems/physics"
	"github.com/zeusync/grasp/internal/core/tracking"
	"github.com/zeusync/grasp/internal/session"
)

// demoScript reaches for a mug with the right hand, lifts it, throws it
// and then pulls a lever. It only drives the mock backend.
type demoScript struct {
	s      *session.Session
	mock   *mock.Backend
	right  *interaction.ScriptedInput
	logger log.Log
	rest   math32.Vector3
}

func newDemoScript(s *session.Session, right *interaction.ScriptedInput) *demoScript {
	b, ok := s.Backend().(*mock.Backend)
	if !ok {
		s.Logger().Warn("demo needs the mock backend, skipping", log.String("backend", string(s.Backend().Kind())))
		return nil
	}
	d := &demoScript{
		s:      s,
		mock:   b,
		right:  right,
		logger: s.Logger().Named("demo"),
		rest:   mock.StandingFrame().Right.Pos,
	}
	s.Bus().SubscribeAll(func(e events.Event) error {
		if n, ok := e.Data().(interaction.Notice); ok {
			d.logger.Info(e.Type(), log.String("object", n.Interactable.Core().Name))
		}
		return nil
	})
	return d
}

func (d *demoScript) hand(pos math32.Vector3) {
	d.mock.SetHand(tracking.Right, tracking.NewPose(pos, tracking.IdentityQuat()))
}

func (d *demoScript) step(frame int) {
	if d == nil {
		return
	}
	switch frame {
	case 2:
		d.spawn()
	case 10:
		d.right.Press(interaction.ButtonHold)
	case 40:
		d.hand(d.rest.Add(math32.Vec3(0, 0.4, 0)))
	case 60:
		d.hand(d.rest.Add(math32.Vec3(0, 0.5, -0.3)))
	case 62:
		d.right.Release(interaction.ButtonHold)
	case 90:
		d.hand(math32.Vec3(0.6, 1.2, -0.3))
	case 92:
		d.right.Press(interaction.ButtonHold)
	case 100:
		d.hand(math32.Vec3(0.6, 1.4, -0.3))
	case 140:
		d.right.Release(interaction.ButtonHold)
		d.hand(d.rest)
		for _, i := range d.s.Scene().Interactables() {
			if r, ok := i.(*interaction.Rotator); ok {
				d.logger.Info("lever angle", log.Float32("degrees", r.CurrentAngle()))
			}
		}
	}
}

func (d *demoScript) spawn() {
	mug := physics.NewBody("mug", 0.3)
	mug.Pos = d.rest
	mug.UseGravity = false
	mug.AddCollider(physics.NewBoxCollider("mug", math32.Vector3{}, math32.Vec3(0.08, 0.1, 0.08)))
	if _, err := d.s.NewItem("mug", mug); err != nil {
		d.logger.Error("spawn mug", log.Error(err))
	}

	lever := physics.NewBody("lever", 2)
	lever.Pos = math32.Vec3(0.6, 1.1, -0.3)
	lever.UseGravity = false
	lever.AddCollider(physics.NewBoxCollider("lever", math32.Vec3(0, 0.1, 0), math32.Vec3(0.04, 0.2, 0.04)))
	if _, err := d.s.NewRotator("lever", lever); err != nil {
		d.logger.Error("spawn lever", log.Error(err))
	}
}
