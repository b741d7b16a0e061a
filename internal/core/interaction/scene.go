package interaction

import (
	"slices"

	"github.com/zeusync/grasp/internal/core/events"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/systems"
	"github.com/zeusync/grasp/internal/core/systems/physics"
)

// SceneConfig tunes the scene.
type SceneConfig struct {
	CullHeight float32
}

// Scene owns the collider registry, the hands and the interactables of a
// session and ticks them in a fixed order: hands left then right, objects
// in the order they were added.
type Scene struct {
	cfg      SceneConfig
	world    *physics.World
	registry *Registry
	bus      events.Bus
	logger   log.Log

	hands []*Hand
	items []Interactable
}

func NewScene(world *physics.World, bus events.Bus, cfg SceneConfig, logger log.Log) *Scene {
	if cfg.CullHeight <= 0 {
		cfg.CullHeight = DefaultCullHeight
	}
	if logger == nil {
		logger = log.NewNop()
	}
	if world == nil {
		world = physics.NewWorld()
	}
	return &Scene{
		cfg:      cfg,
		world:    world,
		registry: NewRegistry(),
		bus:      bus,
		logger:   logger.Named("interaction"),
	}
}

func (s *Scene) Registry() *Registry { return s.registry }

func (s *Scene) World() *physics.World { return s.world }

// Hands returns the hands in iteration order.
func (s *Scene) Hands() []*Hand { return slices.Clone(s.hands) }

// Interactables returns the live interactables in tick order.
func (s *Scene) Interactables() []Interactable { return slices.Clone(s.items) }

// AddHand places h in the scene. Hands tick in side order, left first.
func (s *Scene) AddHand(h *Hand) error {
	for _, o := range s.hands {
		if o.side == h.side {
			return ErrHandSide
		}
	}
	h.scene = s
	s.world.Add(h.body)
	s.hands = append(s.hands, h)
	slices.SortStableFunc(s.hands, func(a, b *Hand) int { return int(a.side) - int(b.side) })
	return nil
}

// Add registers an interactable and its colliders. An embedded *Base
// stands for the object that embeds it.
func (s *Scene) Add(i Interactable) error {
	i = i.Core().Self()
	core := i.Core()
	switch {
	case core.Body == nil:
		return ErrNoBody
	case core.destroyed:
		return ErrDestroyed
	case core.scene != nil:
		return ErrAlreadyAdded
	}
	core.scene = s
	s.world.Add(core.Body)
	core.UpdateColliders()
	s.items = append(s.items, i)
	s.logger.Debug("interactable added", log.String("name", core.Name), log.Int("colliders", len(core.colliders)))
	s.publish(events.InteractableAdded, i, nil)
	return nil
}

// Destroy tears an interactable down: it is force-detached first, then
// removed from the registry, every hand and the physics world.
func (s *Scene) Destroy(i Interactable) {
	i = i.Core().Self()
	core := i.Core()
	if core.destroyed || core.scene != s {
		return
	}
	core.ForceDetach()
	s.registry.Deregister(i)
	for _, h := range s.hands {
		h.DeregisterInteractable(i)
	}
	s.world.Remove(core.Body)
	s.items = slices.DeleteFunc(s.items, func(o Interactable) bool { return o == i })
	core.destroyed = true
	s.publish(events.InteractableDestroyed, i, nil)
}

// UpdateHands runs the input stage for every hand.
func (s *Scene) UpdateHands(dt float32) {
	for _, h := range s.hands {
		h.Update(dt)
	}
}

// FixedInteract records hand motion and applies holding forces.
func (s *Scene) FixedInteract(dt float32) {
	for _, h := range s.hands {
		h.recordMotion(dt)
	}
	for _, i := range slices.Clone(s.items) {
		i.FixedUpdate(dt)
	}
}

// FixedCull runs the distance drop for held objects, culls anything that
// left the world and destroys what was culled.
func (s *Scene) FixedCull(float32) {
	var doomed []Interactable
	for _, i := range slices.Clone(s.items) {
		core := i.Core()
		if core.attached != nil {
			core.CheckForDrop()
		}
		if core.outOfWorld(s.cfg.CullHeight) {
			core.cull()
			s.logger.Warn("interactable left the world", log.String("name", core.Name), log.Float32("y", core.Body.Pos.Y))
			s.publish(events.InteractableCulled, i, nil)
		}
		if core.doomed {
			doomed = append(doomed, i)
		}
	}
	for _, i := range doomed {
		s.Destroy(i)
	}
}

// Systems returns the scene's stages for the tick scheduler.
func (s *Scene) Systems() []systems.System {
	return []systems.System{
		systems.NewFunc("hands", systems.PhaseInput, systems.PriorityNormal, func(dt float32) error {
			s.UpdateHands(dt)
			return nil
		}),
		systems.NewFunc("interact", systems.PhaseFixedInteract, systems.PriorityNormal, func(dt float32) error {
			s.FixedInteract(dt)
			return nil
		}),
		systems.NewFunc("cull", systems.PhaseFixedCull, systems.PriorityNormal, func(dt float32) error {
			s.FixedCull(dt)
			return nil
		}),
		systems.NewFunc("physics", systems.PhaseFixedPhysics, systems.PriorityNormal, func(dt float32) error {
			s.world.Step(dt)
			return nil
		}),
	}
}

func (s *Scene) droppedByDistance(i Interactable, h *Hand, dist float32) {
	s.logger.Info("dropped by distance",
		log.String("name", i.Core().Name),
		log.Stringer("hand", h.side),
		log.Float32("distance", dist),
	)
	s.publish(events.InteractableDropped, i, h)
}

// Notice is the payload of interaction events.
type Notice struct {
	Interactable Interactable
	Hand         *Hand
}

func (s *Scene) publish(typ string, i Interactable, h *Hand) {
	if s == nil || s.bus == nil {
		return
	}
	if err := s.bus.Publish(events.NewEvent(typ, i.Core().Name, Notice{Interactable: i, Hand: h})); err != nil {
		s.logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}
