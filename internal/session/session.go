// Package session wires one VR session together: it selects the backend,
// builds the player rig and the interaction scene, and schedules them on a
// single simulation thread.
package session

import (
	"fmt"
	"slices"

	"github.com/zeusync/grasp/internal/config"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/backend/bridge"
	"github.com/zeusync/grasp/internal/core/backend/oculus"
	"github.com/zeusync/grasp/internal/core/backend/openvr"
	"github.com/zeusync/grasp/internal/core/backend/psvr"
	"github.com/zeusync/grasp/internal/core/backend/selector"
	"github.com/zeusync/grasp/internal/core/backend/wmr"
	"github.com/zeusync/grasp/internal/core/events"
	"github.com/zeusync/grasp/internal/core/interaction"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/rig"
	"github.com/zeusync/grasp/internal/core/systems"
	"github.com/zeusync/grasp/internal/core/systems/physics"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// Hardware is what the host process links in. Nil runtimes are not
// available; nil inputs get a scripted device.
type Hardware struct {
	Device selector.XRDevice
	OpenVR openvr.Runtime
	Oculus oculus.Runtime
	WMR    wmr.Runtime
	PSVR   psvr.Runtime

	LeftInput  interaction.InputDevice
	RightInput interaction.InputDevice
}

// Session owns everything a running VR session needs. All methods must be
// called from the simulation goroutine.
type Session struct {
	cfg      *config.Config
	logger   log.Log
	bus      events.Bus
	backend  backend.Backend
	decision selector.Decision
	options  selector.Options
	failed   []backend.Kind
	failure  error

	world   *physics.World
	scene   *interaction.Scene
	manager *systems.Manager

	left, right *interaction.Hand
	player      *rig.Player
	duplicates  []*rig.Player

	initSub backend.ListenerID
	failSub backend.ListenerID
	closed  bool
}

// Failure is the payload of a BackendFailed event.
type Failure struct {
	Kind backend.Kind
	Err  error
}

func New(cfg *config.Config, hw Hardware, bus events.Bus, logger log.Log) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}
	if bus == nil {
		bus = events.New()
	}
	logger = logger.Named("session")

	manager, err := systems.NewManager(cfg.Physics.FixedDeltaTime, logger)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	manager.SetMaxFixedSteps(cfg.Physics.MaxFixedSteps)

	world := physics.NewWorld()
	world.Gravity = cfg.Physics.GravityVector()
	scene := interaction.NewScene(world, bus, interaction.SceneConfig{CullHeight: cfg.Physics.CullHeight}, logger)

	opts := selector.Options{
		Platform: cfg.Backends.Platform,
		Device:   hw.Device,
		OpenVR:   hw.OpenVR,
		Oculus:   hw.Oculus,
		WMR:      hw.WMR,
		PSVR:     hw.PSVR,
		Backend:  cfg.Backends.Display,
		PSVRCfg:  cfg.Backends.PSVR,
		Mock:     cfg.Backends.Mock,
		Bridge:   cfg.Backends.Bridge,
	}
	b, decision := selector.Select(opts, logger)

	s := &Session{
		cfg:      cfg,
		logger:   logger,
		bus:      bus,
		backend:  b,
		decision: decision,
		options:  opts,
		world:    world,
		scene:    scene,
		manager:  manager,
	}

	s.left = s.newHand(tracking.Left, hw.LeftInput)
	s.right = s.newHand(tracking.Right, hw.RightInput)
	for _, h := range []*interaction.Hand{s.left, s.right} {
		if err := scene.AddHand(h); err != nil {
			return nil, err
		}
	}

	s.player, err = rig.NewPlayer(tracking.NewTracker("head"), s.left, s.right, b, cfg.Player.Preview, logger)
	if err != nil {
		return nil, err
	}

	if err := s.registerSystems(); err != nil {
		return nil, err
	}
	s.watch(b)
	s.publish(events.BackendSelected, decision)
	return s, nil
}

func (s *Session) watch(b backend.Backend) {
	s.initSub = b.AddOnInitializedListener(s.backendInitialized)
	s.failSub = b.AddOnFailedListener(s.backendFailed)
}

func (s *Session) unwatch(b backend.Backend) {
	b.RemoveOnInitializedListener(s.initSub)
	b.RemoveOnFailedListener(s.failSub)
}

func (s *Session) newHand(side tracking.Side, in interaction.InputDevice) *interaction.Hand {
	if in == nil {
		in = interaction.NewScriptedInput()
	}
	return interaction.NewHand(side, tracking.NewTracker(side.String()), in, s.cfg.Player.Hand, s.logger)
}

func (s *Session) registerSystems() error {
	all := []systems.System{
		systems.NewFunc("backend", systems.PhasePose, systems.PriorityHighest, func(float32) error {
			s.backend.Update()
			if s.failure != nil {
				return s.fallback()
			}
			return nil
		}),
	}
	all = append(all, s.scene.Systems()...)
	for _, sys := range all {
		if err := s.manager.RegisterSystem(sys); err != nil {
			return fmt.Errorf("register %s: %w", sys.Name(), err)
		}
	}
	return nil
}

func (s *Session) backendInitialized() {
	s.logger.Info("integration initialized", log.String("backend", string(s.backend.Kind())))
	s.publish(events.BackendInitialized, s.decision)
}

// backendFailed runs inside the backend's Update; the switch to another
// backend happens once that Update has returned.
func (s *Session) backendFailed(err error) {
	if err == nil {
		err = backend.ErrNoRuntime
	}
	s.failure = err
}

// fallback replaces a backend whose bring-up failed. The failed kind is
// excluded from selection for the rest of the session, so the chain always
// ends on the headless mock.
func (s *Session) fallback() error {
	err := s.failure
	s.failure = nil
	old := s.backend
	s.failed = append(s.failed, old.Kind())
	s.logger.Warn("backend failed, selecting another",
		log.String("backend", string(old.Kind())),
		log.Error(err))
	s.publish(events.BackendFailed, Failure{Kind: old.Kind(), Err: err})

	s.unwatch(old)
	s.player.Close()

	opts := s.options
	opts.Exclude = slices.Clone(s.failed)
	b, decision := selector.Select(opts, s.logger)
	p, perr := rig.NewPlayer(s.player.Head(), s.left, s.right, b, s.cfg.Player.Preview, s.logger)
	if perr != nil {
		return fmt.Errorf("rebuild player: %w", perr)
	}
	s.backend = b
	s.decision = decision
	s.player = p
	s.watch(b)
	s.publish(events.BackendSelected, decision)
	if perr := p.Initialize(); perr != nil {
		return fmt.Errorf("fallback after %s: %w", old.Kind(), perr)
	}
	return nil
}

// Failed lists the backends whose bring-up failed, oldest first.
func (s *Session) Failed() []backend.Kind { return slices.Clone(s.failed) }

func (s *Session) publish(typ string, data any) {
	if err := s.bus.Publish(events.NewEvent(typ, string(s.backend.Kind()), data)); err != nil {
		s.logger.Warn("event handler failed", log.String("event", typ), log.Error(err))
	}
}

// Start begins backend bring-up. The session is usable right away but
// the rig only tracks once the backend reports initialized.
func (s *Session) Start() error {
	if s.closed {
		return ErrClosed
	}
	return s.player.Initialize()
}

// Frame advances the session by dt seconds of presentation time.
func (s *Session) Frame(dt float32) error {
	if s.closed {
		return ErrClosed
	}
	return s.manager.Frame(dt)
}

// OnIntegrationInitialized subscribes fn to backend readiness. Cancel the
// returned subscription to stop listening.
func (s *Session) OnIntegrationInitialized(fn func()) events.Subscription {
	return s.bus.Subscribe(events.BackendInitialized, func(events.Event) error {
		fn()
		return nil
	})
}

// AdoptPlayer tracks another player. The player built by New is the only
// authoritative one; any other stays an inert duplicate that is closed
// before the authoritative player. Duplicates must bring their own backend.
func (s *Session) AdoptPlayer(p *rig.Player) (authoritative bool, err error) {
	switch {
	case s.closed:
		return false, ErrClosed
	case p == nil:
		return false, ErrNilPlayer
	case p == s.player || slices.Contains(s.duplicates, p):
		return p == s.player, nil
	}
	if p.Backend() == s.backend {
		return false, ErrSharedBackend
	}
	s.duplicates = append(s.duplicates, p)
	s.logger.Warn("duplicate player is inert", log.Int("duplicates", len(s.duplicates)))
	return false, nil
}

// Close tears the session down: duplicates newest first, then the
// authoritative player and its backend. Closing twice is a no-op.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, p := range slices.Backward(s.duplicates) {
		p.Close()
	}
	s.duplicates = nil
	s.unwatch(s.backend)
	wasUp := s.backend.State() != backend.StateUninitialized
	s.player.Close()
	if b, ok := s.Bridge(); ok {
		if err := b.Close(); err != nil {
			s.logger.Warn("closing tracker connection failed", log.Error(err))
		}
	}
	if wasUp {
		s.publish(events.BackendTornDown, s.decision)
	}
	s.logger.Info("session closed")
}

func (s *Session) Config() *config.Config       { return s.cfg }
func (s *Session) Logger() log.Log              { return s.logger }
func (s *Session) Bus() events.Bus              { return s.bus }
func (s *Session) Backend() backend.Backend     { return s.backend }
func (s *Session) Decision() selector.Decision  { return s.decision }
func (s *Session) World() *physics.World        { return s.world }
func (s *Session) Scene() *interaction.Scene    { return s.scene }
func (s *Session) Systems() *systems.Manager    { return s.manager }
func (s *Session) Player() *rig.Player          { return s.player }
func (s *Session) Duplicates() []*rig.Player    { return slices.Clone(s.duplicates) }
func (s *Session) LeftHand() *interaction.Hand  { return s.left }
func (s *Session) RightHand() *interaction.Hand { return s.right }

func (s *Session) Hand(side tracking.Side) *interaction.Hand {
	if side == tracking.Left {
		return s.left
	}
	return s.right
}

// Bridge returns the remote tracker backend when one was selected.
func (s *Session) Bridge() (*bridge.Backend, bool) {
	b, ok := s.backend.(*bridge.Backend)
	return b, ok
}

// NewItem creates a grabbable object with the configured defaults and
// adds it to the scene.
func (s *Session) NewItem(name string, body *physics.Body) (*interaction.Item, error) {
	it := interaction.NewItem(name, body, s.cfg.Interactable)
	if err := s.scene.Add(it); err != nil {
		return nil, err
	}
	return it, nil
}

// NewRotator creates a hinged object with the configured defaults and
// adds it to the scene.
func (s *Session) NewRotator(name string, body *physics.Body) (*interaction.Rotator, error) {
	r := interaction.NewRotator(name, body, s.cfg.Interactable)
	if err := s.scene.Add(r); err != nil {
		return nil, err
	}
	return r, nil
}

