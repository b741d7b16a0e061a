package rig

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/backend/mock"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/systems/physics"
	"github.com/zeusync/grasp/internal/core/tracking"
)

type fakeHand struct {
	side      tracking.Side
	tracker   *tracking.Tracker
	colliders []*physics.Collider
	ready     bool
}

func newFakeHand(side tracking.Side) *fakeHand {
	return &fakeHand{
		side:      side,
		tracker:   tracking.NewTracker(side.String()),
		colliders: []*physics.Collider{physics.NewSphereTrigger(side.String(), math32.Vector3{}, 0.05)},
		ready:     true,
	}
}

func (h *fakeHand) Side() tracking.Side            { return h.side }
func (h *fakeHand) Tracker() *tracking.Tracker     { return h.tracker }
func (h *fakeHand) Colliders() []*physics.Collider { return h.colliders }
func (h *fakeHand) IsInputDeviceInitialized() bool { return h.ready }

func newPlayer(t *testing.T, mcfg mock.Config) (*Player, *mock.Backend, *fakeHand, *fakeHand) {
	t.Helper()
	b := mock.New(mcfg, backend.DefaultConfig(), log.NewNop())
	l, r := newFakeHand(tracking.Left), newFakeHand(tracking.Right)
	p, err := NewPlayer(tracking.NewTracker("head"), l, r, b, DefaultConfig(), log.NewNop())
	require.NoError(t, err)
	return p, b, l, r
}

func TestNewPlayerRequiresParts(t *testing.T) {
	b := mock.New(mock.DefaultConfig(), backend.DefaultConfig(), nil)
	head := tracking.NewTracker("head")
	l, r := newFakeHand(tracking.Left), newFakeHand(tracking.Right)

	_, err := NewPlayer(nil, l, r, b, DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrMissingHead)
	_, err = NewPlayer(head, nil, r, b, DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrMissingHand)
	_, err = NewPlayer(head, l, r, nil, DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrMissingBackend)
	_, err = NewPlayer(head, r, l, b, DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrMissingHand)
}

func TestInitializeRefreshesTrackers(t *testing.T) {
	p, b, l, _ := newPlayer(t, mock.DefaultConfig())
	var ready int
	b.AddOnInitializedListener(func() { ready++ })

	require.NoError(t, p.Initialize())
	assert.False(t, p.IsIntegrationInitialized())
	assert.Equal(t, uint64(0), p.Head().Updates())

	b.Update()
	assert.True(t, p.IsIntegrationInitialized())
	assert.Equal(t, 1, ready)
	assert.InDelta(t, 1.7, p.Head().World().Pos.Y, 1e-6)
	assert.InDelta(t, -0.2, l.Tracker().World().Pos.X, 1e-6)

	p.MoveTo(math32.Vec3(10, 0, 0), tracking.IdentityQuat())
	assert.InDelta(t, 9.8, l.Tracker().World().Pos.X, 1e-5)
}

func TestInitializeTwiceFails(t *testing.T) {
	p, b, _, _ := newPlayer(t, mock.DefaultConfig())
	require.NoError(t, p.Initialize())
	assert.ErrorIs(t, p.Initialize(), backend.ErrAlreadyInitialized)
	assert.Equal(t, 1, b.PoseListeners())
}

func TestHandColliderMapping(t *testing.T) {
	p, _, l, r := newPlayer(t, mock.DefaultConfig())
	require.NoError(t, p.Initialize())

	got, ok := p.GetHand(l.colliders[0])
	require.True(t, ok)
	assert.Same(t, l, got)
	got, ok = p.GetHand(r.colliders[0])
	require.True(t, ok)
	assert.Same(t, r, got)

	// a collider keeps its first owner
	p.RegisterHand(&fakeHand{side: tracking.Right, tracker: r.tracker, colliders: l.colliders})
	got, _ = p.GetHand(l.colliders[0])
	assert.Same(t, l, got)

	_, ok = p.GetHand(physics.NewSphereTrigger("stray", math32.Vector3{}, 1))
	assert.False(t, ok)
}

func TestPreviewScale(t *testing.T) {
	p, b, _, _ := newPlayer(t, mock.DefaultConfig())
	assert.Equal(t, math32.Vector3{}, p.PlayspaceSize())
	assert.Equal(t, math32.Vec3(2, 1, 1.5), p.PreviewScale())

	require.NoError(t, p.Initialize())
	b.Update()
	assert.Equal(t, math32.Vec3(2, 1, 1.5), p.PlayspaceSize())

	p, b, _, _ = newPlayer(t, mock.Config{Present: true, PlayspaceWidth: 4, PlayspaceDepth: 3})
	require.NoError(t, p.Initialize())
	b.Update()
	assert.Equal(t, math32.Vec3(4, 1, 3), p.PreviewScale())

	p.cfg.PlayspaceOverride = true
	p.cfg.PlayspaceDefault = [2]float32{1, 1}
	assert.Equal(t, math32.Vec3(1, 1, 1), p.PreviewScale())
}

func TestNumInitializedInputDevices(t *testing.T) {
	p, _, l, _ := newPlayer(t, mock.DefaultConfig())
	assert.Equal(t, 2, p.NumInitializedInputDevices())
	l.ready = false
	assert.Equal(t, 1, p.NumInitializedInputDevices())
}

func TestCloseTearsDownBackend(t *testing.T) {
	p, b, _, _ := newPlayer(t, mock.DefaultConfig())
	require.NoError(t, p.Initialize())
	b.Update()
	require.True(t, b.IsInit())

	p.Close()
	p.Close()
	assert.True(t, p.Closed())
	assert.Equal(t, backend.StateTornDown, b.State())
	assert.Zero(t, b.PoseListeners())
	assert.ErrorIs(t, p.Initialize(), ErrClosed)
}

func TestCloseMidBringUpSuppressesReady(t *testing.T) {
	p, b, _, _ := newPlayer(t, mock.DefaultConfig())
	var ready int
	b.AddOnInitializedListener(func() { ready++ })
	require.NoError(t, p.Initialize())

	p.Close()
	for range 3 {
		b.Update()
	}
	assert.Zero(t, ready)
	assert.False(t, p.IsIntegrationInitialized())
}
