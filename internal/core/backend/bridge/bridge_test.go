package bridge

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/tracking"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	return conn
}

// pump ticks the backend until cond holds.
func pump(t *testing.T, b *Backend, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		b.Update()
		return cond()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestTrackerSession(t *testing.T) {
	b := New(DefaultConfig(), backend.DefaultConfig(), log.NewNop())
	srv := httptest.NewServer(b)
	defer srv.Close()

	rig := backend.NewTrackerRig()
	fired := 0
	b.AddOnInitializedListener(func() { fired++ })
	require.NoError(t, b.Initialize(rig))
	b.Update()
	assert.False(t, b.IsInit())

	conn := dial(t, srv)
	defer conn.Close()
	pump(t, b, b.IsHmdPresent)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeHello, Device: "quest-link"}))
	pump(t, b, b.IsInit)
	assert.Equal(t, 1, fired)
	assert.Equal(t, "quest-link", b.Device())

	head := tracking.NewPose(math32.Vec3(0, 1.6, 0), tracking.IdentityQuat())
	require.NoError(t, conn.WriteJSON(Message{Type: TypePose, Head: FromPose(head)}))
	pump(t, b, func() bool { return rig.Head().Updates() > 0 })
	assert.InDelta(t, 1.6, rig.Head().Local().Pos.Y, 1e-6)
	assert.False(t, rig.LeftHand().Valid())

	require.NoError(t, conn.WriteJSON(Message{Type: TypeBounds, Bounds: &[2]float32{3, 2}}))
	pump(t, b, func() bool { return b.GetPlayspaceBounds() != math32.Vector3{} })
	assert.Equal(t, math32.Vec3(3, 1, 2), b.GetPlayspaceBounds())

	require.NoError(t, conn.Close())
	pump(t, b, func() bool { return !b.IsHmdPresent() })
}

func TestSecondTrackerRejected(t *testing.T) {
	b := New(DefaultConfig(), backend.DefaultConfig(), log.NewNop())
	srv := httptest.NewServer(b)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	require.Eventually(t, b.IsHmdPresent, time.Second, 5*time.Millisecond)

	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHelloBeforeInitializeCompletesNextTick(t *testing.T) {
	b := New(DefaultConfig(), backend.DefaultConfig(), log.NewNop())
	b.apply(Message{Type: TypeHello, Device: "sim"})
	assert.False(t, b.IsInit())

	require.NoError(t, b.Initialize(backend.NewTrackerRig()))
	b.Update()
	assert.True(t, b.IsInit())
}

func TestPoseBeforeReadyDropped(t *testing.T) {
	b := New(DefaultConfig(), backend.DefaultConfig(), log.NewNop())
	rig := backend.NewTrackerRig()
	require.NoError(t, b.Initialize(rig))
	b.apply(Message{Type: TypePose, Head: FromPose(tracking.IdentityPose())})
	assert.Zero(t, rig.Head().Updates())
}
