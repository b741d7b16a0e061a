// Package bridge is a backend fed by a remote companion tracker over a
// WebSocket. The tracker sends a hello, then pose frames; frames received
// on the connection goroutine are queued and applied on the simulation
// thread in Update.
package bridge

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"cogentcore.org/core/math32"
	"github.com/gorilla/websocket"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/observability/log"
)

type Config struct {
	// Listen is the TCP address of the tracker endpoint. Empty disables
	// the bridge.
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
	// QueueSize bounds the frames buffered between ticks.
	QueueSize int `yaml:"queue_size"`
}

func DefaultConfig() Config {
	return Config{Path: "/tracker", QueueSize: 64}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

var _ backend.Backend = (*Backend)(nil)
var _ http.Handler = (*Backend)(nil)

type Backend struct {
	*backend.Base
	cfg   Config
	inbox chan Message

	mu        sync.Mutex
	conn      *websocket.Conn
	connected atomic.Bool
	dropped   atomic.Uint64

	// owned by the simulation thread
	helloSeen bool
	device    string
	bounds    math32.Vector3
}

func New(cfg Config, bcfg backend.Config, logger log.Log) *Backend {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}
	return &Backend{
		Base:  backend.NewBase(backend.KindBridge, bcfg, logger),
		cfg:   cfg,
		inbox: make(chan Message, cfg.QueueSize),
	}
}

// Initialize completes on the tracker's hello, or on the next tick when the
// tracker already said hello.
func (b *Backend) Initialize(rig backend.Rig) error {
	if err := b.Begin(rig); err != nil {
		return err
	}
	if b.helloSeen {
		b.CompleteAfter(1, nil)
	}
	return nil
}

// IsHmdPresent reports whether a tracker is connected.
func (b *Backend) IsHmdPresent() bool { return b.connected.Load() }

// Device is the name the tracker announced.
func (b *Backend) Device() string { return b.device }

// Dropped counts frames discarded because the queue was full.
func (b *Backend) Dropped() uint64 { return b.dropped.Load() }

func (b *Backend) GetPlayspaceBounds() math32.Vector3 {
	if !b.IsInit() {
		return math32.Vector3{}
	}
	return b.bounds
}

func (b *Backend) Update() {
drain:
	for {
		select {
		case m := <-b.inbox:
			b.apply(m)
		default:
			break drain
		}
	}
	b.Base.Update()
}

func (b *Backend) apply(m Message) {
	switch m.Type {
	case TypeHello:
		b.helloSeen = true
		b.device = m.Device
		b.Logger().Info("tracker hello", log.String("device", m.Device))
		b.Complete()
	case TypePose:
		b.DeliverFrame(m.Frame())
	case TypeBounds:
		if m.Bounds == nil || m.Bounds[0] <= 0 || m.Bounds[1] <= 0 {
			b.bounds = math32.Vector3{}
			return
		}
		b.bounds = math32.Vec3(m.Bounds[0], 1, m.Bounds[1])
	default:
		b.Logger().Debug("unknown tracker message", log.String("type", m.Type))
	}
}

// ServeHTTP accepts one tracker connection at a time.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !b.connected.CompareAndSwap(false, true) {
		http.Error(w, "tracker already connected", http.StatusConflict)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.connected.Store(false)
		b.Logger().Warn("tracker upgrade failed", log.Error(err))
		return
	}
	b.mu.Lock()
	b.conn = conn
	b.mu.Unlock()
	b.Logger().Info("tracker connected", log.String("remote", conn.RemoteAddr().String()))

	defer func() {
		b.mu.Lock()
		b.conn = nil
		b.mu.Unlock()
		_ = conn.Close()
		b.connected.Store(false)
		b.Logger().Info("tracker disconnected")
	}()

	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.Logger().Debug("tracker read ended", log.Error(err))
			}
			return
		}
		select {
		case b.inbox <- m:
		default:
			b.dropped.Add(1)
		}
	}
}

// Close drops the active tracker connection, if any.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}

// Serve listens on Config.Listen until ctx is done.
func (b *Backend) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(b.cfg.Path, b)
	srv := &http.Server{
		Addr:              b.cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		b.Logger().Info("bridge listening", log.String("addr", b.cfg.Listen), log.String("path", b.cfg.Path))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = b.Close()
		return srv.Shutdown(shutdownCtx)
	}
}
