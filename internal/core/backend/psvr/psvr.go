// Package psvr drives PlayStation VR. The platform forces this backend; the
// device is loaded by name and configured one frame later, once the runtime
// has created it.
package psvr

import (
	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/tracking"
)

const (
	DeviceName = "PlayStationVR"
	NoDevice   = "None"

	// PlayspaceSize is the nominal room extent reported while ready.
	PlayspaceSize = 5
)

// EventKind enumerates system and device notifications.
type EventKind uint8

const (
	// EventSystemReset asks to reset the VR position.
	EventSystemReset EventKind = iota
	EventDeviceStarted
	EventDeviceStopped
	// EventStatusChanged carries a DeviceStatus in Value.
	EventStatusChanged
	EventMountChanged
	// EventCameraChanged carries 0 when the camera was disconnected.
	EventCameraChanged
	// EventSetupDialogClosed carries a DialogResult in Value.
	EventSetupDialogClosed
)

func (k EventKind) String() string {
	switch k {
	case EventSystemReset:
		return "system_reset"
	case EventDeviceStarted:
		return "device_started"
	case EventDeviceStopped:
		return "device_stopped"
	case EventStatusChanged:
		return "status_changed"
	case EventMountChanged:
		return "mount_changed"
	case EventCameraChanged:
		return "camera_changed"
	case EventSetupDialogClosed:
		return "setup_dialog_closed"
	default:
		return "unknown"
	}
}

// DeviceStatus values carried by EventStatusChanged.
const (
	StatusNotReady = iota
	StatusReady
)

// DialogResult values carried by EventSetupDialogClosed.
const (
	DialogOK = iota
	DialogCanceled
)

type Event struct {
	Kind  EventKind
	Value int
}

// Runtime is the console XR surface the backend needs.
type Runtime interface {
	LoadDevice(name string)
	LoadedDevice() string
	SetXREnabled(enabled bool)
	SetRenderScale(scale float32)
	SetShowDeviceView(show bool)
	DevicePresent() bool
	// OpenSetupDialog shows the headset setup dialog. Its result arrives as
	// EventSetupDialogClosed.
	OpenSetupDialog()
	Poses() (tracking.PoseFrame, bool)
	// DrainEvents returns and clears the events queued since the last call.
	DrainEvents() []Event
}

type Config struct {
	RenderScale          float32 `yaml:"render_scale"`
	ShowHmdViewOnMonitor bool    `yaml:"show_hmd_view_on_monitor"`
}

func DefaultConfig() Config {
	return Config{RenderScale: 1.4, ShowHmdViewOnMonitor: true}
}

var _ backend.Backend = (*Backend)(nil)

type Backend struct {
	*backend.Base
	rt  Runtime
	cfg Config
}

func New(rt Runtime, cfg Config, bcfg backend.Config, logger log.Log) *Backend {
	if cfg.RenderScale <= 0 {
		cfg.RenderScale = DefaultConfig().RenderScale
	}
	b := &Backend{
		Base: backend.NewBase(backend.KindPSVR, bcfg, logger),
		rt:   rt,
		cfg:  cfg,
	}
	b.SetPoller(b.poll)
	return b
}

func (b *Backend) Initialize(rig backend.Rig) error {
	if b.rt == nil {
		return backend.ErrNoRuntime
	}
	if err := b.Begin(rig); err != nil {
		return err
	}
	b.Logger().Info("loading device", log.String("device", DeviceName))
	b.rt.LoadDevice(DeviceName)
	b.CompleteAfter(1, b.loaded)
	return nil
}

// loaded applies settings that only take effect on a created device.
func (b *Backend) loaded() error {
	b.rt.SetXREnabled(true)
	b.rt.SetRenderScale(b.cfg.RenderScale)
	b.rt.SetShowDeviceView(b.cfg.ShowHmdViewOnMonitor)
	return nil
}

func (b *Backend) DeInitialize() {
	st := b.State()
	if st == backend.StateUninitialized || st == backend.StateTornDown {
		return
	}
	b.Logger().Info("unloading device", log.String("device", DeviceName))
	b.rt.LoadDevice(NoDevice)
	b.Base.DeInitialize()
	b.After(1, b.unloaded)
}

func (b *Backend) unloaded() {
	b.rt.SetXREnabled(false)
	b.rt.SetShowDeviceView(false)
}

func (b *Backend) IsHmdPresent() bool {
	return b.rt != nil && b.rt.DevicePresent()
}

func (b *Backend) GetPlayspaceBounds() math32.Vector3 {
	if !b.IsInit() {
		return math32.Vector3{}
	}
	return math32.Vec3(PlayspaceSize, 1, PlayspaceSize)
}

// SetHmdViewOnMonitor mirrors the headset view on the monitor when true,
// otherwise the monitor shows the social screen.
func (b *Backend) SetHmdViewOnMonitor(show bool) {
	b.cfg.ShowHmdViewOnMonitor = show
	if b.rt != nil {
		b.rt.SetShowDeviceView(show)
	}
}

func (b *Backend) ToggleHmdViewOnMonitor() {
	b.SetHmdViewOnMonitor(!b.cfg.ShowHmdViewOnMonitor)
}

func (b *Backend) ChangeRenderScale(scale float32) {
	if scale <= 0 {
		return
	}
	b.cfg.RenderScale = scale
	if b.rt != nil {
		b.rt.SetRenderScale(scale)
	}
}

// Update handles device events before the base tick so a reset or a lost
// device is applied before poses are pulled.
func (b *Backend) Update() {
	if b.rt != nil {
		for _, ev := range b.rt.DrainEvents() {
			b.handle(ev)
		}
	}
	b.Base.Update()
}

func (b *Backend) handle(ev Event) {
	b.Logger().Debug("device event", log.Stringer("kind", ev.Kind), log.Int("value", ev.Value))
	switch ev.Kind {
	case EventSystemReset:
		b.Recenter()
	case EventDeviceStopped:
		b.DeInitialize()
	case EventStatusChanged:
		if ev.Value == StatusReady {
			return
		}
		if b.rt.LoadedDevice() == NoDevice {
			b.rt.OpenSetupDialog()
			return
		}
		b.DeInitialize()
	case EventCameraChanged:
		if ev.Value == 0 {
			b.rt.OpenSetupDialog()
		}
	case EventSetupDialogClosed:
		if ev.Value != DialogOK {
			b.Logger().Warn("headset setup canceled")
			b.DeInitialize()
			return
		}
		if rig := b.Rig(); rig != nil {
			if err := b.Initialize(rig); err != nil {
				b.Logger().Debug("setup dialog reinit skipped", log.Error(err))
			}
		}
	}
}

func (b *Backend) poll() {
	if f, ok := b.rt.Poses(); ok {
		b.DeliverFrame(f)
	}
}
