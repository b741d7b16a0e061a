// Package selector picks the one backend a session runs on. The choice is
// made once at startup from the platform, the XR device the host reports
// and which runtimes were linked in.
package selector

import (
	"slices"
	"strings"

	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/backend/bridge"
	"github.com/zeusync/grasp/internal/core/backend/mock"
	"github.com/zeusync/grasp/internal/core/backend/oculus"
	"github.com/zeusync/grasp/internal/core/backend/openvr"
	"github.com/zeusync/grasp/internal/core/backend/psvr"
	"github.com/zeusync/grasp/internal/core/backend/wmr"
	"github.com/zeusync/grasp/internal/core/observability/log"
)

// Platform names a build target that forces its own backend.
type Platform string

const (
	PlatformDesktop Platform = ""
	PlatformPS4     Platform = "ps4"
)

// XRDevice is the host's generic XR subsystem.
type XRDevice interface {
	IsPresent() bool
	// LoadedDeviceName is the name of the device the subsystem loaded.
	LoadedDeviceName() string
}

// Options lists what is available to choose from. A nil runtime means the
// backend was not linked into this build.
type Options struct {
	Platform Platform
	Device   XRDevice

	OpenVR openvr.Runtime
	Oculus oculus.Runtime
	WMR    wmr.Runtime
	PSVR   psvr.Runtime

	Backend backend.Config
	PSVRCfg psvr.Config
	Mock    mock.Config
	Bridge  bridge.Config

	// Exclude lists backends that already failed to start in this
	// process. The headless mock fallback is never excluded.
	Exclude []backend.Kind
}

func (o Options) allowed(k backend.Kind) bool { return !slices.Contains(o.Exclude, k) }

// Decision records why a backend was chosen.
type Decision struct {
	Kind     backend.Kind
	Device   string
	Reason   string
	Fallback bool
}

// Select returns the first backend whose probe succeeds, in priority order:
// platform forced, XR device (Oculus, mock headset, OpenVR, Mixed Reality),
// configured remote bridge, then the mock fallback. It never fails; when
// nothing is found the mock backend runs headless.
func Select(opts Options, logger log.Log) (backend.Backend, Decision) {
	if logger == nil {
		logger = log.NewNop()
	}
	b, d := choose(opts, logger)
	fields := []log.Field{
		log.String("kind", string(d.Kind)),
		log.String("reason", d.Reason),
	}
	if d.Device != "" {
		fields = append(fields, log.String("device", d.Device))
	}
	if d.Fallback {
		logger.Error("no headset runtime found, running headless", fields...)
	} else {
		logger.Info("backend selected", fields...)
	}
	return b, d
}

func choose(opts Options, logger log.Log) (backend.Backend, Decision) {
	if opts.Platform == PlatformPS4 {
		if opts.PSVR != nil && opts.allowed(backend.KindPSVR) {
			return psvr.New(opts.PSVR, opts.PSVRCfg, opts.Backend, logger),
				Decision{Kind: backend.KindPSVR, Reason: "platform"}
		}
		logger.Warn("platform forces psvr but its runtime is not available")
	}

	if opts.Device != nil && opts.Device.IsPresent() {
		name := opts.Device.LoadedDeviceName()
		if opts.Oculus != nil && opts.allowed(backend.KindOculus) && strings.Contains(strings.ToLower(name), "oculus") {
			if b := oculus.New(opts.Oculus, opts.Backend, logger); b.IsHmdPresent() {
				return b, Decision{Kind: backend.KindOculus, Device: name, Reason: "xr device"}
			}
			logger.Warn("oculus device loaded but probe failed", log.String("device", name))
		}
		if name == mock.DeviceName {
			return mock.New(opts.Mock, opts.Backend, logger),
				Decision{Kind: backend.KindMock, Device: name, Reason: "mock headset"}
		}
		if opts.OpenVR != nil && opts.allowed(backend.KindOpenVR) {
			if b := openvr.New(opts.OpenVR, opts.Backend, logger); b.IsHmdPresent() {
				return b, Decision{Kind: backend.KindOpenVR, Device: name, Reason: "xr device"}
			}
			logger.Warn("openvr probe failed", log.String("device", name))
		}
		if opts.WMR != nil && opts.allowed(backend.KindWMR) {
			if b := wmr.New(opts.WMR, opts.Backend, logger); b.IsHmdPresent() {
				return b, Decision{Kind: backend.KindWMR, Device: name, Reason: "opaque display"}
			}
		}
	}

	if opts.Bridge.Listen != "" && opts.allowed(backend.KindBridge) {
		return bridge.New(opts.Bridge, opts.Backend, logger),
			Decision{Kind: backend.KindBridge, Reason: "remote tracker configured"}
	}

	return mock.New(opts.Mock, opts.Backend, logger),
		Decision{Kind: backend.KindMock, Reason: "no headset", Fallback: true}
}
