package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/grasp/internal/config"
	"github.com/zeusync/grasp/internal/core/events"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/session"
)

// ConfigPath is the YAML file to load. Empty means defaults.
type ConfigPath string

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideBus,
	ProvideSession,
)

func ProvideConfig(path ConfigPath) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(string(path))
}

func ProvideLogger(cfg *config.Config) log.Log {
	return log.New(cfg.Log.Level)
}

func ProvideBus() events.Bus {
	return events.New()
}

func ProvideSession(cfg *config.Config, hw session.Hardware, bus events.Bus, logger log.Log) (*session.Session, func(), error) {
	s, err := session.New(cfg, hw, bus, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}
