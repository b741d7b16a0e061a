// Package config loads the session configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/backend/bridge"
	"github.com/zeusync/grasp/internal/core/backend/mock"
	"github.com/zeusync/grasp/internal/core/backend/psvr"
	"github.com/zeusync/grasp/internal/core/backend/selector"
	"github.com/zeusync/grasp/internal/core/interaction"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/rig"
	"gopkg.in/yaml.v3"
)

// ExpectedDeltaTime is the fixed tick forced by AutoSetFixedDelta.
const ExpectedDeltaTime = interaction.ExpectedDeltaTime

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Log          LogConfig            `yaml:"log"`
	Physics      PhysicsConfig        `yaml:"physics"`
	Player       PlayerConfig         `yaml:"player"`
	Backends     BackendsConfig       `yaml:"backends"`
	Interactable interaction.Defaults `yaml:"interactable"`
}

type LogConfig struct {
	Level log.Level `yaml:"level"`
}

type PhysicsConfig struct {
	FixedDeltaTime float32 `yaml:"fixed_delta_time"`
	// AutoSetFixedDelta forces FixedDeltaTime to ExpectedDeltaTime.
	AutoSetFixedDelta bool       `yaml:"auto_set_fixed_delta"`
	MaxFixedSteps     int        `yaml:"max_fixed_steps"`
	Gravity           [3]float32 `yaml:"gravity"`
	// CullHeight is the vertical bound past which objects are destroyed.
	CullHeight float32 `yaml:"cull_height"`
}

type PlayerConfig struct {
	Hand    interaction.HandConfig `yaml:"hand"`
	Preview rig.Config             `yaml:"preview"`
}

type BackendsConfig struct {
	// Platform forces a console backend.
	Platform selector.Platform `yaml:"platform"`
	Display  backend.Config    `yaml:"display"`
	Mock     mock.Config       `yaml:"mock"`
	Bridge   bridge.Config     `yaml:"bridge"`
	PSVR     psvr.Config       `yaml:"psvr"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: log.LevelInfo},
		Physics: PhysicsConfig{
			FixedDeltaTime:    ExpectedDeltaTime,
			AutoSetFixedDelta: true,
			MaxFixedSteps:     8,
			Gravity:           [3]float32{0, -9.81, 0},
			CullHeight:        interaction.DefaultCullHeight,
		},
		Player: PlayerConfig{
			Hand:    interaction.DefaultHandConfig(),
			Preview: rig.DefaultConfig(),
		},
		Backends: BackendsConfig{
			Display: backend.DefaultConfig(),
			Mock:    mock.DefaultConfig(),
			Bridge:  bridge.DefaultConfig(),
			PSVR:    psvr.DefaultConfig(),
		},
		Interactable: interaction.DefaultDefaults(),
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes YAML from r over the defaults and validates the result.
// Keys missing from the document keep their default value.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if c.Physics.AutoSetFixedDelta {
		c.Physics.FixedDeltaTime = ExpectedDeltaTime
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Physics.FixedDeltaTime <= 0 {
		return fmt.Errorf("%w: physics.fixed_delta_time must be positive", ErrInvalidConfig)
	}
	if c.Physics.MaxFixedSteps < 1 {
		return fmt.Errorf("%w: physics.max_fixed_steps must be at least 1", ErrInvalidConfig)
	}
	if c.Physics.CullHeight <= 0 {
		return fmt.Errorf("%w: physics.cull_height must be positive", ErrInvalidConfig)
	}
	if c.Player.Hand.VelocityHistorySteps < 2 {
		return fmt.Errorf("%w: player.hand.velocity_history_steps must be at least 2", ErrInvalidConfig)
	}
	if c.Interactable.DropDistance <= 0 && c.Interactable.DropDistance != interaction.NeverDrop {
		return fmt.Errorf("%w: interactable.drop_distance must be positive or %v", ErrInvalidConfig, interaction.NeverDrop)
	}
	switch c.Backends.Platform {
	case selector.PlatformDesktop, selector.PlatformPS4:
	default:
		return fmt.Errorf("%w: backends.platform %q", ErrInvalidConfig, c.Backends.Platform)
	}
	if d := c.Backends.Display; d.FOV <= 0 || d.FOV >= 180 || d.Aspect <= 0 {
		return fmt.Errorf("%w: backends.display needs 0 < fov < 180 and a positive aspect", ErrInvalidConfig)
	}
	if c.Backends.Bridge.Listen != "" && c.Backends.Bridge.QueueSize < 1 {
		return fmt.Errorf("%w: backends.bridge.queue_size must be positive", ErrInvalidConfig)
	}
	return nil
}

func (p PhysicsConfig) GravityVector() math32.Vector3 {
	return math32.Vec3(p.Gravity[0], p.Gravity[1], p.Gravity[2])
}
