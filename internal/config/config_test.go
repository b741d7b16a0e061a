package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/grasp/internal/core/backend/selector"
	"github.com/zeusync/grasp/internal/core/interaction"
	"github.com/zeusync/grasp/internal/core/observability/log"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, ExpectedDeltaTime, c.Physics.FixedDeltaTime)
	assert.Equal(t, math32.Vec3(0, -9.81, 0), c.Physics.GravityVector())
	assert.Equal(t, interaction.Hold, c.Player.Hand.Style)
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	c, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestParseOverrides(t *testing.T) {
	doc := `
log:
  level: debug
physics:
  auto_set_fixed_delta: false
  fixed_delta_time: 0.02
player:
  hand:
    interaction_style: toggle
backends:
  platform: ps4
  bridge:
    listen: 127.0.0.1:7070
interactable:
  drop_distance: -1
`
	c, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, log.LevelDebug, c.Log.Level)
	assert.InDelta(t, 0.02, c.Physics.FixedDeltaTime, 1e-7)
	assert.Equal(t, interaction.Toggle, c.Player.Hand.Style)
	assert.Equal(t, 3, c.Player.Hand.VelocityHistorySteps)
	assert.Equal(t, selector.PlatformPS4, c.Backends.Platform)
	assert.Equal(t, "127.0.0.1:7070", c.Backends.Bridge.Listen)
	assert.Equal(t, "/tracker", c.Backends.Bridge.Path)
	assert.Equal(t, interaction.NeverDrop, c.Interactable.DropDistance)
	assert.True(t, c.Interactable.CanAttach)
}

func TestAutoSetFixedDeltaWins(t *testing.T) {
	c, err := Parse(strings.NewReader("physics:\n  fixed_delta_time: 0.05\n"))
	require.NoError(t, err)
	assert.Equal(t, ExpectedDeltaTime, c.Physics.FixedDeltaTime)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "physics:\n  warp: 9\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad style", "player:\n  hand:\n    interaction_style: grab\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"fixed delta", func(c *Config) { c.Physics.FixedDeltaTime = 0 }},
		{"max steps", func(c *Config) { c.Physics.MaxFixedSteps = 0 }},
		{"cull height", func(c *Config) { c.Physics.CullHeight = -1 }},
		{"history", func(c *Config) { c.Player.Hand.VelocityHistorySteps = 1 }},
		{"drop distance", func(c *Config) { c.Interactable.DropDistance = 0 }},
		{"platform", func(c *Config) { c.Backends.Platform = "dreamcast" }},
		{"fov", func(c *Config) { c.Backends.Display.FOV = 180 }},
		{"queue", func(c *Config) {
			c.Backends.Bridge.Listen = ":0"
			c.Backends.Bridge.QueueSize = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadSampleFile(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "configs", "grasp.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
