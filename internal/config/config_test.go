package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/tracking"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("AIRKEYS_DATA_DIR", "/data/airkeys")

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "extended", cfg.Layout)
	assert.Equal(t, engine.DefaultCooldown, cfg.Cooldown())
	assert.Equal(t, tracking.DefaultSlots, cfg.HandSlots)
	assert.True(t, cfg.Camera.Mirror)
	assert.Equal(t, InjectorPlugin, cfg.Injector.Kind)
	assert.Equal(t, filepath.Join("/data/airkeys", "plugins"), cfg.Injector.PluginDir)
	assert.Equal(t, filepath.Join("/data/airkeys", "airkeys.db"), cfg.History.Path)
	assert.Equal(t, filepath.Join("/data/airkeys", "config.toml"), ConfigPath())
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Layout, cfg.Layout)
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", `
layout = "basic"
cooldown_ms = 450
smoothing = 0.7

[camera]
device = 1
preprocess = true

[injector]
kind = "none"
`},
		{"json", "config.json", `{
  "layout": "basic",
  "cooldown_ms": 450,
  "smoothing": 0.7,
  "camera": {"device": 1, "preprocess": true},
  "injector": {"kind": "none"}
}`},
		{"yaml", "config.yaml", `
layout: basic
cooldown_ms: 450
smoothing: 0.7
camera:
  device: 1
  preprocess: true
injector:
  kind: none
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, "basic", cfg.Layout)
			assert.Equal(t, 450*time.Millisecond, cfg.Cooldown())
			assert.InDelta(t, 0.7, cfg.Smoothing, 1e-9)
			assert.Equal(t, 1, cfg.Camera.Device)
			assert.Equal(t, InjectorNone, cfg.Injector.Kind)

			// Unset fields keep their defaults.
			assert.Equal(t, DefaultConfig().Camera.Width, cfg.Camera.Width)
			assert.True(t, cfg.Camera.Mirror)

			pre := cfg.Preprocessor()
			assert.True(t, pre.Mirror && pre.Equalize && pre.Blur)
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode JSON")
}

func TestLoad_ValidationFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`layout = "dvorak"`), 0644))

	_, err := Load(path)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "layout", verrs[0].Field)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("AIRKEYS_LAYOUT", "basic")
	t.Setenv("AIRKEYS_SMOOTHING", "0.9")
	t.Setenv("AIRKEYS_COOLDOWN_MS", "250")
	t.Setenv("AIRKEYS_INJECTOR", "robotgo")
	t.Setenv("AIRKEYS_SERVER_ADDR", ":9090")
	t.Setenv("AIRKEYS_HISTORY", "false")
	t.Setenv("AIRKEYS_TRAY", "true")
	t.Setenv("AIRKEYS_CAMERA_DEVICE", "not-a-number")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "basic", cfg.Layout)
	assert.InDelta(t, 0.9, cfg.Smoothing, 1e-9)
	assert.Equal(t, 250, cfg.CooldownMs)
	assert.Equal(t, InjectorRobotgo, cfg.Injector.Kind)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.False(t, cfg.History.Enabled)
	assert.True(t, cfg.Tray)
	assert.Equal(t, 0, cfg.Camera.Device, "unparsable values are ignored")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"smoothing zero", func(c *Config) { c.Smoothing = 0 }, "smoothing"},
		{"smoothing above one", func(c *Config) { c.Smoothing = 1.5 }, "smoothing"},
		{"negative threshold", func(c *Config) { c.PinchThreshold = -1 }, "pinch_threshold"},
		{"negative cooldown", func(c *Config) { c.CooldownMs = -5 }, "cooldown_ms"},
		{"zero text length", func(c *Config) { c.MaxTextLength = 0 }, "max_text_length"},
		{"no slots", func(c *Config) { c.HandSlots = 0 }, "hand_slots"},
		{"unknown injector", func(c *Config) { c.Injector.Kind = "xdotool" }, "injector.kind"},
		{"plugin without dir", func(c *Config) { c.Injector.PluginDir = "" }, "injector.plugin_dir"},
		{"server without addr", func(c *Config) { c.Server.Enabled = true; c.Server.Addr = "" }, "server.addr"},
		{"history without path", func(c *Config) { c.History.Path = "" }, "history.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.field, verrs[0].Field)
			assert.Contains(t, err.Error(), "config: "+tt.field)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"config.toml", "config.json", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := DefaultConfig()
			cfg.Layout = "basic"
			cfg.Injector.QueueSize = 16
			require.NoError(t, Save(cfg, path))

			loaded, err := loadConfigFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PinchThreshold = 35
	cfg.MatchByProximity = true

	ec := cfg.EngineConfig()
	assert.Equal(t, 35.0, ec.PinchThreshold)
	assert.True(t, ec.Tracking.MatchByProximity)
	assert.Equal(t, cfg.HandSlots, ec.Tracking.Slots)
	assert.Equal(t, engine.DefaultMaxTextLength, ec.MaxTextLength)

	cc := cfg.CaptureConfig()
	assert.Equal(t, cfg.Camera.Width, cc.Width)
	assert.Equal(t, cfg.Camera.FPS, cc.FPS)
}
