// Package config loads the keyboard's settings from a TOML, JSON or YAML
// file with environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/airkeys/internal/capture"
	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/tracking"
)

// Injector kinds.
const (
	InjectorNone    = "none"
	InjectorPlugin  = "plugin"
	InjectorRobotgo = "robotgo"
)

// Config holds every setting of the keyboard.
type Config struct {
	Layout           string  `toml:"layout" json:"layout" yaml:"layout"`
	Smoothing        float64 `toml:"smoothing" json:"smoothing" yaml:"smoothing"`
	PinchThreshold   float64 `toml:"pinch_threshold" json:"pinch_threshold" yaml:"pinch_threshold"` // 0 selects the layout default
	CooldownMs       int     `toml:"cooldown_ms" json:"cooldown_ms" yaml:"cooldown_ms"`
	MaxTextLength    int     `toml:"max_text_length" json:"max_text_length" yaml:"max_text_length"`
	HandSlots        int     `toml:"hand_slots" json:"hand_slots" yaml:"hand_slots"`
	MatchByProximity bool    `toml:"match_by_proximity" json:"match_by_proximity" yaml:"match_by_proximity"`

	Camera   CameraConfig   `toml:"camera" json:"camera" yaml:"camera"`
	Injector InjectorConfig `toml:"injector" json:"injector" yaml:"injector"`
	Server   ServerConfig   `toml:"server" json:"server" yaml:"server"`
	History  HistoryConfig  `toml:"history" json:"history" yaml:"history"`

	Tray   bool `toml:"tray" json:"tray" yaml:"tray"`
	Window bool `toml:"window" json:"window" yaml:"window"`
	HUD    bool `toml:"hud" json:"hud" yaml:"hud"`
}

// CameraConfig selects the capture device and preprocessing.
type CameraConfig struct {
	Device     int  `toml:"device" json:"device" yaml:"device"`
	Width      int  `toml:"width" json:"width" yaml:"width"`
	Height     int  `toml:"height" json:"height" yaml:"height"`
	FPS        int  `toml:"fps" json:"fps" yaml:"fps"`
	Mirror     bool `toml:"mirror" json:"mirror" yaml:"mirror"`
	Preprocess bool `toml:"preprocess" json:"preprocess" yaml:"preprocess"`
}

// InjectorConfig selects where committed keys are sent.
type InjectorConfig struct {
	Kind      string `toml:"kind" json:"kind" yaml:"kind"`
	PluginDir string `toml:"plugin_dir" json:"plugin_dir" yaml:"plugin_dir"`
	TimeoutMs int    `toml:"timeout_ms" json:"timeout_ms" yaml:"timeout_ms"`
	QueueSize int    `toml:"queue_size" json:"queue_size" yaml:"queue_size"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Enabled   bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Addr      string `toml:"addr" json:"addr" yaml:"addr"`
	StaticDir string `toml:"static_dir" json:"static_dir" yaml:"static_dir"`
}

// HistoryConfig configures the typing history database.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" json:"path" yaml:"path"`
}

// DataDir returns the directory for the database and plugins. It honours
// AIRKEYS_DATA_DIR and falls back to ~/.airkeys.
func DataDir() string {
	if dir := os.Getenv("AIRKEYS_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".airkeys"
	}
	return filepath.Join(home, ".airkeys")
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// DefaultConfig returns the settings the keyboard was tuned with.
func DefaultConfig() *Config {
	dataDir := DataDir()
	return &Config{
		Layout:        "extended",
		Smoothing:     tracking.DefaultSmoothing,
		CooldownMs:    int(engine.DefaultCooldown / time.Millisecond),
		MaxTextLength: engine.DefaultMaxTextLength,
		HandSlots:     tracking.DefaultSlots,
		Camera: CameraConfig{
			Width:  capture.DefaultWidth,
			Height: capture.DefaultHeight,
			FPS:    capture.DefaultFPS,
			Mirror: true,
		},
		Injector: InjectorConfig{
			Kind:      InjectorPlugin,
			PluginDir: filepath.Join(dataDir, "plugins"),
			TimeoutMs: 2000,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(dataDir, "airkeys.db"),
		},
		Window: true,
	}
}

// ApplyEnvOverrides applies AIRKEYS_* environment variables. Values that
// do not parse are ignored and left to Validate.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("AIRKEYS_LAYOUT"); v != "" {
		c.Layout = v
	}
	if v, ok := envFloat("AIRKEYS_SMOOTHING"); ok {
		c.Smoothing = v
	}
	if v, ok := envFloat("AIRKEYS_PINCH_THRESHOLD"); ok {
		c.PinchThreshold = v
	}
	if v, ok := envInt("AIRKEYS_COOLDOWN_MS"); ok {
		c.CooldownMs = v
	}
	if v, ok := envInt("AIRKEYS_CAMERA_DEVICE"); ok {
		c.Camera.Device = v
	}
	if v := os.Getenv("AIRKEYS_INJECTOR"); v != "" {
		c.Injector.Kind = v
	}
	if v := os.Getenv("AIRKEYS_PLUGIN_DIR"); v != "" {
		c.Injector.PluginDir = v
	}
	if v := os.Getenv("AIRKEYS_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
		c.Server.Enabled = true
	}
	if v := os.Getenv("AIRKEYS_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v, ok := envBool("AIRKEYS_HISTORY"); ok {
		c.History.Enabled = v
	}
	if v, ok := envBool("AIRKEYS_TRAY"); ok {
		c.Tray = v
	}
	if v, ok := envBool("AIRKEYS_WINDOW"); ok {
		c.Window = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	return n, err == nil
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return f, err == nil
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return b, err == nil
}

// Cooldown returns the commit cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownMs) * time.Millisecond
}

// InjectorTimeout returns the plugin timeout as a duration.
func (c *Config) InjectorTimeout() time.Duration {
	return time.Duration(c.Injector.TimeoutMs) * time.Millisecond
}

// EngineConfig returns the engine settings.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		Tracking: tracking.Config{
			Slots:            c.HandSlots,
			Smoothing:        c.Smoothing,
			MatchByProximity: c.MatchByProximity,
		},
		PinchThreshold: c.PinchThreshold,
		Cooldown:       c.Cooldown(),
		MaxTextLength:  c.MaxTextLength,
	}
}

// CaptureConfig returns the camera settings.
func (c *Config) CaptureConfig() capture.Config {
	return capture.Config{
		DeviceID: c.Camera.Device,
		Width:    c.Camera.Width,
		Height:   c.Camera.Height,
		FPS:      c.Camera.FPS,
	}
}

// Preprocessor returns the frame preprocessing steps.
func (c *Config) Preprocessor() capture.Preprocessor {
	return capture.Preprocessor{
		Mirror:   c.Camera.Mirror,
		Equalize: c.Camera.Preprocess,
		Blur:     c.Camera.Preprocess,
	}
}
