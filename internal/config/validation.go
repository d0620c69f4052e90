package config

import (
	"fmt"
	"strings"

	"github.com/ayusman/airkeys/internal/layout"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if _, err := layout.ParseVariant(c.Layout); err != nil {
		add("layout", "must be basic or extended, got %q", c.Layout)
	}
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		add("smoothing", "must be in (0, 1], got %v", c.Smoothing)
	}
	if c.PinchThreshold < 0 {
		add("pinch_threshold", "must not be negative, got %v", c.PinchThreshold)
	}
	if c.CooldownMs < 0 {
		add("cooldown_ms", "must not be negative, got %d", c.CooldownMs)
	}
	if c.MaxTextLength <= 0 {
		add("max_text_length", "must be positive, got %d", c.MaxTextLength)
	}
	if c.HandSlots < 1 {
		add("hand_slots", "must be at least 1, got %d", c.HandSlots)
	}

	if c.Camera.Device < 0 {
		add("camera.device", "must not be negative, got %d", c.Camera.Device)
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 || c.Camera.FPS < 0 {
		add("camera", "width, height and fps must not be negative")
	}

	switch c.Injector.Kind {
	case InjectorNone, InjectorRobotgo:
	case InjectorPlugin:
		if c.Injector.PluginDir == "" {
			add("injector.plugin_dir", "is required for the plugin injector")
		}
	default:
		add("injector.kind", "must be none, plugin or robotgo, got %q", c.Injector.Kind)
	}
	if c.Injector.TimeoutMs < 0 {
		add("injector.timeout_ms", "must not be negative, got %d", c.Injector.TimeoutMs)
	}
	if c.Injector.QueueSize < 0 {
		add("injector.queue_size", "must not be negative, got %d", c.Injector.QueueSize)
	}

	if c.Server.Enabled && c.Server.Addr == "" {
		add("server.addr", "is required when the server is enabled")
	}
	if c.History.Enabled && c.History.Path == "" {
		add("history.path", "is required when history is enabled")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
