package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/plugin"
)

// KeystrokeAction is the plugin action used to type a key.
const KeystrokeAction = "keystroke"

// PluginInjector types intents through an out-of-process keyboard plugin.
type PluginInjector struct {
	plugin   *plugin.Plugin
	executor *plugin.Executor
}

var _ Injector = (*PluginInjector)(nil)

// NewPluginInjector discovers plugins and picks the one that handles
// keystrokes. It returns ErrInjectorUnavailable when none does.
func NewPluginInjector(mgr *plugin.Manager, exec *plugin.Executor) (*PluginInjector, error) {
	if err := mgr.Discover(); err != nil {
		return nil, fmt.Errorf("discover plugins in %s: %w", mgr.PluginDir(), err)
	}

	p, err := mgr.FindByAction(KeystrokeAction)
	if errors.Is(err, plugin.ErrPluginNotFound) {
		return nil, fmt.Errorf("%w: no plugin in %s handles %q", ErrInjectorUnavailable, mgr.PluginDir(), KeystrokeAction)
	}
	if err != nil {
		return nil, err
	}

	return &PluginInjector{plugin: p, executor: exec}, nil
}

// Plugin returns the plugin keystrokes are sent to.
func (p *PluginInjector) Plugin() *plugin.Plugin {
	return p.plugin
}

// Inject runs one keystroke request.
func (p *PluginInjector) Inject(ctx context.Context, in engine.Intent) error {
	params, err := json.Marshal(map[string]string{"key": in.String()})
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	resp, err := p.executor.Execute(ctx, p.plugin, &plugin.Request{
		Action:  KeystrokeAction,
		Trigger: "pinch",
		Params:  params,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s: %s", p.plugin.Manifest.Name, resp.Error)
	}
	return nil
}
