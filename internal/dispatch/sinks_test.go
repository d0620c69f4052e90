package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/plugin"
	"github.com/ayusman/airkeys/internal/store"
)

// installPlugin writes a shell-script keyboard plugin that appends each
// requested key to keys.log in its own directory.
func installPlugin(t *testing.T, dir string, actions []string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	pluginDir := filepath.Join(dir, "keyboard")
	require.NoError(t, os.MkdirAll(pluginDir, 0755))

	manifest, err := json.Marshal(plugin.Manifest{
		Name:       "keyboard",
		Version:    "1.0.0",
		Executable: "keyboard.sh",
		Actions:    actions,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "plugin.json"), manifest, 0644))

	script := `#!/bin/sh
INPUT=$(cat)
KEY=$(echo "$INPUT" | sed -n 's/.*"key":"\([^"]*\)".*/\1/p')
if [ "$KEY" = "!" ]; then
  echo '{"success":false,"error":"refused"}'
  exit 0
fi
echo "$KEY" >> keys.log
echo '{"success":true}'
`
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "keyboard.sh"), []byte(script), 0755))
	return pluginDir
}

func TestPluginInjector(t *testing.T) {
	dir := t.TempDir()
	pluginDir := installPlugin(t, dir, []string{KeystrokeAction})

	inj, err := NewPluginInjector(plugin.NewManager(dir), plugin.NewExecutor(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "keyboard", inj.Plugin().Manifest.Name)

	ctx := context.Background()
	require.NoError(t, inj.Inject(ctx, char('Q')))
	require.NoError(t, inj.Inject(ctx, engine.Intent{Kind: engine.IntentSpace}))
	require.NoError(t, inj.Inject(ctx, engine.Intent{Kind: engine.IntentBackspace}))

	err = inj.Inject(ctx, char('!'))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")

	data, err := os.ReadFile(filepath.Join(pluginDir, "keys.log"))
	require.NoError(t, err)
	assert.Equal(t, "Q\nspace\nbackspace\n", string(data))
}

func TestNewPluginInjector_Unavailable(t *testing.T) {
	t.Run("no plugin dir", func(t *testing.T) {
		_, err := NewPluginInjector(plugin.NewManager(filepath.Join(t.TempDir(), "none")), plugin.NewExecutor(0))
		assert.True(t, errors.Is(err, ErrInjectorUnavailable), "got %v", err)
	})

	t.Run("plugin without keystroke action", func(t *testing.T) {
		dir := t.TempDir()
		installPlugin(t, dir, []string{"shortcut"})

		_, err := NewPluginInjector(plugin.NewManager(dir), plugin.NewExecutor(0))
		assert.ErrorIs(t, err, ErrInjectorUnavailable)
	})
}

func TestRobotInjector(t *testing.T) {
	var typed, tapped []string
	r := &RobotInjector{
		typeStr: func(s string) { typed = append(typed, s) },
		keyTap: func(k string) error {
			tapped = append(tapped, k)
			return nil
		},
	}

	ctx := context.Background()
	require.NoError(t, r.Inject(ctx, char('a')))
	require.NoError(t, r.Inject(ctx, char('B')))
	require.NoError(t, r.Inject(ctx, engine.Intent{Kind: engine.IntentSpace}))
	require.NoError(t, r.Inject(ctx, engine.Intent{Kind: engine.IntentBackspace}))
	assert.Error(t, r.Inject(ctx, engine.Intent{Kind: engine.IntentKind(9)}))

	assert.Equal(t, []string{"a", "B"}, typed)
	assert.Equal(t, []string{"space", "backspace"}, tapped)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, r.Inject(cancelled, char('z')), context.Canceled)
	assert.Len(t, typed, 2)
}

func TestRecorder(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	sess := &store.Session{ID: uuid.New().String(), Layout: "extended"}
	require.NoError(t, s.Sessions().Create(sess))

	rec := NewRecorder(s.Keystrokes(), sess.ID)
	assert.Equal(t, sess.ID, rec.SessionID())

	d := New(rec, 8)
	d.Dispatch(char('o'), char('K'), engine.Intent{Kind: engine.IntentSpace}, engine.Intent{Kind: engine.IntentBackspace})
	require.NoError(t, d.Close())

	keys, err := s.Keystrokes().ListBySession(sess.ID)
	require.NoError(t, err)
	require.Len(t, keys, 4)

	var names, kinds []string
	for _, k := range keys {
		names = append(names, k.Key)
		kinds = append(kinds, k.Kind)
	}
	assert.Equal(t, []string{"o", "K", "space", "backspace"}, names)
	assert.Equal(t, []string{"char", "char", "space", "backspace"}, kinds)
}

func TestRecorder_UnknownSession(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	err = NewRecorder(s.Keystrokes(), "missing").Inject(context.Background(), char('a'))
	assert.ErrorIs(t, err, store.ErrNotFound)
}
