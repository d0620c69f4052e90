package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/airkeys/internal/config"
	"github.com/ayusman/airkeys/internal/layout"
	"github.com/ayusman/airkeys/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEngine(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Layout = "basic"

	eng, err := buildEngine(cfg)
	require.NoError(t, err)
	assert.Equal(t, layout.VariantBasic, eng.Layout().Variant())

	cfg.Layout = "dvorak"
	_, err = buildEngine(cfg)
	assert.Error(t, err)
}

func TestBuildInjector(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.Injector.Kind = config.InjectorNone
	assert.Nil(t, buildInjector(cfg))

	// No plugin answers "keystroke" in an empty directory.
	cfg.Injector.Kind = config.InjectorPlugin
	cfg.Injector.PluginDir = t.TempDir()
	assert.Nil(t, buildInjector(cfg))
}

func TestOpenHistory(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.History.Enabled = false
	st, err := openHistory(cfg)
	require.NoError(t, err)
	assert.Nil(t, st)

	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(t.TempDir(), "nested", "history.db")
	st, err = openHistory(cfg)
	require.NoError(t, err)
	defer st.Close()

	assert.FileExists(t, cfg.History.Path)
}

func TestReadRecordingFile(t *testing.T) {
	data, err := testdata.Open(testdata.HiFive)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, data, 0644))

	frames, err := readRecordingFile(path)
	require.NoError(t, err)
	assert.Len(t, frames, 63)

	_, err = readRecordingFile(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"run", "replay", "layout", "history", "config"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
