package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendJSON, cfg.Backend)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.False(t, cfg.Strict)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "data_dir: /tmp/tempus-test\nbackend: sqlite\nstrict: true\ntick_interval: 500ms\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tempus-test", cfg.DataDir)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, filepath.Join("/tmp/tempus-test", "tasks.db"), cfg.TasksPath())
	assert.Equal(t, 500*time.Millisecond, cfg.Scheduler().TickInterval)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"backend": "backend: postgres\n",
		"tick":    "tick_interval: 1ms\n",
		"syntax":  "backend: [json\n",
		"notify":  "notify_command: [rm, -rf, /]\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.LogToConsole = true

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, filepath.Join(cfg.DataDir, "tasks.json"), got.TasksPath())
	assert.Equal(t, filepath.Join(cfg.DataDir, "tempus.log"), got.LogPath())

	assert.Error(t, Save(path, nil))
}

func TestNotifier(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.Notifier())

	cfg.NotifyCommand = []string{"notify-send", "{title}", "{body}"}
	require.NoError(t, cfg.Validate())
	n := cfg.Notifier()
	require.NotNil(t, n)
	assert.Equal(t, "localexec", n.Name())
}
