package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "proppilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
storage_path: /tmp/pp/state.json
log_level: debug
response_delay: 250ms
alt_screen: false
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/pp/state.json", cfg.StoragePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.ResponseDelay)
	assert.False(t, cfg.AltScreen)
	assert.Equal(t, 2*time.Second, cfg.ExportDelay, "unset keys keep defaults")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "response_delay: 250ms\n")
	t.Setenv("PROPPILOT_RESPONSE_DELAY", "10ms")
	t.Setenv("PROPPILOT_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("PROPPILOT_ALT_SCREEN", "false")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, cfg.ResponseDelay)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.False(t, cfg.AltScreen)
}

func TestInvalidValuesAreRejected(t *testing.T) {
	tests := map[string]func(t *testing.T) error{
		"bad level": func(t *testing.T) error {
			path := writeConfig(t, "log_level: loud\n")
			_, err := Load(path)
			return err
		},
		"negative delay": func(t *testing.T) error {
			t.Setenv("PROPPILOT_EXPORT_DELAY", "-1s")
			_, err := Load("")
			return err
		},
		"bad duration": func(t *testing.T) error {
			t.Setenv("PROPPILOT_GENERATION_TICK", "soon")
			_, err := Load("")
			return err
		},
		"zero upload cap": func(t *testing.T) error {
			path := writeConfig(t, "max_upload_bytes: 0\n")
			_, err := Load(path)
			return err
		},
	}
	for name, run := range tests {
		t.Run(name, func(t *testing.T) {
			err := run(t)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
