package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, 2048, s.ShadowMapSize)
	assert.Equal(t, 500*time.Millisecond, s.ResizeQuiet())
	assert.Equal(t, time.Second/30, s.FrameInterval())
	assert.GreaterOrEqual(t, s.WorkerCount(), 1)
}

func TestForMode(t *testing.T) {
	t.Setenv(WorkersEnv, "")
	assert.Equal(t, Default(), ForMode("preview"))
	assert.Equal(t, Default(), ForMode("whatever"))
	final := ForMode("final")
	assert.Equal(t, 1920, final.Width)
	assert.Greater(t, final.Samples, Default().Samples)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
width = 640
height = 360
fps = 60
asset_dir = "textures"
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, s.Width)
	assert.Equal(t, 360, s.Height)
	assert.Equal(t, "textures", s.AssetDir)
	assert.Equal(t, time.Second/60, s.FrameInterval())
	assert.Equal(t, 2048, s.ShadowMapSize, "unset keys keep defaults")
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Width, s.Width)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("width = [1"), 0o644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "parse settings")

	zero := filepath.Join(dir, "zero.toml")
	require.NoError(t, os.WriteFile(zero, []byte("fps = 0\nsamples = -1"), 0o644))
	_, err = Load(zero)
	assert.ErrorContains(t, err, "fps 0")
	assert.ErrorContains(t, err, "samples -1")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	want := Default()
	want.Width = 800
	want.MaxDisplayWidth = 640
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.Width, got.Width)
	assert.Equal(t, want.MaxDisplayWidth, got.MaxDisplayWidth)
}

func TestWorkersEnv(t *testing.T) {
	t.Setenv(WorkersEnv, "3")
	s, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, 3, s.WorkerCount())

	t.Setenv(WorkersEnv, "9999")
	s, err = Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Workers, "out of range values are ignored")
}

func TestWorkersEnvForMode(t *testing.T) {
	t.Setenv(WorkersEnv, "3")
	assert.Equal(t, 3, ForMode("preview").WorkerCount())
	assert.Equal(t, 3, ForMode("final").WorkerCount())
}

func TestLoadOverMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("fps = 12\n"), 0o644))

	s, err := LoadOver(path, ForMode("final"))
	require.NoError(t, err)
	assert.Equal(t, 12, s.FPS)
	assert.Equal(t, 1920, s.Width, "keys missing from the file keep the mode preset")
	assert.Equal(t, 4, s.Samples)

	s, err = LoadOver(filepath.Join(t.TempDir(), "none.toml"), ForMode("final"))
	require.NoError(t, err)
	assert.Equal(t, 1080, s.Height)
}
