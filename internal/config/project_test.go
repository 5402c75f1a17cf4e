package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/steelcalc/internal/config"
)

func TestResolveProjectDir_FlagOverride(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")

	flagDir := t.TempDir()

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, filepath.Join(flagDir, ".steelcalc"), got)
	assert.True(t, filepath.IsAbs(got), "returned path must be absolute")
}

func TestResolveProjectDir_FlagOverridesEnv(t *testing.T) {
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, filepath.Join(flagDir, ".steelcalc"), got)
}

func TestResolveProjectDir_EnvVarOverride(t *testing.T) {
	envDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), "", "/does/not/matter")

	assert.Equal(t, filepath.Join(envDir, ".steelcalc"), got)
}

func TestResolveProjectDir_NoDoubleAppend(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	dir := filepath.Join(t.TempDir(), ".steelcalc")

	got := config.ResolveProjectDir(context.Background(), dir, "")

	assert.Equal(t, dir, got)
}

func TestResolveProjectDir_WalkUp(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvHome, filepath.Join(t.TempDir(), "home"))

	root := t.TempDir()
	projectDir := filepath.Join(root, ".steelcalc")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))
	subDir := filepath.Join(root, "jobs", "2026", "bay-4")
	require.NoError(t, os.MkdirAll(subDir, 0o755))

	got := config.ResolveProjectDir(context.Background(), "", subDir)

	assert.Equal(t, projectDir, got)
}

func TestResolveProjectDir_NotFound(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")

	got := config.ResolveProjectDir(context.Background(), "", "")

	assert.Empty(t, got)
}

func TestResolveProjectDir_GlobalDirIsNotProject(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	home := t.TempDir()
	globalDir := filepath.Join(home, ".steelcalc")
	require.NoError(t, os.MkdirAll(globalDir, 0o755))
	t.Setenv(config.EnvHome, globalDir)

	got := config.ResolveProjectDir(context.Background(), "", home)

	assert.Empty(t, got)
}

func TestFindProjectDir_FileNotDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".steelcalc"), []byte("x"), 0o600))

	_, err := config.FindProjectDir(root)
	// A plain file named .steelcalc does not mark a project; the walk continues
	// to the filesystem root unless an ancestor has one.
	if err != nil {
		assert.ErrorIs(t, err, config.ErrNoProject)
	}
}

func TestSetGetResolvedProjectDir(t *testing.T) {
	t.Cleanup(func() { config.SetResolvedProjectDir("") })

	config.SetResolvedProjectDir("/tmp/job/.steelcalc")
	assert.Equal(t, "/tmp/job/.steelcalc", config.GetResolvedProjectDir())
}

func TestNewWithProjectDir_MergesOverlay(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvOutputFormat, "")
	projectDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte(`
output:
  default_format: json
defaults:
  cwt_price: 71.25
`), 0o600))

	cfg := config.NewWithProjectDir(context.Background(), projectDir)

	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.InDelta(t, 71.25, cfg.Defaults.CWTPrice, 1e-9)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestNewWithProjectDir_EnvWinsOverProject(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvOutputFormat, "ndjson")
	projectDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"),
		[]byte("output:\n  default_format: json\n"), 0o600))

	cfg := config.NewWithProjectDir(context.Background(), projectDir)

	assert.Equal(t, "ndjson", cfg.Output.DefaultFormat)
}

func TestNewWithProjectDir_BadOverlayFallsBack(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvOutputFormat, "")
	projectDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"),
		[]byte("output: [broken\n"), 0o600))

	cfg := config.NewWithProjectDir(context.Background(), projectDir)

	assert.Equal(t, "table", cfg.Output.DefaultFormat)
}

func TestNewWithProjectDir_Empty(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvOutputFormat, "")

	cfg := config.NewWithProjectDir(context.Background(), "")

	assert.Equal(t, config.Default().Output, cfg.Output)
}
