package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/steelcalc/internal/config"
	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/tables"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, config.CurrentSchemaVersion, cfg.SchemaVersion)
	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "C Stud/C Joist", cfg.Defaults.Shape)
	assert.InDelta(t, 6.0, cfg.Defaults.MemberDepth, 1e-9)
	assert.InDelta(t, 50.0, cfg.Defaults.OutsideDiameter, 1e-9)
	assert.InDelta(t, 50.0, cfg.Defaults.CWTPrice, 1e-9)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func TestNew_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvOutputFormat, "")

	cfg := config.New()

	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
}

func TestNew_ReadsGlobalFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvOutputFormat, "")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
schema_version: 1.0.0
output:
  default_format: json
defaults:
  shape: track
  member_depth: 4
`), 0o600))

	cfg := config.New()

	assert.Equal(t, config.FormatJSON, cfg.Output.DefaultFormat)
	assert.Equal(t, "track", cfg.Defaults.Shape)
	assert.InDelta(t, 4.0, cfg.Defaults.MemberDepth, 1e-9)
	// Keys absent from the file keep their defaults.
	assert.InDelta(t, 50.0, cfg.Defaults.CWTPrice, 1e-9)
}

func TestNew_MalformedFileFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvOutputFormat, "")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("output: [\n"), 0o600))

	cfg := config.New()

	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
}

func TestLoad(t *testing.T) {
	t.Run("missing file is an error", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: {addr: [\n"), 0o600))
		_, err := config.Load(path)
		assert.ErrorContains(t, err, "parsing config")
	})

	t.Run("durations decode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  shutdown_timeout: 2s\n"), 0o600))
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, path, cfg.ConfigPath())
	})
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := config.Default()
	cfg.SetConfigPath(path)
	cfg.Defaults.Gauge = "16"
	cfg.Server.RateLimit = 5
	cfg.Server.RateBurst = 10

	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Defaults, loaded.Defaults)
	assert.Equal(t, cfg.Server, loaded.Server)
}

func TestSave_NoPath(t *testing.T) {
	cfg := config.Default()
	assert.Error(t, cfg.Save())
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvLogFormat, "json")
	t.Setenv(config.EnvLogFile, "/tmp/s.log")
	t.Setenv(config.EnvOutputFormat, "ndjson")
	t.Setenv(config.EnvFlangeFile, "tables.yaml")
	t.Setenv(config.EnvGaugeFile, "")
	t.Setenv(config.EnvConcurrency, "4")
	t.Setenv(config.EnvServerAddr, ":9999")

	cfg := config.Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/tmp/s.log", cfg.Logging.File)
	assert.Equal(t, "ndjson", cfg.Output.DefaultFormat)
	assert.Equal(t, "tables.yaml", cfg.Tables.FlangeFile)
	assert.Empty(t, cfg.Tables.GaugeFile)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestApplyEnvOverrides_BadNumberIgnored(t *testing.T) {
	t.Setenv(config.EnvConcurrency, "lots")

	cfg := config.Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, 0, cfg.Batch.Concurrency)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{
			name:    "unknown output format",
			mutate:  func(c *config.Config) { c.Output.DefaultFormat = "yaml" },
			wantErr: "output.default_format",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "gauge file without flange file",
			mutate:  func(c *config.Config) { c.Tables.GaugeFile = "g.csv" },
			wantErr: "tables.gauge_file",
		},
		{
			name:    "negative depth",
			mutate:  func(c *config.Config) { c.Defaults.MemberDepth = -1 },
			wantErr: "defaults.member_depth",
		},
		{
			name:    "negative price",
			mutate:  func(c *config.Config) { c.Defaults.CWTPrice = -0.01 },
			wantErr: "defaults.cwt_price",
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *config.Config) { c.Batch.Concurrency = -2 },
			wantErr: "batch.concurrency",
		},
		{
			name:    "rate without burst",
			mutate:  func(c *config.Config) { c.Server.RateBurst = 0 },
			wantErr: "server.rate_burst",
		},
		{
			name:    "unsupported schema",
			mutate:  func(c *config.Config) { c.SchemaVersion = "2.1.0" },
			wantErr: "not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Output.DefaultFormat = "yaml"
	cfg.Batch.MaxRows = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.default_format")
	assert.Contains(t, err.Error(), "batch.max_rows")
}

func TestCheckSchemaVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{version: "", wantErr: false},
		{version: "1.0.0", wantErr: false},
		{version: "1.4.2", wantErr: false},
		{version: "0.9.0", wantErr: true},
		{version: "2.0.0", wantErr: true},
		{version: "one", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := config.CheckSchemaVersion(tt.version)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultsConfig_Input(t *testing.T) {
	tbl := tables.MustDefault()

	t.Run("configured selections", func(t *testing.T) {
		d := config.DefaultsConfig{
			Shape:           "U Stud/Track",
			MemberDepth:     3.625,
			FlangeWidth:     "1-5/8",
			Gauge:           "20 ga",
			OutsideDiameter: 48,
			CWTPrice:        55,
		}
		in, err := d.Input(tbl)
		require.NoError(t, err)
		assert.Equal(t, engine.UStud, in.Shape)
		assert.InDelta(t, 1.625, in.FlangeWidth, 1e-9)
		assert.Equal(t, tables.Gauge("20"), in.Gauge)
		assert.InDelta(t, 48.0, in.OutsideDiameter, 1e-9)
		require.NoError(t, in.Validate())
	})

	t.Run("empty selectors use first table keys", func(t *testing.T) {
		in, err := config.Default().Defaults.Input(tbl)
		require.NoError(t, err)
		assert.Equal(t, engine.CStud, in.Shape)
		assert.InDelta(t, tbl.FlangeWidths()[0], in.FlangeWidth, 1e-9)
		assert.Equal(t, tbl.Gauges()[0], in.Gauge)
	})

	t.Run("unknown gauge", func(t *testing.T) {
		d := config.Default().Defaults
		d.Gauge = "7"
		_, err := d.Input(tbl)
		assert.ErrorIs(t, err, tables.ErrKeyNotFound)
	})

	t.Run("unknown shape", func(t *testing.T) {
		d := config.Default().Defaults
		d.Shape = "Z purlin"
		_, err := d.Input(tbl)
		assert.ErrorContains(t, err, "defaults.shape")
	})
}

func TestTablesConfig_LoadTables(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		tbl, err := config.TablesConfig{}.LoadTables()
		require.NoError(t, err)
		assert.True(t, tbl.HasGauge("18"))
	})

	t.Run("combined yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tables.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
flange_widths:
  - flange_width: 2
    lip_length: 0.625
gauges:
  - gauge: "16"
    thickness: 0.0598
`), 0o600))
		tbl, err := config.TablesConfig{FlangeFile: path}.LoadTables()
		require.NoError(t, err)
		assert.Equal(t, []float64{2}, tbl.FlangeWidths())
	})
}
