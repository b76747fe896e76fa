package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/composition"
	"lumen/gfx"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Passes, 2)
	assert.Equal(t, composition.DefaultMain, cfg.Render.Main)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "lumen.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.Window.Width)
	assert.Equal(t, 30, cfg.Window.FPS)
	assert.Equal(t, filepath.Join("testdata", "ops.json"), cfg.Ops.Path)
	assert.Equal(t, "/abs/track.wav", cfg.Audio.Path)
	assert.Equal(t, []string{"kick", "snare"}, cfg.Ops.Lanes)
	assert.Equal(t, filepath.Join("testdata", "logo.png"), cfg.Passes[2].Path)
	// Unset fields keep their defaults.
	assert.Equal(t, 64, cfg.Ops.Buffer)
	assert.Equal(t, "main", cfg.Render.Main)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  widht: 10\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("LUMEN_WIDTH", "100")
	t.Setenv("LUMEN_SEED", "99")
	t.Setenv("LUMEN_HEADLESS", "true")
	t.Setenv("LUMEN_METRICS_ADDR", ":9100")

	cfg, err := Load(filepath.Join("testdata", "lumen.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Window.Width)
	assert.Equal(t, 180, cfg.Window.Height)
	assert.Equal(t, int64(99), cfg.Render.Seed)
	assert.True(t, cfg.Window.Headless)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestZeroDecayIsRejected(t *testing.T) {
	t.Setenv("LUMEN_DECAY", "0")
	_, err := Load(filepath.Join("testdata", "lumen.yaml"))
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "decay")
}

func TestTracingFromEnv(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Tracing.Active())
	assert.Equal(t, "lumen", cfg.Tracing.Service)

	t.Setenv("LUMEN_OTEL_ENDPOINT", "http://collector:4318")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Tracing.Active())

	t.Setenv("LUMEN_OTEL_ENABLED", "false")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Tracing.Active())
}

func TestEnvParseError(t *testing.T) {
	t.Setenv("LUMEN_WIDTH", "wide")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"zero fps", func(c *Config) { c.Window.FPS = 0 }},
		{"loud volume", func(c *Config) { c.Audio.Volume = 1.5 }},
		{"negative decay", func(c *Config) { c.Render.Decay = -1 }},
		{"zero decay", func(c *Config) { c.Render.Decay = 0 }},
		{"tracing endpoint without scheme", func(c *Config) { c.Tracing.Endpoint = "collector:4318" }},
		{"bad background", func(c *Config) { c.Render.Background = "blue" }},
		{"no passes", func(c *Config) { c.Passes = nil }},
		{"pass without kind", func(c *Config) { c.Passes[0].Kind = "" }},
		{"stream without window", func(c *Config) { c.Ops.Stream = true; c.Ops.StreamWindow = 0 }},
		{"watch without path", func(c *Config) { c.Ops.Watch = true }},
		{"zero buffer", func(c *Config) { c.Ops.Buffer = 0 }},
		{"zero print rate", func(c *Config) { c.Print.RateMS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestComposition(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "lumen.yaml"))
	require.NoError(t, err)

	spec := cfg.Composition()
	assert.Equal(t, 320, spec.Width)
	assert.Equal(t, gfx.RGB(0x10, 0x20, 0x30), spec.Background)
	assert.Equal(t, gfx.V3(0, 0, 40), spec.Camera.Position)
	assert.InDelta(t, 0.8, spec.Camera.FOVYRad, 1e-6)
	assert.InDelta(t, 0.25, spec.OrbitSpeed, 1e-6)
	assert.InDelta(t, 2, spec.Scale.Y, 1e-6)
	assert.InDelta(t, 0.2, spec.Decay, 1e-6)
	require.Len(t, spec.Passes, 3)
	assert.Equal(t, composition.KindSampler, spec.Passes[1].Kind)

	// The spec owns its pass slice.
	spec.Passes[0].Name = "changed"
	assert.Equal(t, "kicks", cfg.Passes[0].Name)
}

func TestPrintRate(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "20ms", cfg.PrintRate().String())
}
