// Package config loads the lumen configuration.
//
// Values come from Default, then the YAML file, then LUMEN_* environment
// variables, and are checked by Validate. The result is immutable once
// loaded.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"lumen/composition"
	"lumen/gfx"
	"lumen/instance"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window   Window                 `yaml:"window"`
	Ops      Ops                    `yaml:"ops"`
	Audio    Audio                  `yaml:"audio"`
	Render   Render                 `yaml:"render"`
	Camera   Camera                 `yaml:"camera"`
	Instance instance.Scale         `yaml:"instance"`
	Passes   []composition.PassSpec `yaml:"passes"`
	Print    Print                  `yaml:"print"`
	Metrics  Metrics                `yaml:"metrics"`
	Tracing  Tracing                `yaml:"tracing"`
}

type Window struct {
	Width    int    `yaml:"width" env:"LUMEN_WIDTH"`
	Height   int    `yaml:"height" env:"LUMEN_HEIGHT"`
	Title    string `yaml:"title" env:"LUMEN_TITLE"`
	FPS      int    `yaml:"fps" env:"LUMEN_FPS"`
	Headless bool   `yaml:"headless" env:"LUMEN_HEADLESS"`
	// Ticks stops a headless run after this many ticks; 0 runs until
	// cancelled.
	Ticks uint64 `yaml:"ticks" env:"LUMEN_TICKS"`
}

type Ops struct {
	Path string `yaml:"path" env:"LUMEN_OPS"`
	// Stream feeds the document over the event channel in windows of
	// StreamWindow seconds instead of loading it up front.
	Stream       bool    `yaml:"stream" env:"LUMEN_STREAM"`
	StreamWindow float64 `yaml:"stream_window"`
	Watch        bool    `yaml:"watch" env:"LUMEN_WATCH"`
	// Ungrouped puts every op in one lane regardless of names.
	Ungrouped bool `yaml:"ungrouped"`
	// Lanes are registered even before any op names them.
	Lanes  []string `yaml:"lanes"`
	Buffer int      `yaml:"buffer"`
}

type Audio struct {
	Path   string  `yaml:"path" env:"LUMEN_AUDIO"`
	Volume float64 `yaml:"volume" env:"LUMEN_VOLUME"`
}

type Render struct {
	Main       string  `yaml:"main"`
	Background string  `yaml:"background"`
	Decay      float32 `yaml:"decay" env:"LUMEN_DECAY"`
	Seed       int64   `yaml:"seed" env:"LUMEN_SEED"`
	// Autoplay starts the clock without waiting for a key press.
	Autoplay bool `yaml:"autoplay" env:"LUMEN_AUTOPLAY"`
}

type Camera struct {
	Position   [3]float32 `yaml:"position"`
	Target     [3]float32 `yaml:"target"`
	FOV        float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	OrbitSpeed float32    `yaml:"orbit_speed"`
}

type Print struct {
	Frames  int    `yaml:"frames" env:"LUMEN_FRAMES"`
	Out     string `yaml:"out" env:"LUMEN_OUT"`
	RateMS  int    `yaml:"rate_ms"`
	Workers int    `yaml:"workers"`
}

type Metrics struct {
	Addr string `yaml:"addr" env:"LUMEN_METRICS_ADDR"`
}

// Tracing exports spans over OTLP/HTTP. It stays off until Endpoint is set.
type Tracing struct {
	Endpoint string `yaml:"endpoint" env:"LUMEN_OTEL_ENDPOINT"`
	Enabled  bool   `yaml:"enabled" env:"LUMEN_OTEL_ENABLED"`
	Service  string `yaml:"service" env:"LUMEN_OTEL_SERVICE"`
}

// Active reports whether spans should be exported.
func (t Tracing) Active() bool { return t.Enabled && t.Endpoint != "" }

// Default returns a runnable configuration: a gradient backdrop under one
// particle pass over every lane.
func Default() Config {
	cam := gfx.DefaultCamera()
	return Config{
		Window: Window{Width: 640, Height: 360, Title: "lumen", FPS: 60},
		Ops:    Ops{StreamWindow: 1, Buffer: 64},
		Audio:  Audio{Volume: 1},
		Render: Render{Main: composition.DefaultMain, Background: "#030002", Decay: instance.DefaultDecay, Seed: 1},
		Camera: Camera{
			Position: [3]float32{cam.Position.X, cam.Position.Y, cam.Position.Z},
			Target:   [3]float32{cam.Target.X, cam.Target.Y, cam.Target.Z},
			FOV:      cam.FOVYRad,
			Near:     cam.Near,
			Far:      cam.Far,
		},
		Instance: instance.DefaultScale(),
		Passes: []composition.PassSpec{
			{Kind: composition.KindToy, Name: "backdrop", Toy: "gradient"},
			{Kind: composition.KindParticles, Name: "ops"},
		},
		Print:   Print{Frames: 500, Out: "out", RateMS: 20, Workers: 4},
		Tracing: Tracing{Enabled: true, Service: "lumen"},
	}
}

// Load reads path (if not empty) over the defaults, applies environment
// overrides and validates. Relative file paths in the config resolve
// against the config file directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, err
		}
		cfg.resolve(filepath.Dir(path))
	}
	if err := cfg.parseEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) resolve(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Ops.Path = abs(c.Ops.Path)
	c.Audio.Path = abs(c.Audio.Path)
	for i := range c.Passes {
		c.Passes[i].Path = abs(c.Passes[i].Path)
	}
}

// parseEnv applies LUMEN_* overrides section by section; passes and
// instance scales are file-only.
func (c *Config) parseEnv() error {
	for _, section := range []any{&c.Window, &c.Ops, &c.Audio, &c.Render, &c.Print, &c.Metrics, &c.Tracing} {
		if err := ParseEnv(section); err != nil {
			return err
		}
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.Window.FPS)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: volume %g outside [0,1]", ErrInvalid, c.Audio.Volume)
	}
	if !(c.Render.Decay > 0) {
		return fmt.Errorf("%w: decay %g must be positive", ErrInvalid, c.Render.Decay)
	}
	if _, err := gfx.ParseHex(c.Render.Background); err != nil {
		return fmt.Errorf("%w: background: %w", ErrInvalid, err)
	}
	if len(c.Passes) == 0 {
		return fmt.Errorf("%w: no passes", ErrInvalid)
	}
	for i, p := range c.Passes {
		if p.Kind == "" {
			return fmt.Errorf("%w: pass %d has no kind", ErrInvalid, i)
		}
	}
	if c.Ops.Stream && c.Ops.StreamWindow <= 0 {
		return fmt.Errorf("%w: stream window %g", ErrInvalid, c.Ops.StreamWindow)
	}
	if c.Ops.Watch && c.Ops.Path == "" {
		return fmt.Errorf("%w: watch needs an ops path", ErrInvalid)
	}
	if c.Ops.Buffer <= 0 {
		return fmt.Errorf("%w: channel buffer %d", ErrInvalid, c.Ops.Buffer)
	}
	if c.Print.Frames < 0 || c.Print.RateMS <= 0 || c.Print.Workers <= 0 {
		return fmt.Errorf("%w: print frames %d rate %dms workers %d", ErrInvalid, c.Print.Frames, c.Print.RateMS, c.Print.Workers)
	}
	if c.Tracing.Active() {
		u, err := url.Parse(c.Tracing.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: tracing endpoint %q is not an http(s) URL", ErrInvalid, c.Tracing.Endpoint)
		}
	}
	return nil
}

// PrintRate is the fixed print clock step.
func (c *Config) PrintRate() time.Duration {
	return time.Duration(c.Print.RateMS) * time.Millisecond
}

// Composition translates the config into a composition spec.
func (c *Config) Composition() composition.Spec {
	bg, _ := gfx.ParseHex(c.Render.Background)
	v3 := func(a [3]float32) gfx.Vec3 { return gfx.V3(a[0], a[1], a[2]) }
	return composition.Spec{
		Width:      c.Window.Width,
		Height:     c.Window.Height,
		Main:       c.Render.Main,
		Background: bg,
		Camera: gfx.Camera{
			Position: v3(c.Camera.Position),
			Target:   v3(c.Camera.Target),
			Up:       gfx.V3(0, 1, 0),
			FOVYRad:  c.Camera.FOV,
			Near:     c.Camera.Near,
			Far:      c.Camera.Far,
		},
		OrbitSpeed: c.Camera.OrbitSpeed,
		Scale:      c.Instance,
		Decay:      c.Render.Decay,
		Passes:     append([]composition.PassSpec(nil), c.Passes...),
	}
}
