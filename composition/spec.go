package composition

import (
	"errors"
	"image"
	"math/rand"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"lumen/gfx"
	"lumen/instance"
	"lumen/op"
)

var (
	ErrUnknownFrame     = errors.New("unknown frame")
	ErrForwardReference = errors.New("frame sampled before it is written")
	ErrUnknownToy       = errors.New("unknown toy")
	ErrNoPasses         = errors.New("composition has no passes")
	ErrBadPass          = errors.New("invalid pass")
)

// DefaultMain is the presented frame when Spec.Main is empty.
const DefaultMain = "main"

// Kind selects a pass variant.
type Kind string

const (
	KindParticles Kind = "particles"
	KindToy       Kind = "toy"
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindSampler   Kind = "sampler"
)

// PassSpec configures one pass. Fields outside the pass kind are ignored.
type PassSpec struct {
	Kind   Kind   `yaml:"kind"`
	Name   string `yaml:"name"`
	Output string `yaml:"output"`
	Clear  bool   `yaml:"clear"`

	// particles
	Lanes    []string `yaml:"lanes"`
	Mode     string   `yaml:"mode"`
	Drift    string   `yaml:"drift"`
	Palette  []string `yaml:"palette"`
	Vertices int      `yaml:"vertices"`
	Indices  int      `yaml:"indices"`

	// toy
	Toy string `yaml:"toy"`

	// text
	Text  string `yaml:"text"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Color string `yaml:"color"`

	// image
	Path string `yaml:"path"`

	// sampler
	Inputs []string `yaml:"inputs"`
	Blend  string   `yaml:"blend"`

	// Opacity applies to image and sampler passes; 0 means 1.
	Opacity float32 `yaml:"opacity"`
}

// Spec is the static description of a composition.
type Spec struct {
	Width, Height int
	// Main names the presented frame.
	Main       string
	Background gfx.Color
	Camera     gfx.Camera
	OrbitSpeed float32
	Scale      instance.Scale
	Decay      float32 // zero selects instance.DefaultDecay
	Passes     []PassSpec
}

// Deps are the collaborators a composition is built with.
type Deps struct {
	// Receiver feeds particle passes. Nil means no lanes.
	Receiver *op.Receiver
	// Rand seeds shape generation and spawn jitter. Nil uses a fixed seed.
	Rand     *rand.Rand
	Log      *zap.Logger
	Observer Observer
	Tracer   trace.Tracer
	// LoadImage opens image layers. Nil reads files from disk.
	LoadImage func(path string) (image.Image, error)
}
