package instance

import "lumen/gfx"

// Instance is one live particle.
type Instance struct {
	Position gfx.Vec3
	Rotation gfx.Quat
	Life     float32
	Size     float32
	Length   float32
	Names    []string
}

// Raw returns the per-instance data the rasterizer consumes.
func (i *Instance) Raw() Raw {
	return Raw{
		Model:  gfx.Mat4Mul(gfx.Mat4Translate(i.Position), gfx.Mat4FromQuat(i.Rotation)),
		Life:   i.Life,
		Size:   i.Size,
		Length: i.Length,
	}
}

// Scale holds the independent multipliers applied when spawning.
type Scale struct {
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
	Z      float32 `yaml:"z"`
	Length float32 `yaml:"length"`
	Life   float32 `yaml:"life"`
	Size   float32 `yaml:"size"`
}

func DefaultScale() Scale {
	return Scale{X: 1, Y: 1, Z: 1, Length: 1, Life: 1, Size: 1}
}

// Canvas is the world grid normalised op coordinates are stretched over.
type Canvas struct {
	Ratio        float32
	NPixels      float32
	Rows         uint32
	Columns      uint32
	Displacement gfx.Vec3
}

const canvasPixels = 20

// NewCanvas sizes the grid for a w x h viewport: Columns is fixed, Rows
// follows the aspect ratio, and Displacement re-centres spawned particles.
func NewCanvas(w, h int) Canvas {
	ratio := float32(1)
	if h > 0 {
		ratio = float32(w) / float32(h)
	}
	n := float32(canvasPixels)
	rows := uint32(n * ratio)
	cols := uint32(n)
	return Canvas{
		Ratio:        ratio,
		NPixels:      n,
		Rows:         rows,
		Columns:      cols,
		Displacement: gfx.V3(0, float32(cols), n),
	}
}
