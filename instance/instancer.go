package instance

import (
	"fmt"
	"math"
	"math/rand"

	"lumen/gfx"
	"lumen/op"
)

// DefaultDecay is the life lost per second of clock time.
const DefaultDecay = 0.1

// DefaultScatter is the horizontal push of DriftScatter.
const DefaultScatter = 800

// Drift is extra motion applied while a particle ages.
type Drift uint8

const (
	DriftNone Drift = iota
	// DriftWave bobs particles vertically as they age.
	DriftWave
	// DriftScatter pushes particles away from the vertical axis.
	DriftScatter
)

func (d Drift) String() string {
	switch d {
	case DriftWave:
		return "wave"
	case DriftScatter:
		return "scatter"
	default:
		return "none"
	}
}

func ParseDrift(s string) (Drift, error) {
	switch s {
	case "", "none":
		return DriftNone, nil
	case "wave":
		return DriftWave, nil
	case "scatter":
		return DriftScatter, nil
	}
	return DriftNone, fmt.Errorf("unknown drift %q", s)
}

// jitterDeg bounds the random rotation about the x axis.
const jitterDeg = 0.3

var rotationAxis = gfx.V3(1, 0, 0)

// Instancer maps ops to instances and ages them.
type Instancer struct {
	Decay   float32
	Drift   Drift
	Scatter float32
}

func NewInstancer() Instancer {
	return Instancer{Decay: DefaultDecay, Scatter: DefaultScatter}
}

// Spawn builds the instance for o. The x axis is negated and scaled by the
// canvas rows, y by the columns; size never drops below 0.2*s.Size. rng
// drives the rotation jitter; nil means no jitter.
func (in Instancer) Spawn(o op.Op, c Canvas, s Scale, rng *rand.Rand) Instance {
	x := -float32(o.X) * s.X
	y := float32(o.Y) * s.Y
	z := float32(o.Z) * s.Z

	rot := gfx.QuatIdentity()
	if rng != nil {
		deg := rng.Float32()*2*jitterDeg - jitterDeg
		rot = gfx.QuatAxisAngle(rotationAxis, deg)
	}

	return Instance{
		Position: gfx.V3(float32(c.Rows)*x, float32(c.Columns)*y, 1).Sub(c.Displacement),
		Rotation: rot,
		Life:     1 * s.Life,
		Size:     s.Size * max(z, 0.2),
		Length:   float32(o.L) * s.Length,
		Names:    o.Names,
	}
}

// Age advances inst by dt seconds.
func (in Instancer) Age(inst *Instance, dt float32) {
	inst.Life -= dt * in.Decay
	switch in.Drift {
	case DriftWave:
		inst.Position.Y += float32(math.Sin(float64(3 * (2 - inst.Life))))
	case DriftScatter:
		sign := float32(1)
		if math.Signbit(float64(inst.Position.X)) {
			sign = -1
		}
		inst.Position.X += in.Scatter * (2 - inst.Life) * sign
	}
}
