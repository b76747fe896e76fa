package composition

import (
	"fmt"
	"math"
	"sort"

	"lumen/clock"
	"lumen/gfx"
)

// Uniforms are the inputs every toy program sees.
type Uniforms struct {
	Width, Height int
	Time          float32
}

// ToyFunc shades one pixel at normalised coordinates u,v in [0,1].
type ToyFunc func(u, v float32, un Uniforms) gfx.Color

var toys = map[string]ToyFunc{
	"plasma":   plasma,
	"rings":    rings,
	"gradient": gradient,
}

// RegisterToy adds or replaces a toy program. It is not safe to call while
// compositions are being built.
func RegisterToy(name string, fn ToyFunc) {
	toys[name] = fn
}

// Toys lists the registered programs.
func Toys() []string {
	out := make([]string, 0, len(toys))
	for name := range toys {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func lookupToy(name string) (ToyFunc, error) {
	fn, ok := toys[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownToy)
	}
	return fn, nil
}

// Toy is a procedural full-frame pass.
type Toy struct {
	Program  string
	fn       ToyFunc
	uniforms Uniforms
}

func (t *Toy) update(out *gfx.Frame, s clock.Snapshot) {
	t.uniforms = Uniforms{Width: out.W, Height: out.H, Time: s.TotalElapsed}
}

func (t *Toy) paint(out *gfx.Frame) {
	invW := 1 / float32(out.W)
	invH := 1 / float32(out.H)
	for y := 0; y < out.H; y++ {
		v := (float32(y) + 0.5) * invH
		for x := 0; x < out.W; x++ {
			u := (float32(x) + 0.5) * invW
			out.Blend(x, y, t.fn(u, v, t.uniforms), 1)
		}
	}
}

func sin32(v float32) float32 { return float32(math.Sin(float64(v))) }
func cos32(v float32) float32 { return float32(math.Cos(float64(v))) }

func plasma(u, v float32, un Uniforms) gfx.Color {
	t := un.Time
	v1 := sin32(u*10 + t)
	v2 := sin32(10*(u*sin32(t/2)+v*cos32(t/3)) + t)
	cx := u + 0.5*sin32(t/5)
	cy := v + 0.5*cos32(t/3)
	v3 := sin32(float32(math.Sqrt(float64(100*(cx*cx+cy*cy)+1))) + t)
	s := (v1 + v2 + v3) / 3
	return gfx.RGBf(
		0.25+0.25*sin32(math.Pi*s),
		0.1+0.1*cos32(math.Pi*s),
		0.3+0.3*sin32(math.Pi*s+2*math.Pi/3),
	)
}

func rings(u, v float32, un Uniforms) gfx.Color {
	aspect := float32(1)
	if un.Height > 0 {
		aspect = float32(un.Width) / float32(un.Height)
	}
	dx := (u - 0.5) * aspect
	dy := v - 0.5
	d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	s := 0.5 + 0.5*sin32(40*d-4*un.Time)
	return gfx.RGBf(0.2*s, 0.05*s, 0.3*s)
}

func gradient(u, v float32, un Uniforms) gfx.Color {
	return gfx.RGBf(0.2*u, 0.02, 0.3*v+0.1*(0.5+0.5*sin32(un.Time)))
}
