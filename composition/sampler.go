package composition

import (
	"fmt"

	"lumen/gfx"
)

// SamplerBlend is how a sampler composites its inputs.
type SamplerBlend uint8

const (
	BlendOver SamplerBlend = iota
	BlendAdd
)

func (b SamplerBlend) String() string {
	if b == BlendAdd {
		return "add"
	}
	return "over"
}

func parseSamplerBlend(s string) (SamplerBlend, error) {
	switch s {
	case "", "over":
		return BlendOver, nil
	case "add":
		return BlendAdd, nil
	}
	return BlendOver, fmt.Errorf("blend %q: %w", s, ErrBadPass)
}

// Sampler composites frames written by earlier passes into its output.
type Sampler struct {
	Inputs  []*gfx.Frame
	Blend   SamplerBlend
	Opacity float32
}

func (s *Sampler) paint(out *gfx.Frame) {
	for _, in := range s.Inputs {
		for y := 0; y < out.H; y++ {
			for x := 0; x < out.W; x++ {
				c := in.At(x, y)
				if s.Blend == BlendAdd {
					out.Add(x, y, c, s.Opacity)
				} else {
					out.Blend(x, y, c, s.Opacity)
				}
			}
		}
	}
}

func (s *Sampler) inputNames() []string {
	out := make([]string, len(s.Inputs))
	for i, f := range s.Inputs {
		out[i] = f.Name
	}
	return out
}
