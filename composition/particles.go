package composition

import (
	"lumen/clock"
	"lumen/gfx"
	"lumen/instance"
	"lumen/op"
	"lumen/shape"
)

// RenderPassInput is the particle state of one lane within one pass: the
// static shape geometry, the live instance pool and the instance buffer
// rebuilt from it every tick.
type RenderPassInput struct {
	Lane  string
	Shape shape.Shape
	Pool  *instance.Pool
	Raws  []instance.Raw

	// Released is the number of ops spawned this tick.
	Released int
}

// update pulls the due ops, spawns, ages and evicts while playing, then
// rewrites the instance buffer either way.
func (in *RenderPassInput) update(rcv *op.Receiver, s clock.Snapshot) error {
	in.Released = 0
	if s.Playing {
		batch, err := rcv.Batch(s.TotalElapsed, in.Lane)
		if err != nil {
			return err
		}
		in.Pool.Spawn(batch)
		in.Released = len(batch)
		in.Pool.Step(s.LastPeriod)
	}
	in.Raws = in.Pool.AppendRaw(in.Raws[:0])
	return nil
}

// Particles draws the instances of one or more lanes.
type Particles struct {
	Inputs []*RenderPassInput
	raster gfx.Rasterizer
}

func (p *Particles) update(rcv *op.Receiver, s clock.Snapshot) error {
	for _, in := range p.Inputs {
		if err := in.update(rcv, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Particles) paint(out *gfx.Frame, viewProj gfx.Mat4) {
	for _, in := range p.Inputs {
		p.raster.DrawInstances(out, viewProj, in.Shape.Vertices, in.Shape.Indices, in.Raws)
	}
}

func (p *Particles) lanes() []string {
	out := make([]string, len(p.Inputs))
	for i, in := range p.Inputs {
		out[i] = in.Lane
	}
	return out
}
