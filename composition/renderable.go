package composition

import (
	"lumen/clock"
	"lumen/gfx"
)

// Renderable is one configured pass. Exactly one of the variant pointers
// matching Kind is set.
type Renderable struct {
	Kind   Kind
	Name   string
	Output *gfx.Frame
	// Clear is resolved at build time: true for the first pass writing
	// Output, or when the pass asked for it.
	Clear bool

	Particles *Particles
	Toy       *Toy
	Text      *Text
	Image     *Layer
	Sampler   *Sampler
}

func (r *Renderable) update(c *Composition, s clock.Snapshot) error {
	switch r.Kind {
	case KindParticles:
		if err := r.Particles.update(c.receiver, s); err != nil {
			return err
		}
		for _, in := range r.Particles.Inputs {
			c.observer.LaneUpdated(in.Lane, in.Released, in.Pool.Len())
		}
	case KindToy:
		r.Toy.update(r.Output, s)
	case KindText:
		r.Text.update(s)
	}
	return nil
}

func (r *Renderable) paint(c *Composition) {
	if r.Clear {
		r.Output.Clear(c.spec.Background)
	}
	switch r.Kind {
	case KindParticles:
		r.Particles.paint(r.Output, c.viewProj)
	case KindToy:
		r.Toy.paint(r.Output)
	case KindText:
		r.Text.paint(r.Output)
	case KindImage:
		r.Image.paint(r.Output)
	case KindSampler:
		r.Sampler.paint(r.Output)
	}
}

func (r *Renderable) loadOp() string {
	if r.Clear {
		return "clear"
	}
	return "accumulate"
}
