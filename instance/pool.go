package instance

import (
	"math/rand"

	"lumen/op"
)

// Pool holds the live instances of one lane.
//
// Pools only shrink through Step; there is no size cap.
type Pool struct {
	Instancer Instancer
	Canvas    Canvas
	Scale     Scale

	rng   *rand.Rand
	items []Instance
}

func NewPool(in Instancer, c Canvas, s Scale, rng *rand.Rand) *Pool {
	return &Pool{Instancer: in, Canvas: c, Scale: s, rng: rng}
}

// Spawn appends one instance per op.
func (p *Pool) Spawn(batch []op.Op) {
	for _, o := range batch {
		p.items = append(p.items, p.Instancer.Spawn(o, p.Canvas, p.Scale, p.rng))
	}
}

// Step ages every instance by dt and evicts those with life <= 0.
// It returns the number evicted.
func (p *Pool) Step(dt float32) int {
	kept := p.items[:0]
	for i := range p.items {
		p.Instancer.Age(&p.items[i], dt)
		if p.items[i].Life > 0 {
			kept = append(kept, p.items[i])
		}
	}
	evicted := len(p.items) - len(kept)
	clear(p.items[len(kept):])
	p.items = kept
	return evicted
}

func (p *Pool) Len() int { return len(p.items) }

// Instances returns the live instances. The slice is only valid until the
// next Spawn or Step.
func (p *Pool) Instances() []Instance { return p.items }

// Clear drops every instance.
func (p *Pool) Clear() {
	clear(p.items)
	p.items = p.items[:0]
}

// AppendRaw appends the raw form of every live instance to dst.
func (p *Pool) AppendRaw(dst []Raw) []Raw {
	for i := range p.items {
		dst = append(dst, p.items[i].Raw())
	}
	return dst
}
