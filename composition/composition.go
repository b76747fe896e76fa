package composition

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"lumen/clock"
	"lumen/gfx"
	"lumen/instance"
	"lumen/op"
	"lumen/shape"
)

// Composition is the built render graph. It is driven from one goroutine.
type Composition struct {
	spec     Spec
	frames   *Frames
	passes   []Renderable
	canvas   instance.Canvas
	camera   gfx.Camera
	orbit    *gfx.OrbitController
	viewProj gfx.Mat4
	main     *gfx.Frame

	receiver *op.Receiver
	observer Observer
	tracer   trace.Tracer
	log      *zap.Logger
}

// Build validates spec and creates every frame and pass.
func Build(spec Spec, deps Deps) (*Composition, error) {
	if len(spec.Passes) == 0 {
		return nil, ErrNoPasses
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("composition %dx%d: %w", spec.Width, spec.Height, gfx.ErrFrameSize)
	}
	if spec.Main == "" {
		spec.Main = DefaultMain
	}
	if spec.Decay == 0 {
		spec.Decay = instance.DefaultDecay
	}
	if spec.Scale == (instance.Scale{}) {
		spec.Scale = instance.DefaultScale()
	}
	if spec.Camera == (gfx.Camera{}) {
		spec.Camera = gfx.DefaultCamera()
	}

	c := &Composition{
		spec:     spec,
		frames:   NewFrames(spec.Width, spec.Height),
		canvas:   instance.NewCanvas(spec.Width, spec.Height),
		camera:   spec.Camera,
		orbit:    gfx.NewOrbit(spec.Camera, spec.OrbitSpeed),
		receiver: deps.Receiver,
		observer: deps.Observer,
		tracer:   deps.Tracer,
		log:      deps.Log,
	}
	if c.receiver == nil {
		c.receiver = op.NewReceiver(nil, nil)
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("lumen/composition")
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	load := deps.LoadImage
	if load == nil {
		load = loadImageFile
	}

	outputs := make(map[string]bool)
	for i := range spec.Passes {
		outputs[outputName(spec.Passes[i], spec.Main)] = true
	}

	written := make(map[string]bool)
	c.passes = make([]Renderable, 0, len(spec.Passes))
	for i, ps := range spec.Passes {
		r, err := c.buildPass(i, ps, written, outputs, rng, load)
		if err != nil {
			return nil, fmt.Errorf("pass %d (%s): %w", i, passName(i, ps), err)
		}
		written[r.Output.Name] = true
		c.passes = append(c.passes, r)
		c.log.Debug("pass built",
			zap.Int("index", i),
			zap.String("name", r.Name),
			zap.String("kind", string(r.Kind)),
			zap.String("output", r.Output.Name),
			zap.String("load", r.loadOp()),
		)
	}

	if written[spec.Main] {
		c.main, _ = c.frames.Get(spec.Main)
	} else {
		c.main = c.passes[len(c.passes)-1].Output
	}
	c.log.Debug("composition built",
		zap.Int("passes", len(c.passes)),
		zap.Strings("frames", c.frames.Names()),
		zap.String("present", c.main.Name),
	)
	return c, nil
}

func outputName(ps PassSpec, main string) string {
	if ps.Output == "" {
		return main
	}
	return ps.Output
}

func passName(i int, ps PassSpec) string {
	if ps.Name != "" {
		return ps.Name
	}
	return fmt.Sprintf("%s-%d", ps.Kind, i)
}

func (c *Composition) buildPass(i int, ps PassSpec, written, outputs map[string]bool, rng *rand.Rand, load func(string) (image.Image, error)) (Renderable, error) {
	out, err := c.frames.Ensure(outputName(ps, c.spec.Main))
	if err != nil {
		return Renderable{}, err
	}
	r := Renderable{
		Kind:   ps.Kind,
		Name:   passName(i, ps),
		Output: out,
		Clear:  ps.Clear || !written[out.Name],
	}
	opacity := ps.Opacity
	if opacity == 0 {
		opacity = 1
	}

	switch ps.Kind {
	case KindParticles:
		r.Particles, err = c.buildParticles(ps, rng)
	case KindToy:
		var fn ToyFunc
		fn, err = lookupToy(ps.Toy)
		r.Toy = &Toy{Program: ps.Toy, fn: fn}
	case KindText:
		col := gfx.RGB(0xff, 0xff, 0xff)
		if ps.Color != "" {
			col, err = gfx.ParseHex(ps.Color)
		}
		r.Text = newText(ps.Text, ps.X, ps.Y, col)
	case KindImage:
		if ps.Path == "" {
			return Renderable{}, fmt.Errorf("image without path: %w", ErrBadPass)
		}
		r.Image, err = newLayer(ps.Path, opacity, out.W, out.H, load)
	case KindSampler:
		r.Sampler, err = c.buildSampler(ps, opacity, written, outputs)
	default:
		return Renderable{}, fmt.Errorf("kind %q: %w", ps.Kind, ErrBadPass)
	}
	if err != nil {
		return Renderable{}, err
	}
	return r, nil
}

func (c *Composition) buildParticles(ps PassSpec, rng *rand.Rand) (*Particles, error) {
	mode, ok := gfx.ParseRenderMode(ps.Mode)
	if !ok {
		return nil, fmt.Errorf("mode %q: %w", ps.Mode, ErrBadPass)
	}
	drift, err := instance.ParseDrift(ps.Drift)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPass, err)
	}
	sh := shape.DefaultSpec()
	if len(ps.Palette) > 0 {
		if sh.Palette, err = shape.ParsePalette(ps.Palette); err != nil {
			return nil, err
		}
	}
	if ps.Vertices > 0 {
		sh.Vertices = ps.Vertices
	}
	if ps.Indices > 0 {
		sh.Indices = ps.Indices
	}

	lanes := ps.Lanes
	if len(lanes) == 0 {
		lanes = c.receiver.Lanes()
	}
	in := instance.Instancer{Decay: c.spec.Decay, Drift: drift, Scatter: instance.DefaultScatter}
	p := &Particles{raster: gfx.Rasterizer{Mode: mode}}
	for _, lane := range lanes {
		if !c.receiver.Has(lane) {
			return nil, fmt.Errorf("lane %q: %w", lane, op.ErrUnknownLane)
		}
		c.receiver.Register(lane)
		geom, err := sh.Generate(rng)
		if err != nil {
			return nil, err
		}
		laneRng := rand.New(rand.NewSource(rng.Int63()))
		p.Inputs = append(p.Inputs, &RenderPassInput{
			Lane:  lane,
			Shape: geom,
			Pool:  instance.NewPool(in, c.canvas, c.spec.Scale, laneRng),
		})
	}
	return p, nil
}

func (c *Composition) buildSampler(ps PassSpec, opacity float32, written, outputs map[string]bool) (*Sampler, error) {
	if len(ps.Inputs) == 0 {
		return nil, fmt.Errorf("sampler without inputs: %w", ErrBadPass)
	}
	blend, err := parseSamplerBlend(ps.Blend)
	if err != nil {
		return nil, err
	}
	s := &Sampler{Blend: blend, Opacity: opacity}
	for _, name := range ps.Inputs {
		if !written[name] {
			if outputs[name] {
				return nil, fmt.Errorf("%q: %w", name, ErrForwardReference)
			}
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownFrame)
		}
		f, err := c.frames.Get(name)
		if err != nil {
			return nil, err
		}
		s.Inputs = append(s.Inputs, f)
	}
	return s, nil
}

// Render runs one tick: camera update, pass updates, then pass paints in
// order. The first failure aborts the tick.
func (c *Composition) Render(ctx context.Context, s clock.Snapshot) (err error) {
	ctx, span := c.tracer.Start(ctx, "composition.Render", trace.WithAttributes(
		attribute.Int64("frame", int64(s.FrameCount)),
		attribute.Bool("playing", s.Playing),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	defer c.receiver.EndTick()

	start := time.Now()
	c.updateCamera(s)

	for i := range c.passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := &c.passes[i]
		if err := r.update(c, s); err != nil {
			return fmt.Errorf("update %s: %w", r.Name, err)
		}
	}
	for i := range c.passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := &c.passes[i]
		t0 := time.Now()
		r.paint(c)
		c.observer.PassPainted(r.Name, r.Kind, time.Since(t0))
	}
	c.observer.FrameRendered(time.Since(start))
	return nil
}

func (c *Composition) updateCamera(s clock.Snapshot) {
	if s.Playing && c.orbit.Speed != 0 {
		c.orbit.Advance(s.LastPeriod)
		c.orbit.Apply(&c.camera)
	}
	c.viewProj = c.camera.ViewProj(c.spec.Width, c.spec.Height)
}

// Presented is the frame handed to the display: the main frame, or the
// last pass output when nothing writes main.
func (c *Composition) Presented() *gfx.Frame { return c.main }

func (c *Composition) Frames() *Frames { return c.frames }

func (c *Composition) Canvas() instance.Canvas { return c.canvas }

// Live returns the live particle count per lane across all passes.
func (c *Composition) Live() map[string]int {
	out := make(map[string]int)
	for i := range c.passes {
		if c.passes[i].Kind != KindParticles {
			continue
		}
		for _, in := range c.passes[i].Particles.Inputs {
			out[in.Lane] += in.Pool.Len()
		}
	}
	return out
}

// Reset drops every live particle and rewinds the orbit.
func (c *Composition) Reset() {
	for i := range c.passes {
		if c.passes[i].Kind != KindParticles {
			continue
		}
		for _, in := range c.passes[i].Particles.Inputs {
			in.Pool.Clear()
			in.Raws = in.Raws[:0]
		}
	}
	c.camera = c.spec.Camera
	c.orbit = gfx.NewOrbit(c.spec.Camera, c.spec.OrbitSpeed)
}

// Plan describes the pass order and the clear or accumulate decision of
// every pass.
func (c *Composition) Plan() string {
	var b strings.Builder
	fmt.Fprintf(&b, "size %dx%d\n", c.spec.Width, c.spec.Height)
	fmt.Fprintf(&b, "frames %s\n", strings.Join(c.frames.Names(), " "))
	for i := range c.passes {
		r := &c.passes[i]
		fmt.Fprintf(&b, "pass %d %s %q", i, r.Kind, r.Name)
		switch r.Kind {
		case KindParticles:
			fmt.Fprintf(&b, " lanes=[%s] mode=%s", strings.Join(r.Particles.lanes(), " "), r.Particles.raster.Mode)
		case KindToy:
			fmt.Fprintf(&b, " program=%s", r.Toy.Program)
		case KindText:
			fmt.Fprintf(&b, " text=%q", r.Text.Template)
		case KindImage:
			fmt.Fprintf(&b, " path=%s", r.Image.Path)
		case KindSampler:
			fmt.Fprintf(&b, " inputs=[%s] blend=%s", strings.Join(r.Sampler.inputNames(), " "), r.Sampler.Blend)
		}
		fmt.Fprintf(&b, " -> %s %s\n", r.Output.Name, r.loadOp())
	}
	fmt.Fprintf(&b, "present %s\n", c.main.Name)
	return b.String()
}
