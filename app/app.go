// Package app wires the configuration, the op receiver, the composition and
// the host surface into the live and print runners.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lumen/clock"
	"lumen/composition"
	"lumen/config"
	"lumen/op"
)

// Options carries the collaborators the runners do not build themselves.
type Options struct {
	Log *zap.Logger
	// Observer receives render measurements. When nil and a metrics
	// address is configured, Live serves a Prometheus recorder.
	Observer  composition.Observer
	Tracer    trace.Tracer
	LoadImage func(path string) (image.Image, error)
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer("lumen/app")
	}
	return o
}

// session is one receiver and composition built from a config.
type session struct {
	cfg      *config.Config
	log      *zap.Logger
	doc      *op.Document
	events   chan op.Event
	receiver *op.Receiver
	comp     *composition.Composition
}

// newSession loads the ops document and builds the composition. When
// stream is set the document is not handed to the receiver; producers feed
// it over the event channel instead, and its lanes are registered up front
// so particle passes can bind to them.
func newSession(cfg *config.Config, opts Options, stream bool) (*session, error) {
	s := &session{
		cfg:    cfg,
		log:    opts.Log,
		events: make(chan op.Event, cfg.Ops.Buffer),
	}
	if cfg.Ops.Path != "" {
		doc, err := op.Load(cfg.Ops.Path)
		if err != nil {
			return nil, err
		}
		s.doc = doc
	}

	initial := s.doc
	lanes := append([]string(nil), cfg.Ops.Lanes...)
	if stream {
		initial = nil
		if s.doc != nil {
			lanes = append(lanes, op.Keys(op.Partition(s.doc.Ops, float32(s.doc.Length)))...)
		}
	}
	if cfg.Ops.Ungrouped {
		s.receiver = op.NewUngroupedReceiver(initial, s.events)
	} else {
		s.receiver = op.NewReceiver(initial, s.events, lanes...)
	}

	comp, err := composition.Build(cfg.Composition(), composition.Deps{
		Receiver:  s.receiver,
		Rand:      rand.New(rand.NewSource(cfg.Render.Seed)),
		Log:       opts.Log,
		Observer:  opts.Observer,
		Tracer:    opts.Tracer,
		LoadImage: opts.LoadImage,
	})
	if err != nil {
		return nil, fmt.Errorf("build composition: %w", err)
	}
	s.comp = comp

	ops := 0
	if s.doc != nil {
		ops = len(s.doc.Ops)
	}
	s.log.Info("session ready",
		zap.Strings("lanes", s.receiver.Lanes()),
		zap.Int("ops", ops),
		zap.Int("passes", len(cfg.Passes)),
		zap.Bool("stream", stream))
	return s, nil
}

// runProducers starts the feed and watcher goroutines the config asks for.
func (s *session) runProducers(ctx context.Context, g *errgroup.Group) error {
	if s.cfg.Ops.Stream && s.doc != nil {
		g.Go(func() error {
			return ignoreCanceled(op.Feed(ctx, s.doc, s.events, s.cfg.Ops.StreamWindow))
		})
	}
	if s.cfg.Ops.Watch {
		w, err := op.NewWatcher(s.cfg.Ops.Path, s.events, s.log)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return ignoreCanceled(w.Run(ctx))
		})
	}
	return nil
}

// tick runs one frame: drain producer events, advance the clock, render.
// It reports whether a producer reset the ops.
func (s *session) tick(ctx context.Context, clk clock.Clock) (reset bool, err error) {
	if s.receiver.Receive() {
		clk.Reset()
		reset = true
		s.log.Info("ops reset", zap.Strings("lanes", s.receiver.Lanes()))
	}
	clk.Update()
	return reset, s.comp.Render(ctx, clk.Current())
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Plan builds the composition without running it and describes its passes.
func Plan(cfg *config.Config, opts Options) (string, error) {
	s, err := newSession(cfg, opts.withDefaults(), false)
	if err != nil {
		return "", err
	}
	return s.comp.Plan(), nil
}
