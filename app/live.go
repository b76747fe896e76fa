package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lumen/clock"
	"lumen/config"
	"lumen/hal"
	"lumen/internal/metrics"
	"lumen/op"
)

// Live renders the composition to a window, or headless when configured,
// until the window closes, escape is pressed or ctx is done.
func Live(ctx context.Context, cfg *config.Config, opts Options) error {
	opts = opts.withDefaults()
	var recorder *metrics.Recorder
	if opts.Observer == nil && cfg.Metrics.Addr != "" {
		recorder = metrics.NewRecorder()
		opts.Observer = recorder
	}

	s, err := newSession(cfg, opts, cfg.Ops.Stream)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if err := s.runProducers(gctx, g); err != nil {
		return err
	}
	if recorder != nil {
		serveMetrics(gctx, g, recorder.NewServer(cfg.Metrics.Addr), opts.Log)
	}

	hcfg := hal.Config{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Hz:        cfg.Window.FPS,
		Ticks:     cfg.Window.Ticks,
		AudioPath: cfg.Audio.Path,
		Volume:    cfg.Audio.Volume,
		Log:       opts.Log,
	}
	headless := cfg.Window.Headless
	newApp := func(h hal.HAL) func() error {
		l := newLive(gctx, s, h)
		l.hold = !headless
		if headless || cfg.Render.Autoplay {
			l.play()
		}
		return l.step
	}

	g.Go(func() error {
		defer cancel()
		if headless {
			return ignoreCanceled(hal.RunHeadless(gctx, newApp, hcfg))
		}
		return hal.RunWindow(newApp, hcfg)
	})
	return g.Wait()
}

func serveMetrics(ctx context.Context, g *errgroup.Group, srv *http.Server, log *zap.Logger) {
	g.Go(func() error {
		log.Info("metrics listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// live drives one session from the host tick.
type live struct {
	ctx   context.Context
	s     *session
	h     hal.HAL
	clock *clock.RenderClock
	audio hal.Audio
	keys  <-chan hal.KeyEvent

	// hold keeps the panic screen up until escape instead of stopping.
	hold   bool
	halted error
}

func newLive(ctx context.Context, s *session, h hal.HAL) *live {
	clk := clock.NewRenderClock(h.Time().Now)
	aud := h.Audio()
	clk.Position = aud.Position
	l := &live{ctx: ctx, s: s, h: h, clock: clk, audio: aud}
	if in := h.Input(); in != nil {
		if kbd := in.Keyboard(); kbd != nil {
			l.keys = kbd.Events()
		}
	}
	return l
}

func (l *live) step() (err error) {
	if l.ctx.Err() != nil {
		return hal.ErrQuit
	}
	if l.halted != nil {
		if l.escaped() {
			return l.halted
		}
		return nil
	}
	defer l.recoverTick(&err)

	if quit := l.handleKeys(); quit {
		return hal.ErrQuit
	}
	reset, err := l.s.tick(l.ctx, l.clock)
	if reset {
		l.rewindAudio()
	}
	if err != nil {
		return err
	}
	return l.present()
}

func (l *live) handleKeys() (quit bool) {
	for {
		select {
		case ev := <-l.keys:
			if !ev.Press {
				continue
			}
			switch ev.Code {
			case hal.KeySpace:
				if l.clock.Playing() {
					l.pause()
				} else {
					l.play()
				}
			case hal.KeyReset:
				l.restart()
			case hal.KeyEscape:
				return true
			}
		default:
			return false
		}
	}
}

func (l *live) escaped() bool {
	for {
		select {
		case ev := <-l.keys:
			if ev.Press && ev.Code == hal.KeyEscape {
				return true
			}
		default:
			return false
		}
	}
}

func (l *live) play() {
	l.clock.Play()
	l.audio.Play()
}

func (l *live) pause() {
	l.clock.Pause()
	l.audio.Pause()
}

// restart rewinds playback and replays the ops document. A streamed
// document is not replayed; its pending ops are dropped.
func (l *live) restart() {
	s := l.s
	switch {
	case s.cfg.Ops.Stream:
		s.receiver.Reset()
	case s.cfg.Ops.Watch:
		doc, err := op.Load(s.cfg.Ops.Path)
		if err != nil {
			s.log.Warn("reload ops", zap.Error(err))
			break
		}
		s.doc = doc
		s.receiver.Load(doc)
	default:
		s.receiver.Load(s.doc)
	}
	s.comp.Reset()
	l.clock.Reset()
	l.rewindAudio()
	s.log.Info("restart")
}

func (l *live) rewindAudio() {
	if err := l.audio.Rewind(); err != nil {
		l.s.log.Warn("rewind audio", zap.Error(err))
	}
}

func (l *live) present() error {
	fb := l.h.Display().Framebuffer()
	copy(fb.Buffer(), l.s.comp.Presented().Pix)
	return fb.Present()
}
