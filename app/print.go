package app

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lumen/clock"
	"lumen/config"
	"lumen/gfx"
)

type frameJob struct {
	index int
	img   *image.NRGBA
}

// Print renders cfg.Print.Frames frames on a fixed-step clock and writes
// them as numbered PNGs into a fresh run directory under cfg.Print.Out,
// which it returns. Ops are always loaded up front so the output does not
// depend on producer timing.
func Print(ctx context.Context, cfg *config.Config, opts Options) (string, error) {
	opts = opts.withDefaults()
	s, err := newSession(cfg, opts, false)
	if err != nil {
		return "", err
	}

	run := uuid.NewString()
	dir := filepath.Join(cfg.Print.Out, run)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	log := opts.Log.With(zap.String("run", run))
	log.Info("print started", zap.String("dir", dir), zap.Int("frames", cfg.Print.Frames), zap.Duration("rate", cfg.PrintRate()))

	clk := clock.NewPrintClock(cfg.PrintRate())
	clk.Play()

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan frameJob, cfg.Print.Workers)
	for range cfg.Print.Workers {
		g.Go(func() error {
			for job := range jobs {
				path := filepath.Join(dir, fmt.Sprintf("%07d.png", job.index))
				if err := writeFrame(gctx, opts.Tracer, path, job.img); err != nil {
					return err
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < cfg.Print.Frames; i++ {
			if _, err := s.tick(gctx, clk); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			select {
			case jobs <- frameJob{index: i, img: snapshot(s.comp.Presented())}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return dir, err
	}
	log.Info("print finished", zap.Int("frames", cfg.Print.Frames))
	return dir, nil
}

// snapshot copies a frame into an image the encoder can own. Frames store
// non-premultiplied pixels, which is what NRGBA expects.
func snapshot(f *gfx.Frame) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	copy(img.Pix, f.Pix)
	return img
}

func writeFrame(ctx context.Context, tracer trace.Tracer, path string, img image.Image) (err error) {
	_, span := tracer.Start(ctx, "print.write_frame", trace.WithAttributes(attribute.String("path", path)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
