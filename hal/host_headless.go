//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// RunHeadless runs without opening a window. Ticks are paced by a real
// ticker but the HAL clock advances by exactly one period per tick.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg Config) error {
	if err := cfg.normalize(); err != nil {
		return err
	}
	t := newStepTime(cfg.Hz)
	h := newHost(cfg, t, nullAudio{})
	step := newApp(h)

	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	cfg.Log.Info("headless run", zap.Int("hz", cfg.Hz), zap.Uint64("ticks", cfg.Ticks))
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrQuit) {
						return nil
					}
					return err
				}
			}
			t.step()
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
