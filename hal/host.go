//go:build !tinygo

package hal

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config describes the host surface.
type Config struct {
	Width, Height int
	Title         string
	// Hz is the tick rate; 0 means 60.
	Hz int
	// Ticks stops a headless run after N ticks (0 = run until cancelled).
	Ticks uint64
	// AudioPath is an optional WAV soundtrack. Headless runs ignore it.
	AudioPath string
	Volume    float64
	Log       *zap.Logger
}

func (c *Config) normalize() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", c.Width, c.Height)
	}
	if c.Hz <= 0 {
		c.Hz = 60
	}
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	return nil
}

type hostHAL struct {
	fb  *hostFramebuffer
	kbd *hostKeyboard
	t   Time
	aud Audio
}

func newHost(cfg Config, t Time, aud Audio) *hostHAL {
	return &hostHAL{
		fb:  newHostFramebuffer(cfg.Width, cfg.Height),
		kbd: newHostKeyboard(),
		t:   t,
		aud: aud,
	}
}

func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }

func (h *hostHAL) Input() Input { return hostInput{kbd: h.kbd} }

func (h *hostHAL) Time() Time { return h.t }

func (h *hostHAL) Audio() Audio { return h.aud }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

// nullAudio is used when no soundtrack is configured.
type nullAudio struct{}

func (nullAudio) Play() {}

func (nullAudio) Pause() {}

func (nullAudio) Rewind() error { return nil }

func (nullAudio) Position() (time.Duration, bool) { return 0, false }
