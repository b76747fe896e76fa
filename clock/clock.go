// Package clock paces the render loop.
//
// A single Clock is owned by the tick driver. Everything else reads the
// Snapshot taken once per tick.
package clock

import "time"

// Snapshot is the clock state for one tick.
type Snapshot struct {
	// LastPeriod is the time in seconds since the previous tick.
	LastPeriod float32
	// TotalElapsed is the playing time in seconds.
	TotalElapsed float32
	FrameCount   uint32
	Playing      bool
}

// Clock is advanced once per tick by its owner.
type Clock interface {
	Update()
	Current() Snapshot
	Play()
	Pause()
	Toggle()
	Reset()
	Playing() bool
}

// RenderClock follows wall time, or the audio position when one is wired.
type RenderClock struct {
	// Position reports the audio playback position. When it returns true
	// the elapsed time follows it instead of accumulating wall time.
	Position func() (time.Duration, bool)

	now        func() time.Time
	last       time.Time
	lastPeriod time.Duration
	elapsed    time.Duration
	frames     uint32
	playing    bool
}

// NewRenderClock returns a paused clock. A nil now uses time.Now.
func NewRenderClock(now func() time.Time) *RenderClock {
	if now == nil {
		now = time.Now
	}
	return &RenderClock{now: now, last: now()}
}

func (c *RenderClock) Update() {
	t := c.now()
	dt := t.Sub(c.last)
	if dt < 0 {
		dt = 0
	}
	if c.playing {
		c.elapsed += dt
		if c.Position != nil {
			if pos, ok := c.Position(); ok {
				c.elapsed = pos
			}
		}
	}
	c.lastPeriod = dt
	c.last = t
	c.frames++
}

func (c *RenderClock) Current() Snapshot {
	return Snapshot{
		LastPeriod:   float32(c.lastPeriod.Seconds()),
		TotalElapsed: float32(c.elapsed.Seconds()),
		FrameCount:   c.frames,
		Playing:      c.playing,
	}
}

func (c *RenderClock) Play() {
	c.last = c.now()
	c.playing = true
}

func (c *RenderClock) Pause() { c.playing = false }

func (c *RenderClock) Toggle() {
	if c.playing {
		c.Pause()
		return
	}
	c.Play()
}

// Reset rewinds elapsed time to zero and keeps the play state.
func (c *RenderClock) Reset() {
	c.elapsed = 0
	c.lastPeriod = 0
	c.last = c.now()
}

func (c *RenderClock) Playing() bool { return c.playing }

// DefaultPrintRate is the PrintClock step: 50 frames per second.
const DefaultPrintRate = 20 * time.Millisecond

// PrintClock advances a fixed step per tick, independent of wall time.
type PrintClock struct {
	rate    time.Duration
	elapsed time.Duration
	frames  uint32
	playing bool
}

// NewPrintClock returns a paused clock stepping rate per tick. A
// non-positive rate uses DefaultPrintRate.
func NewPrintClock(rate time.Duration) *PrintClock {
	if rate <= 0 {
		rate = DefaultPrintRate
	}
	return &PrintClock{rate: rate}
}

func (c *PrintClock) Update() {
	c.elapsed += c.rate
	c.frames++
}

func (c *PrintClock) Current() Snapshot {
	return Snapshot{
		LastPeriod:   float32(c.rate.Seconds()),
		TotalElapsed: float32(c.elapsed.Seconds()),
		FrameCount:   c.frames,
		Playing:      c.playing,
	}
}

func (c *PrintClock) Play()  { c.playing = true }
func (c *PrintClock) Pause() { c.playing = false }

func (c *PrintClock) Toggle() { c.playing = !c.playing }

func (c *PrintClock) Reset() {
	c.elapsed = 0
	c.frames = 0
}

func (c *PrintClock) Playing() bool { return c.playing }

// Rate is the fixed step.
func (c *PrintClock) Rate() time.Duration { return c.rate }
