package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestRenderClockAccumulatesOnlyWhilePlaying(t *testing.T) {
	ft := &fakeTime{t: time.Unix(100, 0)}
	c := NewRenderClock(ft.now)

	ft.advance(time.Second)
	c.Update()
	s := c.Current()
	assert.Equal(t, float32(1), s.LastPeriod)
	assert.Equal(t, float32(0), s.TotalElapsed)
	assert.Equal(t, uint32(1), s.FrameCount)
	assert.False(t, s.Playing)

	ft.advance(5 * time.Second)
	c.Play()
	ft.advance(250 * time.Millisecond)
	c.Update()
	s = c.Current()
	assert.Equal(t, float32(0.25), s.LastPeriod)
	assert.Equal(t, float32(0.25), s.TotalElapsed)
	assert.True(t, s.Playing)

	c.Toggle()
	ft.advance(time.Second)
	c.Update()
	assert.Equal(t, float32(0.25), c.Current().TotalElapsed)
	assert.Equal(t, uint32(3), c.Current().FrameCount)
}

func TestRenderClockFollowsAudioPosition(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewRenderClock(ft.now)
	pos := 3 * time.Second
	c.Position = func() (time.Duration, bool) { return pos, true }

	c.Play()
	ft.advance(10 * time.Millisecond)
	c.Update()
	assert.Equal(t, float32(3), c.Current().TotalElapsed)
	assert.InDelta(t, 0.01, c.Current().LastPeriod, 1e-6)
}

func TestRenderClockReset(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewRenderClock(ft.now)
	c.Play()
	ft.advance(time.Second)
	c.Update()

	c.Reset()
	assert.Equal(t, float32(0), c.Current().TotalElapsed)
	assert.True(t, c.Playing())

	ft.advance(time.Second / 2)
	c.Update()
	assert.Equal(t, float32(0.5), c.Current().TotalElapsed)
}

func TestPrintClockSteps(t *testing.T) {
	c := NewPrintClock(0)
	assert.Equal(t, DefaultPrintRate, c.Rate())
	c.Play()
	for i := 0; i < 50; i++ {
		c.Update()
	}
	s := c.Current()
	assert.InDelta(t, 1.0, s.TotalElapsed, 1e-6)
	assert.InDelta(t, 0.02, s.LastPeriod, 1e-6)
	assert.Equal(t, uint32(50), s.FrameCount)
	assert.True(t, s.Playing)

	c.Reset()
	assert.Zero(t, c.Current().FrameCount)
}

func TestClocksImplementClock(t *testing.T) {
	var _ Clock = NewRenderClock(nil)
	var _ Clock = NewPrintClock(time.Millisecond)
}
