package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/hal"
	"lumen/op"
)

type fakeFB struct {
	w, h      int
	buf       []byte
	presented int
	panicOnce bool
}

func (f *fakeFB) Width() int { return f.w }

func (f *fakeFB) Height() int { return f.h }

func (f *fakeFB) Format() hal.PixelFormat { return hal.PixelFormatRGBA8888 }

func (f *fakeFB) StrideBytes() int { return f.w * 4 }

func (f *fakeFB) Buffer() []byte { return f.buf }

func (f *fakeFB) ClearRGB(r, g, b uint8) {
	for i := 0; i+3 < len(f.buf); i += 4 {
		f.buf[i], f.buf[i+1], f.buf[i+2], f.buf[i+3] = r, g, b, 0xFF
	}
}

func (f *fakeFB) Present() error {
	f.presented++
	if f.panicOnce {
		f.panicOnce = false
		panic("present failed")
	}
	return nil
}

type fakeAudio struct {
	plays, pauses, rewinds int
}

func (a *fakeAudio) Play() { a.plays++ }

func (a *fakeAudio) Pause() { a.pauses++ }

func (a *fakeAudio) Rewind() error {
	a.rewinds++
	return nil
}

func (a *fakeAudio) Position() (time.Duration, bool) { return 0, false }

type fakeHAL struct {
	fb    *fakeFB
	keys  chan hal.KeyEvent
	now   time.Time
	audio *fakeAudio
}

func newFakeHAL(w, h int) *fakeHAL {
	return &fakeHAL{
		fb:    &fakeFB{w: w, h: h, buf: make([]byte, w*h*4)},
		keys:  make(chan hal.KeyEvent, 8),
		now:   time.Unix(100, 0),
		audio: &fakeAudio{},
	}
}

func (f *fakeHAL) Display() hal.Display { return f }

func (f *fakeHAL) Framebuffer() hal.Framebuffer { return f.fb }

func (f *fakeHAL) Input() hal.Input { return f }

func (f *fakeHAL) Keyboard() hal.Keyboard { return f }

func (f *fakeHAL) Events() <-chan hal.KeyEvent { return f.keys }

func (f *fakeHAL) Time() hal.Time { return f }

func (f *fakeHAL) Now() time.Time { return f.now }

func (f *fakeHAL) Audio() hal.Audio { return f.audio }

func (f *fakeHAL) press(code hal.KeyCode) {
	f.keys <- hal.KeyEvent{Code: code, Press: true}
	f.keys <- hal.KeyEvent{Code: code, Press: false}
}

func newTestLive(t *testing.T) (*live, *fakeHAL) {
	t.Helper()
	cfg := testConfig(t)
	s, err := newSession(cfg, Options{}.withDefaults(), false)
	require.NoError(t, err)
	h := newFakeHAL(cfg.Window.Width, cfg.Window.Height)
	return newLive(context.Background(), s, h), h
}

func TestLiveStepPresents(t *testing.T) {
	l, h := newTestLive(t)
	require.NoError(t, l.step())
	assert.Equal(t, 1, h.fb.presented)
	assert.Equal(t, l.s.comp.Presented().Pix, h.fb.buf)
}

func TestLiveStartsPaused(t *testing.T) {
	l, h := newTestLive(t)
	h.now = h.now.Add(time.Second)
	require.NoError(t, l.step())
	assert.False(t, l.clock.Playing())
	assert.Equal(t, 4, totalPending(l.s))
}

func TestLiveSpaceToggles(t *testing.T) {
	l, h := newTestLive(t)

	h.press(hal.KeySpace)
	require.NoError(t, l.step())
	assert.True(t, l.clock.Playing())
	assert.Equal(t, 1, h.audio.plays)

	h.now = h.now.Add(time.Second)
	require.NoError(t, l.step())
	assert.InDelta(t, 1.0, l.clock.Current().TotalElapsed, 1e-6)
	// Ops before t=1s are released.
	assert.Equal(t, 1, totalPending(l.s))

	h.press(hal.KeySpace)
	require.NoError(t, l.step())
	assert.False(t, l.clock.Playing())
	assert.Equal(t, 1, h.audio.pauses)
}

func TestLiveEscapeQuits(t *testing.T) {
	l, h := newTestLive(t)
	h.press(hal.KeyEscape)
	assert.ErrorIs(t, l.step(), hal.ErrQuit)
}

func TestLiveCancelledContextQuits(t *testing.T) {
	l, _ := newTestLive(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l.ctx = ctx
	assert.ErrorIs(t, l.step(), hal.ErrQuit)
}

func TestLiveRestartReplays(t *testing.T) {
	l, h := newTestLive(t)
	l.play()
	h.now = h.now.Add(3 * time.Second)
	require.NoError(t, l.step())
	require.Equal(t, 0, totalPending(l.s))
	require.NotEmpty(t, l.s.comp.Live())

	h.press(hal.KeyReset)
	require.NoError(t, l.step())
	assert.Equal(t, 4, totalPending(l.s))
	assert.Equal(t, float32(0), l.clock.Current().TotalElapsed)
	assert.Equal(t, 1, h.audio.rewinds)
	assert.True(t, l.clock.Playing())
	for lane, n := range l.s.comp.Live() {
		assert.Zero(t, n, lane)
	}
}

func TestLiveResetEventRewinds(t *testing.T) {
	l, h := newTestLive(t)
	l.play()
	h.now = h.now.Add(time.Second)
	require.NoError(t, l.step())

	l.s.events <- op.Event{Kind: op.EventReset}
	require.NoError(t, l.step())
	assert.Equal(t, 1, h.audio.rewinds)
	assert.Equal(t, float32(0), l.clock.Current().TotalElapsed)
	assert.Equal(t, 0, totalPending(l.s))
}

func TestLivePanicStops(t *testing.T) {
	l, h := newTestLive(t)
	h.fb.panicOnce = true
	err := l.step()
	assert.ErrorIs(t, err, ErrPanic)
	// The panic screen was presented.
	assert.Equal(t, 2, h.fb.presented)
}

func TestLivePanicHoldsUntilEscape(t *testing.T) {
	l, h := newTestLive(t)
	l.hold = true
	h.fb.panicOnce = true

	require.NoError(t, l.step())
	require.NoError(t, l.step())
	assert.Equal(t, 2, h.fb.presented)

	h.press(hal.KeyEscape)
	assert.ErrorIs(t, l.step(), ErrPanic)
}
