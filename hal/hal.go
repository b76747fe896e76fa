package hal

import (
	"errors"
	"time"
)

// ErrQuit is returned by a step function to end the run cleanly.
var ErrQuit = errors.New("quit")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGBA8888 is 32bpp, byte order r, g, b, a.
	PixelFormatRGBA8888 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeySpace
	KeyReset
	KeyEscape
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the framebuffer.
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// Time is the wall clock the renderer reads. Headless runs advance it by
// exactly one period per tick.
type Time interface {
	Now() time.Time
}

// Audio is the soundtrack player. Position reports false when nothing is
// loaded.
type Audio interface {
	Play()
	Pause()
	Rewind() error
	Position() (time.Duration, bool)
}

// HAL provides the only contact point between the renderer and the outside
// world.
type HAL interface {
	Display() Display
	Input() Input
	Time() Time
	Audio() Audio
}
