package app

import (
	"errors"
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"lumen/hal"
)

var ErrPanic = errors.New("render panic")

// recoverTick turns a panic during a tick into an error, logs the stack
// and paints it on the framebuffer. A windowed run then holds the screen
// until escape.
func (l *live) recoverTick(err *error) {
	v := recover()
	if v == nil {
		return
	}
	stack := debug.Stack()
	l.s.log.Error("tick panic", zap.Any("panic", v), zap.ByteString("stack", stack))

	perr := fmt.Errorf("%w: %v", ErrPanic, v)
	if d := l.h.Display(); d != nil {
		if fb := d.Framebuffer(); fb != nil {
			paintPanic(fb, v, stack)
		}
	}
	if l.hold {
		l.halted = perr
		*err = nil
		return
	}
	*err = perr
}

const panicLineHeight = 7

func paintPanic(fb hal.Framebuffer, v any, stack []byte) {
	fb.ClearRGB(0x40, 0, 0)
	d := fbDisplay{fb: fb}
	lines := []string{"lumen panic:", fmt.Sprint(v), ""}
	for _, line := range strings.Split(string(stack), "\n") {
		if line != "" {
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	}
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	y := int16(panicLineHeight)
	for _, line := range lines {
		if int(y) >= fb.Height() {
			break
		}
		tinyfont.WriteLine(d, &tinyfont.TomThumb, 2, y, line, white)
		y += panicLineHeight
	}
	_ = fb.Present()
}

var _ drivers.Displayer = fbDisplay{}

// fbDisplay lets tinyfont draw straight into an RGBA framebuffer.
type fbDisplay struct {
	fb hal.Framebuffer
}

func (d fbDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || int(x) >= d.fb.Width() || int(y) >= d.fb.Height() {
		return
	}
	buf := d.fb.Buffer()
	off := int(y)*d.fb.StrideBytes() + int(x)*4
	if off+3 >= len(buf) {
		return
	}
	buf[off], buf[off+1], buf[off+2], buf[off+3] = c.R, c.G, c.B, 0xFF
}

func (d fbDisplay) Display() error { return nil }
