package composition

import (
	"image/color"
	"strconv"
	"strings"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"lumen/clock"
	"lumen/gfx"
)

// Text overlays one line of text. The template may contain {time} and
// {frame}, expanded from the clock every tick.
type Text struct {
	Template string
	X, Y     int16
	Color    color.RGBA

	font tinyfont.Fonter
	line string
}

func newText(template string, x, y int, c gfx.Color) *Text {
	return &Text{
		Template: template,
		X:        int16(x),
		Y:        int16(y),
		Color:    color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A},
		font:     &tinyfont.TomThumb,
	}
}

func (t *Text) update(s clock.Snapshot) {
	if !strings.Contains(t.Template, "{") {
		t.line = t.Template
		return
	}
	r := strings.NewReplacer(
		"{time}", strconv.FormatFloat(float64(s.TotalElapsed), 'f', 2, 32),
		"{frame}", strconv.FormatUint(uint64(s.FrameCount), 10),
	)
	t.line = r.Replace(t.Template)
}

func (t *Text) paint(out *gfx.Frame) {
	tinyfont.WriteLine(frameDisplay{f: out}, t.font, t.X, t.Y, t.line, t.Color)
}

var _ drivers.Displayer = frameDisplay{}

// frameDisplay lets tinyfont draw into a frame.
type frameDisplay struct {
	f *gfx.Frame
}

func (d frameDisplay) Size() (x, y int16) {
	return int16(d.f.W), int16(d.f.H)
}

func (d frameDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.f.Blend(int(x), int(y), gfx.Color{R: c.R, G: c.G, B: c.B, A: c.A}, 1)
}

func (d frameDisplay) Display() error { return nil }
