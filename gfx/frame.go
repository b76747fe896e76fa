package gfx

import (
	"errors"
	"fmt"
	"image"
)

var ErrFrameSize = errors.New("gfx: invalid frame size")

// Frame is a named off-screen RGBA render target.
//
// Pixels are stored non-premultiplied, 4 bytes per pixel, row-major, so Pix
// can back an image.RGBA directly once alpha is opaque.
type Frame struct {
	Name string
	W, H int
	Pix  []uint8
}

func NewFrame(name string, w, h int) (*Frame, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("frame %q %dx%d: %w", name, w, h, ErrFrameSize)
	}
	return &Frame{Name: name, W: w, H: h, Pix: make([]uint8, w*h*4)}, nil
}

func (f *Frame) Size() (w, h int) { return f.W, f.H }

func (f *Frame) Clear(c Color) {
	if f == nil || len(f.Pix) == 0 {
		return
	}
	f.Pix[0], f.Pix[1], f.Pix[2], f.Pix[3] = c.R, c.G, c.B, c.A
	for filled := 4; filled < len(f.Pix); filled *= 2 {
		copy(f.Pix[filled:], f.Pix[:filled])
	}
}

func (f *Frame) offset(x, y int) int {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return -1
	}
	return (y*f.W + x) * 4
}

func (f *Frame) SetPixel(x, y int, c Color) {
	off := f.offset(x, y)
	if off < 0 {
		return
	}
	p := f.Pix[off : off+4 : off+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Blend composites c over the pixel (source-over) with coverage a scaled by
// c's own alpha.
func (f *Frame) Blend(x, y int, c Color, a float32) {
	off := f.offset(x, y)
	if off < 0 {
		return
	}
	sa := Clamp01(a) * float32(c.A) / 255
	if sa <= 0 {
		return
	}
	p := f.Pix[off : off+4 : off+4]
	inv := 1 - sa
	p[0] = uint8(float32(c.R)*sa + float32(p[0])*inv + 0.5)
	p[1] = uint8(float32(c.G)*sa + float32(p[1])*inv + 0.5)
	p[2] = uint8(float32(c.B)*sa + float32(p[2])*inv + 0.5)
	p[3] = uint8(255*sa + float32(p[3])*inv + 0.5)
}

// Add adds c scaled by a to the pixel, saturating each channel.
func (f *Frame) Add(x, y int, c Color, a float32) {
	off := f.offset(x, y)
	if off < 0 {
		return
	}
	s := Clamp01(a)
	p := f.Pix[off : off+4 : off+4]
	p[0] = addSat(p[0], float32(c.R)*s)
	p[1] = addSat(p[1], float32(c.G)*s)
	p[2] = addSat(p[2], float32(c.B)*s)
	p[3] = addSat(p[3], float32(c.A)*s)
}

func addSat(dst uint8, v float32) uint8 {
	sum := float32(dst) + v + 0.5
	if sum >= 255 {
		return 255
	}
	return uint8(sum)
}

// At returns the pixel at x,y, or the zero color outside the frame.
func (f *Frame) At(x, y int) Color {
	off := f.offset(x, y)
	if off < 0 {
		return Color{}
	}
	return Color{R: f.Pix[off], G: f.Pix[off+1], B: f.Pix[off+2], A: f.Pix[off+3]}
}

// Sample returns the pixel nearest to normalised coordinates u,v in [0,1].
func (f *Frame) Sample(u, v float32) Color {
	x := int(Clamp01(u)*float32(f.W-1) + 0.5)
	y := int(Clamp01(v)*float32(f.H-1) + 0.5)
	return f.At(x, y)
}

// Image exposes the frame as an image.RGBA sharing its pixels.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{Pix: f.Pix, Stride: f.W * 4, Rect: image.Rect(0, 0, f.W, f.H)}
}

// CopyFrom copies src into f when both have the same size.
func (f *Frame) CopyFrom(src *Frame) error {
	if src.W != f.W || src.H != f.H {
		return fmt.Errorf("copy %q %dx%d into %q %dx%d: %w", src.Name, src.W, src.H, f.Name, f.W, f.H, ErrFrameSize)
	}
	copy(f.Pix, src.Pix)
	return nil
}
