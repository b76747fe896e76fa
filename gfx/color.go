package gfx

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// RGBf builds an opaque color from channels in [0,1].
func RGBf(r, g, b float32) Color {
	return Color{R: unit8(r), G: unit8(g), B: unit8(b), A: 0xFF}
}

func (c Color) MulScalar(s float32) Color {
	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}
	t := uint32(s * 256)
	return Color{
		R: uint8((uint32(c.R) * t) >> 8),
		G: uint8((uint32(c.G) * t) >> 8),
		B: uint8((uint32(c.B) * t) >> 8),
		A: c.A,
	}
}

// Lerp mixes a and b; t=0 is a, t=1 is b.
func Lerp(a, b Color, t float32) Color {
	t = Clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	c := Color{R: b[0], G: b[1], B: b[2], A: 0xFF}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// Hex formats c as "#rrggbb", with an alpha byte when c is not opaque.
func (c Color) Hex() string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func unit8(v float32) uint8 {
	return uint8(Clamp01(v)*255 + 0.5)
}
