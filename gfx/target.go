package gfx

// Target is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// BlendTarget is a Target that can composite instead of overwrite.
type BlendTarget interface {
	Target
	// Blend composites c over the pixel with coverage a in [0,1].
	Blend(x, y int, c Color, a float32)
}

// RenderMode selects the rasterization mode.
type RenderMode uint8

const (
	RenderSolid RenderMode = iota
	RenderWireframe
)

func (m RenderMode) String() string {
	if m == RenderWireframe {
		return "wireframe"
	}
	return "solid"
}

// ParseRenderMode accepts "solid", "wireframe" and "" (solid).
func ParseRenderMode(s string) (RenderMode, bool) {
	switch s {
	case "", "solid":
		return RenderSolid, true
	case "wireframe":
		return RenderWireframe, true
	}
	return RenderSolid, false
}
