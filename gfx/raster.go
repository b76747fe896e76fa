package gfx

import "math"

// Vertex is one vertex of a particle shape.
//
// Position is in shape space ([-1,1]^3); Direction and Velocity stretch the
// vertex as the particle ages.
type Vertex struct {
	Pos       Vec3
	Color     Color
	Direction Vec3
	Velocity  float32
}

// InstanceRaw is the per-instance data a particle draw consumes.
type InstanceRaw struct {
	Model  Mat4
	Life   float32
	Size   float32
	Length float32
}

// Rasterizer draws instanced particle geometry.
//
// Create it once and reuse it to avoid allocations.
type Rasterizer struct {
	Mode RenderMode

	scratch []screenVertex
}

type screenVertex struct {
	x, y int
	ok   bool
}

// DrawInstances draws every instance of one shape.
//
// Each instance transforms the shape by its Model matrix after scaling by
// Size and stretching along each vertex's direction by Length as life runs
// out. Alpha is the instance life clamped to [0,1]. There is no depth test:
// later triangles paint over earlier ones.
func (r *Rasterizer) DrawInstances(t BlendTarget, viewProj Mat4, vertices []Vertex, indices []uint16, raws []InstanceRaw) {
	if r == nil || t == nil || len(vertices) == 0 || len(indices) < 3 {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	if cap(r.scratch) < len(vertices) {
		r.scratch = make([]screenVertex, len(vertices))
	}
	sv := r.scratch[:len(vertices)]

	for _, inst := range raws {
		alpha := Clamp01(inst.Life)
		if alpha <= 0 {
			continue
		}
		stretch := inst.Length * (1 - alpha)
		mvp := Mat4Mul(viewProj, inst.Model)

		for i, v := range vertices {
			local := v.Pos.Mul(inst.Size).Add(v.Direction.Mul(v.Velocity * stretch))
			p := Mat4MulV4(mvp, Vec4{X: local.X, Y: local.Y, Z: local.Z, W: 1})
			// Trivial clip: drop anything behind the eye or non-finite.
			if !(p.W > 0) {
				sv[i] = screenVertex{}
				continue
			}
			ndc := clipToNDC(p)
			if !finite(ndc.X) || !finite(ndc.Y) {
				sv[i] = screenVertex{}
				continue
			}
			x, y := ndcToScreen(ndc, w, h)
			sv[i] = screenVertex{x: x, y: y, ok: true}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			i0, i1, i2 := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if i0 >= len(sv) || i1 >= len(sv) || i2 >= len(sv) {
				continue
			}
			a, b, c := sv[i0], sv[i1], sv[i2]
			if !a.ok || !b.ok || !c.ok {
				continue
			}
			switch r.Mode {
			case RenderWireframe:
				col := vertices[i0].Color
				drawLine(t, a.x, a.y, b.x, b.y, col, alpha)
				drawLine(t, b.x, b.y, c.x, c.y, col, alpha)
				drawLine(t, c.x, c.y, a.x, a.y, col, alpha)
			default:
				fillTriangle(t, w, h, a.x, a.y, vertices[i0].Color, b.x, b.y, vertices[i1].Color, c.x, c.y, vertices[i2].Color, alpha)
			}
		}
	}
}

type ndcPoint struct {
	X, Y, Z float32
}

func clipToNDC(p Vec4) ndcPoint {
	invW := 1 / p.W
	return ndcPoint{X: p.X * invW, Y: p.Y * invW, Z: p.Z * invW}
}

// ndcLimit keeps far off-screen vertices in int range.
const ndcLimit = 64

func ndcToScreen(p ndcPoint, w, h int) (x, y int) {
	nx := clampF32(p.X, -ndcLimit, ndcLimit)
	ny := clampF32(p.Y, -ndcLimit, ndcLimit)
	sx := (nx*0.5 + 0.5) * float32(w-1)
	sy := (1 - (ny*0.5 + 0.5)) * float32(h-1)
	return int(sx + 0.5), int(sy + 0.5)
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

func drawLine(t BlendTarget, x0, y0, x1, y1 int, c Color, a float32) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		t.Blend(x0, y0, c, a)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func fillTriangle(t BlendTarget, w, h int, x0, y0 int, c0 Color, x1, y1 int, c1 Color, x2, y2 int, c2 Color, alpha float32) {
	minX, maxX := min3(x0, x1, x2), max3(x0, x1, x2)
	minY, maxY := min3(y0, y1, y2), max3(y0, y1, y2)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	// Accept both windings; particles have no back faces.
	if area < 0 {
		x1, y1, x2, y2 = x2, y2, x1, y1
		c1, c2 = c2, c1
		area = -area
	}
	invArea := 1.0 / float32(area)

	r0, g0, b0 := float32(c0.R), float32(c0.G), float32(c0.B)
	r1, g1, b1 := float32(c1.R), float32(c1.G), float32(c1.B)
	r2, g2, b2 := float32(c2.R), float32(c2.G), float32(c2.B)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y)
			w1 := edgeFn(x2, y2, x0, y0, x, y)
			w2 := edgeFn(x0, y0, x1, y1, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			a0 := float32(w0) * invArea
			a1 := float32(w1) * invArea
			a2 := float32(w2) * invArea
			rr := uint8(clampF32(a0*r0+a1*r1+a2*r2, 0, 255))
			gg := uint8(clampF32(a0*g0+a1*g1+a2*g2, 0, 255))
			bb := uint8(clampF32(a0*b0+a1*b1+a2*b2, 0, 255))
			t.Blend(x, y, Color{R: rr, G: gg, B: bb, A: 0xFF}, alpha)
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
