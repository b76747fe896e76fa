// Package shape generates the static geometry a particle pass instances.
package shape

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"lumen/gfx"
)

// VertexSize is the encoded size of one vertex: position, color and
// direction (3 float32 each) followed by velocity.
const VertexSize = 10 * 4

// DefaultPalettes are the built-in color sets, selectable by index.
var DefaultPalettes = [][]string{
	{"#6655aa", "#222222"},
	{"#eeac88", "#121312", "#333333"},
	{"#213cfb", "#310cfa", "#6688aa", "#111111", "#121212", "#101010"},
	{"#660000", "#100101", "#300002"},
	{"#473859", "#222222"},
	{"#300300", "#333333"},
	{"#001931", "#000000", "#222200"},
	{"#a000a0", "#000000", "#2303aa", "#333333"},
	{"#348348", "#112312"},
	{"#0000ee", "#0e000e"},
	{"#333333", "#111111", "#777777"},
	{"#660000", "#100101", "#300002", "#100001", "#010210"},
	{"#473850", "#222222", "#001001"},
	{"#112112", "#000033"},
	{"#ff00ff", "#000000"},
	{"#38881a", "#333333"},
	{"#aa10e4", "#333333"},
}

var ErrEmptyPalette = errors.New("shape: empty palette")

// Spec describes how to generate a shape.
type Spec struct {
	Vertices int
	Indices  int
	Palette  []gfx.Color
	// Shade scales every color; 0 means 1.
	Shade float32
}

// Shape is generated geometry: a vertex list and a triangle index list.
type Shape struct {
	Vertices []gfx.Vertex
	Indices  []uint16
}

// DefaultSpec returns an 8-vertex, 10-triangle spec on the first palette.
func DefaultSpec() Spec {
	p, _ := ParsePalette(DefaultPalettes[0])
	return Spec{Vertices: 8, Indices: 30, Palette: p}
}

// ParsePalette parses "#rrggbb" colors.
func ParsePalette(hexes []string) ([]gfx.Color, error) {
	if len(hexes) == 0 {
		return nil, ErrEmptyPalette
	}
	out := make([]gfx.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := gfx.ParseHex(h)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s Spec) Validate() error {
	if s.Vertices <= 0 || s.Vertices > math.MaxUint16 {
		return fmt.Errorf("shape: vertex count %d out of range", s.Vertices)
	}
	if s.Indices < 3 || s.Indices%3 != 0 {
		return fmt.Errorf("shape: index count %d is not a positive multiple of 3", s.Indices)
	}
	if len(s.Palette) == 0 {
		return ErrEmptyPalette
	}
	return nil
}

// Generate builds a shape from rng: positions and directions uniform in
// [-1,1]^3, velocity in [-0.4,0.4], colors picked from the palette and
// indices uniform over the vertices.
func (s Spec) Generate(rng *rand.Rand) (Shape, error) {
	if err := s.Validate(); err != nil {
		return Shape{}, err
	}
	shade := s.Shade
	if shade == 0 {
		shade = 1
	}
	r := func() float32 { return rng.Float32()*2 - 1 }

	out := Shape{
		Vertices: make([]gfx.Vertex, s.Vertices),
		Indices:  make([]uint16, s.Indices),
	}
	for i := range out.Vertices {
		pos := gfx.V3(r(), r(), r())
		col := s.Palette[rng.Intn(len(s.Palette))].MulScalar(shade)
		out.Vertices[i] = gfx.Vertex{
			Pos:       pos,
			Color:     col,
			Direction: gfx.V3(r(), r(), r()),
			Velocity:  r() * 0.4,
		}
	}
	for i := range out.Indices {
		out.Indices[i] = uint16(rng.Intn(s.Vertices))
	}
	return out, nil
}

// EncodeVertices appends vertices to dst as little-endian float32s with
// colors in [0,1].
func EncodeVertices(dst []byte, vs []gfx.Vertex) []byte {
	put := func(v float32) {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	for _, v := range vs {
		put(v.Pos.X)
		put(v.Pos.Y)
		put(v.Pos.Z)
		put(float32(v.Color.R) / 255)
		put(float32(v.Color.G) / 255)
		put(float32(v.Color.B) / 255)
		put(v.Direction.X)
		put(v.Direction.Y)
		put(v.Direction.Z)
		put(v.Velocity)
	}
	return dst
}
