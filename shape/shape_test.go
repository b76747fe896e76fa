package shape

import (
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/gfx"
)

func TestGenerateBounds(t *testing.T) {
	spec := DefaultSpec()
	spec.Vertices = 50
	spec.Indices = 90

	s, err := spec.Generate(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, s.Vertices, 50)
	require.Len(t, s.Indices, 90)

	in := func(v, lo, hi float32) bool { return v >= lo && v <= hi }
	for _, v := range s.Vertices {
		assert.True(t, in(v.Pos.X, -1, 1) && in(v.Pos.Y, -1, 1) && in(v.Pos.Z, -1, 1))
		assert.True(t, in(v.Velocity, -0.4, 0.4))
		assert.Contains(t, spec.Palette, v.Color)
	}
	for _, i := range s.Indices {
		assert.Less(t, int(i), 50)
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	a, err := DefaultSpec().Generate(rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	b, err := DefaultSpec().Generate(rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateShade(t *testing.T) {
	spec := Spec{Vertices: 3, Indices: 3, Palette: []gfx.Color{gfx.RGB(200, 100, 50)}, Shade: 0.5}
	s, err := spec.Generate(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	for _, v := range s.Vertices {
		assert.Equal(t, gfx.RGB(100, 50, 25), v.Color)
	}
}

func TestValidate(t *testing.T) {
	ok := DefaultSpec()
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Indices = 4
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Vertices = 0
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Palette = nil
	assert.ErrorIs(t, bad.Validate(), ErrEmptyPalette)
}

func TestDefaultPalettesParse(t *testing.T) {
	for i, p := range DefaultPalettes {
		_, err := ParsePalette(p)
		require.NoError(t, err, "palette %d", i)
	}
	_, err := ParsePalette(nil)
	assert.ErrorIs(t, err, ErrEmptyPalette)
}

func TestEncodeVertices(t *testing.T) {
	v := gfx.Vertex{Pos: gfx.V3(1, 2, 3), Color: gfx.RGB(255, 0, 0), Direction: gfx.V3(4, 5, 6), Velocity: 0.25}
	buf := EncodeVertices(nil, []gfx.Vertex{v})
	require.Len(t, buf, VertexSize)

	f := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])) }
	assert.Equal(t, []float32{1, 2, 3, 1, 0, 0, 4, 5, 6, 0.25},
		[]float32{f(0), f(1), f(2), f(3), f(4), f(5), f(6), f(7), f(8), f(9)})
}
