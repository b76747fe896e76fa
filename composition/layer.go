package composition

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	"lumen/gfx"
)

// Layer paints a static image scaled to the frame.
type Layer struct {
	Path    string
	Opacity float32
	img     *image.RGBA
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func newLayer(path string, opacity float32, w, h int, load func(string) (image.Image, error)) (*Layer, error) {
	src, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return &Layer{Path: path, Opacity: opacity, img: dst}, nil
}

func (l *Layer) paint(out *gfx.Frame) {
	pix := l.img.Pix
	for y := 0; y < out.H; y++ {
		row := y * l.img.Stride
		for x := 0; x < out.W; x++ {
			p := pix[row+x*4 : row+x*4+4 : row+x*4+4]
			a := p[3]
			if a == 0 {
				continue
			}
			// image.RGBA is premultiplied.
			c := gfx.Color{
				R: uint8(uint32(p[0]) * 255 / uint32(a)),
				G: uint8(uint32(p[1]) * 255 / uint32(a)),
				B: uint8(uint32(p[2]) * 255 / uint32(a)),
				A: a,
			}
			out.Blend(x, y, c, l.Opacity)
		}
	}
}
