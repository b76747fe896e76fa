//go:build !tinygo

package hal

import "sync"

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte

	presented uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 4
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int { return f.width }

func (f *hostFramebuffer) Height() int { return f.height }

func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGBA8888 }

func (f *hostFramebuffer) StrideBytes() int { return f.stride }

func (f *hostFramebuffer) Buffer() []byte { return f.buf }

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	f.presented++
	f.mu.Unlock()
	return nil
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i+3 < len(f.buf); i += 4 {
		f.buf[i] = r
		f.buf[i+1] = g
		f.buf[i+2] = b
		f.buf[i+3] = 0xFF
	}
}

// snapshotOpaque copies the buffer into dst with alpha forced to opaque.
func (f *hostFramebuffer) snapshotOpaque(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
	for i := 3; i < len(dst); i += 4 {
		dst[i] = 0xFF
	}
}

func (f *hostFramebuffer) presentedFrames() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presented
}
