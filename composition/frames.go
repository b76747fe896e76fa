package composition

import (
	"fmt"

	"lumen/gfx"
)

// Frames is the registry of named off-screen frames. Every frame has the
// composition size.
type Frames struct {
	w, h   int
	byName map[string]*gfx.Frame
	order  []string
}

func NewFrames(w, h int) *Frames {
	return &Frames{w: w, h: h, byName: make(map[string]*gfx.Frame)}
}

// Ensure returns the frame called name, creating it on first use.
func (f *Frames) Ensure(name string) (*gfx.Frame, error) {
	if fr, ok := f.byName[name]; ok {
		return fr, nil
	}
	fr, err := gfx.NewFrame(name, f.w, f.h)
	if err != nil {
		return nil, err
	}
	f.byName[name] = fr
	f.order = append(f.order, name)
	return fr, nil
}

func (f *Frames) Get(name string) (*gfx.Frame, error) {
	fr, ok := f.byName[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownFrame)
	}
	return fr, nil
}

// Names lists frames in creation order.
func (f *Frames) Names() []string {
	return append([]string(nil), f.order...)
}

func (f *Frames) Size() (w, h int) { return f.w, f.h }
