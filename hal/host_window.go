//go:build !tinygo && cgo

package hal

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"lumen/internal/buildinfo"
)

// RunWindow starts a desktop window that displays the framebuffer and
// forwards keyboard input. It blocks until the window closes or the step
// function returns ErrQuit.
func RunWindow(newApp func(HAL) func() error, cfg Config) error {
	if err := cfg.normalize(); err != nil {
		return err
	}
	var aud Audio = nullAudio{}
	if cfg.AudioPath != "" {
		a, err := newHostAudio(cfg.AudioPath, cfg.Volume)
		if err != nil {
			return fmt.Errorf("audio: %w", err)
		}
		defer a.Close()
		aud = a
		cfg.Log.Info("audio loaded", zap.String("path", cfg.AudioPath))
	}
	h := newHost(cfg, wallTime{}, aud)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	title := cfg.Title
	if title == "" {
		title = "lumen"
	}
	ebiten.SetWindowTitle(title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Hz)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.fbImg == nil {
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}
	fb.snapshotOpaque(g.scratch)
	g.fbImg.WritePixels(g.scratch)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
