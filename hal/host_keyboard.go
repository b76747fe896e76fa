//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

var hostKeys = []struct {
	key  ebiten.Key
	code KeyCode
}{
	{ebiten.KeySpace, KeySpace},
	{ebiten.KeyR, KeyReset},
	{ebiten.KeyEscape, KeyEscape},
}

func (k *hostKeyboard) poll() {
	emit := func(code KeyCode, press bool) {
		select {
		case k.ch <- KeyEvent{Code: code, Press: press}:
		default:
		}
	}
	for _, hk := range hostKeys {
		if inpututil.IsKeyJustPressed(hk.key) {
			emit(hk.code, true)
		}
		if inpututil.IsKeyJustReleased(hk.key) {
			emit(hk.code, false)
		}
	}
}
