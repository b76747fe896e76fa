//go:build !tinygo && cgo

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const audioSampleRate = 44100

// hostAudio plays one WAV soundtrack through Ebiten's audio package.
type hostAudio struct {
	mu     sync.Mutex
	f      *os.File
	player *audio.Player
}

func newHostAudio(path string, volume float64) (*hostAudio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(audioSampleRate)
	}
	stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	p, err := ctx.NewPlayer(stream)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.SetVolume(volume)
	return &hostAudio{f: f, player: p}, nil
}

func (a *hostAudio) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.Play()
}

func (a *hostAudio) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.Pause()
}

func (a *hostAudio) Rewind() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.player.Rewind()
}

func (a *hostAudio) Position() (time.Duration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.player.Position(), true
}

func (a *hostAudio) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.player.Close(); err != nil {
		a.f.Close()
		return err
	}
	return a.f.Close()
}
