package app

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/sync/errgroup"

	"lumen/config"
	"lumen/op"
)

func testDoc() *op.Document {
	return &op.Document{
		Length: 2,
		Ops: []op.Op{
			{T: 0.05, X: 0.5, Y: 0.5, L: 0.2},
			{T: 0.1, X: 0.2, Y: 0.8, L: 0.1, Names: []string{"kick"}},
			{T: 0.5, X: 0.7, Y: 0.3, L: 0.3},
			{T: 1.5, X: 0.1, Y: 0.1, L: 0.4, Names: []string{"kick"}},
		},
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ops.json")
	var buf bytes.Buffer
	require.NoError(t, testDoc().Encode(&buf))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 16, 12
	cfg.Ops.Path = path
	cfg.Print.Out = t.TempDir()
	cfg.Print.Frames = 3
	cfg.Print.Workers = 2
	require.NoError(t, cfg.Validate())
	return &cfg
}

func totalPending(s *session) int {
	n := 0
	for _, lane := range s.receiver.Lanes() {
		n += s.receiver.Pending(lane)
	}
	return n
}

func TestNewSessionLoadsLanes(t *testing.T) {
	cfg := testConfig(t)
	s, err := newSession(cfg, Options{}.withDefaults(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"kick", op.Nameless}, s.receiver.Lanes())
	assert.Equal(t, 4, totalPending(s))
}

func TestNewSessionMissingOps(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ops.Path = filepath.Join(t.TempDir(), "missing.json")
	_, err := newSession(cfg, Options{}.withDefaults(), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewSessionUnknownLane(t *testing.T) {
	cfg := testConfig(t)
	cfg.Passes[1].Lanes = []string{"snare"}
	_, err := newSession(cfg, Options{}.withDefaults(), false)
	assert.ErrorIs(t, err, op.ErrUnknownLane)
}

func TestStreamSessionFeedsOverChannel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ops.Stream = true
	cfg.Ops.StreamWindow = 1
	s, err := newSession(cfg, Options{}.withDefaults(), true)
	require.NoError(t, err)

	// Lanes are known before any op arrives.
	assert.Equal(t, []string{"kick", op.Nameless}, s.receiver.Lanes())
	assert.Equal(t, 0, totalPending(s))

	var g errgroup.Group
	require.NoError(t, s.runProducers(context.Background(), &g))
	require.NoError(t, g.Wait())

	assert.False(t, s.receiver.Receive())
	assert.Equal(t, 4, totalPending(s))
}

func TestPrintWritesFrames(t *testing.T) {
	cfg := testConfig(t)
	dir, err := Print(context.Background(), cfg, Options{})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"0000000.png", "0000001.png", "0000002.png"}, names)

	f, err := os.Open(filepath.Join(dir, "0000002.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 12, img.Bounds().Dy())
}

func TestPrintIsDeterministic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Print.Frames = 10

	a, err := Print(context.Background(), cfg, Options{})
	require.NoError(t, err)
	b, err := Print(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	for _, name := range []string{"0000000.png", "0000009.png"} {
		fa, err := os.ReadFile(filepath.Join(a, name))
		require.NoError(t, err)
		fb, err := os.ReadFile(filepath.Join(b, name))
		require.NoError(t, err)
		assert.Equal(t, fa, fb, name)
	}
}

func TestPrintTracesFrames(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	cfg := testConfig(t)

	_, err := Print(context.Background(), cfg, Options{Tracer: tp.Tracer("test")})
	require.NoError(t, err)

	count := make(map[string]int)
	for _, s := range spans.Ended() {
		count[s.Name()]++
		assert.Equal(t, codes.Unset, s.Status().Code, s.Name())
	}
	assert.Equal(t, cfg.Print.Frames, count["print.write_frame"])
	assert.Equal(t, cfg.Print.Frames, count["composition.Render"])
}

func TestWriteFrameRecordsFailure(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	path := filepath.Join(t.TempDir(), "missing", "0000000.png")
	err := writeFrame(context.Background(), tp.Tracer("test"), path, image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Len(t, ended[0].Events(), 1)
}

func TestPrintCancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Print(ctx, cfg, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLiveHeadless(t *testing.T) {
	cfg := testConfig(t)
	cfg.Window.Headless = true
	cfg.Window.FPS = 1000
	cfg.Window.Ticks = 5
	cfg.Ops.Stream = true

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, Live(ctx, cfg, Options{}))
}

func TestLiveHeadlessBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Window.Headless = true
	cfg.Passes[0].Toy = "nope"
	err := Live(context.Background(), cfg, Options{})
	assert.Error(t, err)
}
