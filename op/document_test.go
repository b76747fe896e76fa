package op

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const sampleJSON = `{
  "length": 2.5,
  "ops": [
    {"t": 0.0, "voice": 0, "event": 3, "event_type": "On", "x": 0.5, "y": 0.25, "z": 1, "l": 0.75, "names": []},
    {"t": 0.5, "voice": 1, "event": 4, "event_type": "Off", "x": 0.1, "y": 0.2, "z": 0.3, "l": 1, "names": ["lead"]}
  ]
}`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, 2.5, doc.Length)
	require.Len(t, doc.Ops, 2)
	assert.Equal(t, On, doc.Ops[0].EventType)
	assert.Equal(t, Off, doc.Ops[1].EventType)
	assert.Equal(t, []string{"lead"}, doc.Ops[1].Names)
	assert.Equal(t, int32(4), doc.Ops[1].Event)
}

func TestDecodeRejectsSeparatorInName(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"length":1,"ops":[{"t":0,"names":["a/b"]}]}`))
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestDecodeRejectsUnknownEventType(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"length":1,"ops":[{"t":0,"event_type":"Maybe"}]}`))
	require.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	doc := Random(rand.New(rand.NewSource(1)), 5, []string{"a", Nameless})

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	assert.Contains(t, buf.String(), `"event_type": "On"`)

	back, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, back.Ops, len(doc.Ops))
	assert.Equal(t, doc.Length, back.Length)
	assert.Equal(t, LaneKey(doc.Ops[0].Names), LaneKey(back.Ops[0].Names))
}

func TestCheckOrder(t *testing.T) {
	ok := &Document{Ops: []Op{{T: 1, Names: []string{"a"}}, {T: 0.5}, {T: 2, Names: []string{"a"}}}}
	assert.NoError(t, ok.CheckOrder())

	bad := &Document{Ops: []Op{{T: 1}, {T: 0.5}}}
	assert.ErrorIs(t, bad.CheckOrder(), ErrUnsorted)
}

func TestFeedWindows(t *testing.T) {
	doc := &Document{Length: 3, Ops: []Op{
		{T: 0.1}, {T: 0.4, Names: []string{"a"}}, {T: 1.2}, {T: 2.7},
	}}
	ch := make(chan Event, 8)
	require.NoError(t, Feed(context.Background(), doc, ch, 1))
	close(ch)

	var got [][]float64
	for ev := range ch {
		assert.Equal(t, EventOps, ev.Kind)
		assert.Equal(t, 3.0, ev.Length)
		got = append(got, times(ev.Ops))
	}
	assert.Equal(t, [][]float64{{0.1, 0.4}, {1.2}, {2.7}}, got)
}

func TestFeedAdvancesPastImpreciseTimes(t *testing.T) {
	doc := &Document{Length: 3e17, Ops: []Op{{T: 1e17}, {T: 2e17}}}
	ch := make(chan Event, 8)
	require.NoError(t, Feed(context.Background(), doc, ch, 1))
	close(ch)

	var got [][]float64
	for ev := range ch {
		got = append(got, times(ev.Ops))
	}
	assert.Equal(t, [][]float64{{1e17}, {2e17}}, got)
}

func TestFeedStopsOnCancel(t *testing.T) {
	doc := Random(rand.New(rand.NewSource(2)), 50, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Feed(ctx, doc, make(chan Event), 0.5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFeedIntoReceiver(t *testing.T) {
	doc := Random(rand.New(rand.NewSource(5)), 30, []string{"a", "b"})
	ch := make(chan Event, 64)
	require.NoError(t, Feed(context.Background(), doc, ch, 0.75))

	r := NewReceiver(nil, ch, "a", "b")
	r.Receive()

	total := 0
	for _, lane := range []string{"a", "b"} {
		batch, err := r.GetBatch(float32(doc.Length)+1, lane)
		require.NoError(t, err)
		for i := 1; i < len(batch); i++ {
			require.LessOrEqual(t, batch[i-1].T, batch[i].T)
		}
		total += len(batch)
	}
	assert.Equal(t, len(doc.Ops), total)
	assert.Equal(t, float32(doc.Length), r.Length())
}

func TestRandomIsReproducible(t *testing.T) {
	a := Random(rand.New(rand.NewSource(9)), 10, []string{"x"})
	b := Random(rand.New(rand.NewSource(9)), 10, []string{"x"})
	assert.Equal(t, a, b)
	for _, o := range a.Ops {
		assert.GreaterOrEqual(t, o.L, 0.2)
		assert.Less(t, o.L, 2.0)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ops.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	ch := make(chan Event, 4)
	w, err := NewWatcher(path, ch, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	select {
	case ev := <-ch:
		assert.Equal(t, EventReset, ev.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("no reset after write")
	}
	select {
	case ev := <-ch:
		assert.Equal(t, EventOps, ev.Kind)
		assert.Len(t, ev.Ops, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("no ops after reset")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
