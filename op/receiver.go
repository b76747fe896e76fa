package op

import (
	"fmt"
	"slices"
	"sort"
)

// EventKind tags a message on the producer channel.
type EventKind uint8

const (
	EventOps EventKind = iota + 1
	EventReset
)

// Event is one message from an asynchronous producer. Ops must be sorted by
// time within each lane; the receiver does not re-sort.
type Event struct {
	Kind   EventKind
	Ops    []Op
	Length float64
}

// Receiver owns one Stream per lane and releases due ops frame by frame.
//
// A Receiver belongs to the render thread. The only cross-thread boundary is
// the event channel, which Receive drains without blocking.
type Receiver struct {
	streams map[string]*Stream
	lanes   []string
	length  float32
	key     func([]string) string

	ch    <-chan Event
	cache map[string][]Op
}

// NewReceiver partitions doc by lane. Lanes listed explicitly are
// registered even when doc holds no op for them, so they can be filled
// later over ch. doc and ch may both be nil.
func NewReceiver(doc *Document, ch <-chan Event, lanes ...string) *Receiver {
	return newReceiver(doc, ch, LaneKey, lanes)
}

// NewUngroupedReceiver keeps every op in a single stream under the All key,
// whatever its names.
func NewUngroupedReceiver(doc *Document, ch <-chan Event) *Receiver {
	return newReceiver(doc, ch, func([]string) string { return All }, []string{All})
}

func newReceiver(doc *Document, ch <-chan Event, key func([]string) string, lanes []string) *Receiver {
	r := &Receiver{
		streams: make(map[string]*Stream),
		lanes:   append([]string(nil), lanes...),
		key:     key,
		ch:      ch,
		cache:   make(map[string][]Op),
	}
	if doc != nil {
		r.length = float32(doc.Length)
		r.streams = partitionBy(doc.Ops, r.length, key)
	}
	r.register()
	return r
}

func (r *Receiver) register() {
	for _, lane := range r.lanes {
		if _, ok := r.streams[lane]; !ok {
			r.streams[lane] = &Stream{Names: ParseLane(lane), Length: r.length}
		}
	}
}

// GetBatch removes and returns, in order, the pending ops of lane with
// T < t. A lane that was never registered is a configuration error.
func (r *Receiver) GetBatch(t float32, lane string) ([]Op, error) {
	s, ok := r.streams[lane]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLane, lane)
	}
	return s.Take(t), nil
}

// Batch is GetBatch memoised until EndTick, so several passes drawing the
// same lane in one frame spawn from the same ops.
func (r *Receiver) Batch(t float32, lane string) ([]Op, error) {
	if cached, ok := r.cache[lane]; ok {
		return cached, nil
	}
	ops, err := r.GetBatch(t, lane)
	if err != nil {
		return nil, err
	}
	r.cache[lane] = ops
	return ops, nil
}

// EndTick forgets the batches memoised by Batch.
func (r *Receiver) EndTick() {
	clear(r.cache)
}

// Receive drains the events queued on the channel when it is called. It
// never blocks. It reports whether a reset was among them.
func (r *Receiver) Receive() (reset bool) {
	if r.ch == nil {
		return false
	}
	for n := len(r.ch); n > 0; n-- {
		ev, ok := <-r.ch
		if !ok {
			r.ch = nil
			return reset
		}
		switch ev.Kind {
		case EventReset:
			r.Reset()
			reset = true
		case EventOps:
			r.merge(ev)
		}
	}
	return reset
}

func (r *Receiver) merge(ev Event) {
	if ev.Length > 0 {
		r.length = float32(ev.Length)
	}
	for lane, batch := range partitionBy(ev.Ops, r.length, r.key) {
		s, ok := r.streams[lane]
		if !ok {
			r.streams[lane] = batch
			continue
		}
		s.Length = r.length
		s.Merge(batch.ops)
	}
}

// Register pins lanes so they survive Reset. Lanes may be unknown so far.
func (r *Receiver) Register(lanes ...string) {
	for _, lane := range lanes {
		if !slices.Contains(r.lanes, lane) {
			r.lanes = append(r.lanes, lane)
		}
	}
	r.register()
}

// Reset drops all pending ops. Explicitly registered lanes stay known.
func (r *Receiver) Reset() {
	r.streams = make(map[string]*Stream)
	r.register()
	clear(r.cache)
}

// Load replaces every pending op with doc, as a Reset followed by an Ops
// event would.
func (r *Receiver) Load(doc *Document) {
	r.Reset()
	if doc != nil {
		r.merge(Event{Kind: EventOps, Ops: doc.Ops, Length: doc.Length})
	}
}

// Lanes returns every known lane key in sorted order.
func (r *Receiver) Lanes() []string { return Keys(r.streams) }

// Has reports whether lane is known.
func (r *Receiver) Has(lane string) bool {
	_, ok := r.streams[lane]
	return ok
}

// Pending returns the number of ops not yet released in lane.
func (r *Receiver) Pending(lane string) int {
	if s, ok := r.streams[lane]; ok {
		return s.Len()
	}
	return 0
}

// Length is the declared total length of the current document.
func (r *Receiver) Length() float32 { return r.length }

// Registered returns the explicitly registered lanes, sorted.
func (r *Receiver) Registered() []string {
	out := append([]string(nil), r.lanes...)
	sort.Strings(out)
	return out
}
