package op

import (
	"context"
	"math"
	"sort"
)

// Feed pushes doc onto ch as consecutive batches, each covering window
// seconds of op time. It blocks while ch is full and returns when the
// document is exhausted or ctx is done. A non-positive window sends the
// whole document as one batch.
func Feed(ctx context.Context, doc *Document, ch chan<- Event, window float64) error {
	ops := make([]Op, len(doc.Ops))
	copy(ops, doc.Ops)
	// Stable keeps each lane's own order for equal timestamps.
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].T < ops[j].T })

	send := func(batch []Op) error {
		select {
		case ch <- Event{Kind: EventOps, Ops: batch, Length: doc.Length}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if window <= 0 {
		return send(ops)
	}
	for i := 0; i < len(ops); {
		limit := (math.Floor(ops[i].T/window) + 1) * window
		j := i
		for j < len(ops) && ops[j].T < limit {
			j++
		}
		if j == i {
			// limit did not clear ops[i].T (huge or NaN time); send it alone.
			j++
		}
		if err := send(ops[i:j:j]); err != nil {
			return err
		}
		i = j
	}
	return nil
}
