package op

// Stream is one lane of ops in time order.
//
// Consumed ops are never removed from the backing slice; a cursor marks the
// first op not yet handed out, so Take is O(k) in the number released.
type Stream struct {
	Names  []string
	Length float32

	ops  []Op
	next int
}

// NewStream wraps ops, which must already be sorted by T.
func NewStream(names []string, length float32, ops []Op) *Stream {
	return &Stream{Names: names, Length: length, ops: ops}
}

// Take releases every op at the cursor whose time is strictly before t.
//
// The returned slice is capped so appending to it never reaches ops that
// are still pending.
func (s *Stream) Take(t float32) []Op {
	start := s.next
	for s.next < len(s.ops) && float32(s.ops[s.next].T) < t {
		s.next++
	}
	if s.next == start {
		return nil
	}
	return s.ops[start:s.next:s.next]
}

// Remaining returns the ops not yet released.
func (s *Stream) Remaining() []Op { return s.ops[s.next:len(s.ops):len(s.ops)] }

// Len reports how many ops are still pending.
func (s *Stream) Len() int { return len(s.ops) - s.next }

// Released reports how many ops have been handed out since the last reset.
func (s *Stream) Released() int { return s.next }

// Merge folds a time-sorted batch into the pending ops. Ties keep the
// already pending op first. The consumed prefix is dropped.
func (s *Stream) Merge(batch []Op) {
	if len(batch) == 0 {
		return
	}
	pending := s.ops[s.next:]
	merged := make([]Op, 0, len(pending)+len(batch))

	i, j := 0, 0
	for i < len(pending) && j < len(batch) {
		if batch[j].T < pending[i].T {
			merged = append(merged, batch[j])
			j++
			continue
		}
		merged = append(merged, pending[i])
		i++
	}
	merged = append(merged, pending[i:]...)
	merged = append(merged, batch[j:]...)

	s.ops = merged
	s.next = 0
}

// Reset drops every pending op.
func (s *Stream) Reset() {
	s.ops = nil
	s.next = 0
}
