package op

import "sort"

// Partition splits ops into one stream per distinct name sequence.
//
// It is a stable partition: each stream keeps the relative order of the
// source. Ops without names land in the Nameless stream.
func Partition(ops []Op, length float32) map[string]*Stream {
	return partitionBy(ops, length, LaneKey)
}

func partitionBy(ops []Op, length float32, key func([]string) string) map[string]*Stream {
	out := make(map[string]*Stream)
	for _, o := range ops {
		k := key(o.Names)
		s, ok := out[k]
		if !ok {
			s = &Stream{Names: o.Names, Length: length}
			out[k] = s
		}
		s.ops = append(s.ops, o)
	}
	return out
}

// Keys returns the lane keys of a partition in sorted order.
func Keys(streams map[string]*Stream) []string {
	keys := make([]string, 0, len(streams))
	for k := range streams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
