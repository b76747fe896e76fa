package op

import "math/rand"

// RandomOp returns an op at time t with coordinates in [0,1) and a length
// in [0.2,2).
func RandomOp(rng *rand.Rand, t float64) Op {
	return Op{
		T:     t,
		Voice: 1,
		Event: 1,
		X:     rng.Float64(),
		Y:     rng.Float64(),
		Z:     rng.Float64(),
		L:     0.2 + rng.Float64()*1.8,
	}
}

// Random builds n chords of 1 to 19 simultaneous ops, each chord up to one
// second after the previous. When lanes is not empty every chord is tagged
// with one lane picked at random; a Nameless pick leaves names empty.
func Random(rng *rand.Rand, n int, lanes []string) *Document {
	doc := &Document{}
	t := 0.0
	for i := 0; i < n; i++ {
		t += rng.Float64()
		var names []string
		if len(lanes) > 0 {
			names = ParseLane(lanes[rng.Intn(len(lanes))])
		}
		chord := 1 + rng.Intn(19)
		for j := 0; j < chord; j++ {
			o := RandomOp(rng, t)
			o.Names = names
			doc.Ops = append(doc.Ops, o)
		}
	}
	doc.Length = t + 1
	return doc
}
