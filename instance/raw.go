package instance

import (
	"encoding/binary"
	"math"

	"lumen/gfx"
)

// Raw is the per-instance layout: a column-major model matrix followed by
// life, size and length.
type Raw = gfx.InstanceRaw

// RawSize is the encoded size of one Raw in bytes.
const RawSize = (16 + 3) * 4

// EncodeRaw appends raws to dst as little-endian float32s.
func EncodeRaw(dst []byte, raws []Raw) []byte {
	for _, r := range raws {
		for _, v := range r.Model {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		}
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(r.Life))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(r.Size))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(r.Length))
	}
	return dst
}
