package op

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is a decoded op sequence plus its declared total length in
// seconds.
type Document struct {
	Length float64 `json:"length"`
	Ops    []Op    `json:"ops"`
}

// Decode reads a JSON document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode ops: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load decodes the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ops: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the document as JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Validate rejects empty names and names containing the lane separator,
// which would make configured lane keys hard to read.
func (d *Document) Validate() error {
	for i, o := range d.Ops {
		for _, n := range o.Names {
			if !validName(n) {
				return fmt.Errorf("%w: op %d has name %q", ErrInvalidName, i, n)
			}
		}
	}
	return nil
}

// CheckOrder reports the first op whose time goes backwards within its
// lane. Receivers do not call it; it exists for producers that want to
// refuse unsorted input up front.
func (d *Document) CheckOrder() error {
	last := make(map[string]float64)
	for i, o := range d.Ops {
		k := LaneKey(o.Names)
		if prev, ok := last[k]; ok && o.T < prev {
			return fmt.Errorf("%w: op %d in lane %q at t=%g after t=%g", ErrUnsorted, i, k, o.T, prev)
		}
		last[k] = o.T
	}
	return nil
}
