// Package op holds the timed event stream that drives the renderer.
//
// Ops arrive pre-sorted by time within each lane. A Receiver partitions
// them by name set and hands out the due prefix of each lane once per
// frame. Consumption is destructive and forward-only: an op is returned
// at most once and is never restored.
package op

import (
	"errors"
	"fmt"
	"strings"
)

// Nameless is the lane key of ops that carry no names.
const Nameless = "nameless"

// All is the single lane key used by an ungrouped receiver.
const All = "*"

// laneSep joins the names of a sequence into a lane key.
const (
	laneSep     = "/"
	laneSepRune = '/'
)

var (
	ErrUnknownLane = errors.New("op: unknown lane")
	ErrInvalidName = errors.New("op: invalid name")
	ErrUnsorted    = errors.New("op: timestamps not ascending")
)

// EventType is advisory source information carried through untouched.
type EventType uint8

const (
	On EventType = iota
	Off
)

func (e EventType) String() string {
	if e == Off {
		return "Off"
	}
	return "On"
}

func (e EventType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EventType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "On", "on", "":
		*e = On
	case "Off", "off":
		*e = Off
	default:
		return fmt.Errorf("op: unknown event type %q", b)
	}
	return nil
}

// Op is one timestamped 4D event. It is never mutated after decoding.
type Op struct {
	T         float64   `json:"t"`
	Voice     int32     `json:"voice"`
	Event     int32     `json:"event"`
	EventType EventType `json:"event_type"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Z         float64   `json:"z"`
	L         float64   `json:"l"`
	Names     []string  `json:"names"`
}

// LaneKey returns the partition key for a name sequence. Two sequences map
// to the same key only if they are equal element by element: a separator
// or backslash inside a name is escaped with a backslash, and a lone name
// spelled like the Nameless key gets a leading backslash.
func LaneKey(names []string) string {
	if len(names) == 0 {
		return Nameless
	}
	var b strings.Builder
	for i, n := range names {
		if i > 0 {
			b.WriteString(laneSep)
		}
		for _, r := range n {
			if r == '\\' || r == laneSepRune {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	if b.String() == Nameless {
		return `\` + Nameless
	}
	return b.String()
}

// ParseLane is the inverse of LaneKey.
func ParseLane(key string) []string {
	if key == Nameless {
		return nil
	}
	var (
		out    []string
		cur    strings.Builder
		escape bool
	)
	for _, r := range key {
		switch {
		case escape:
			cur.WriteRune(r)
			escape = false
		case r == '\\':
			escape = true
		case r == laneSepRune:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(out, cur.String())
}

func validName(name string) bool {
	return name != "" && !strings.Contains(name, laneSep)
}
