package composition

import "time"

// Observer receives per-tick measurements.
type Observer interface {
	// LaneUpdated reports the ops released into a lane this tick and its
	// live particle count after aging.
	LaneUpdated(lane string, released, live int)
	PassPainted(pass string, kind Kind, d time.Duration)
	FrameRendered(d time.Duration)
}

type nopObserver struct{}

func (nopObserver) LaneUpdated(string, int, int) {}

func (nopObserver) PassPainted(string, Kind, time.Duration) {}

func (nopObserver) FrameRendered(time.Duration) {}
