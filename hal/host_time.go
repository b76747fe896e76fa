//go:build !tinygo

package hal

import "time"

type wallTime struct{}

func (wallTime) Now() time.Time { return time.Now() }

// stepTime is a synthetic clock advanced by a fixed period per tick, so
// headless runs render the same frames regardless of host load.
type stepTime struct {
	start  time.Time
	period time.Duration
	ticks  uint64
}

func newStepTime(hz int) *stepTime {
	return &stepTime{start: time.Unix(0, 0), period: time.Second / time.Duration(hz)}
}

func (t *stepTime) Now() time.Time {
	return t.start.Add(time.Duration(t.ticks) * t.period)
}

func (t *stepTime) step() { t.ticks++ }
