package model

import "time"

// Clock is the consumed interface (§6) fronting monotonic time, so the
// tick driver (C6) and the keep-alive boundary tests (§8) can run against
// a fake clock instead of wall time.
type Clock interface {
	NowNano() int64
}

// SystemClock is the production Clock backed by time.Now's monotonic reading.
type SystemClock struct{}

// clockEpoch anchors SystemClock: time.Since uses the monotonic reading
// carried by both values, so wall-clock adjustments do not affect it.
var clockEpoch = time.Now()

// NowNano returns the current monotonic time in nanoseconds, counted from
// process start.
func (SystemClock) NowNano() int64 { return int64(time.Since(clockEpoch)) }
