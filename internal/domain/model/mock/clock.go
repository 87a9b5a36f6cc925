package mock

import (
	"sync/atomic"

	"github.com/duskforge/voxelcore/internal/domain/model"
)

var _ model.Clock = (*Clock)(nil)

// Clock is a mock [model.Clock] that advances only when told to, letting
// tests exercise the keep-alive boundary conditions in spec §8 exactly.
type Clock struct {
	nowNano atomic.Int64
}

// NewClock returns a clock fixed at t nanoseconds.
func NewClock(t int64) *Clock {
	c := &Clock{}
	c.nowNano.Store(t)
	return c
}

func (c *Clock) NowNano() int64 { return c.nowNano.Load() }

// Advance moves the clock forward by delta nanoseconds and returns the new time.
func (c *Clock) Advance(delta int64) int64 { return c.nowNano.Add(delta) }

// Set pins the clock to an absolute time.
func (c *Clock) Set(t int64) { c.nowNano.Store(t) }
