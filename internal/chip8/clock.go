package chip8

import "time"

// Clock turns elapsed wall time into the number of cycles and ticks that
// are due, keeping one accumulator per rate.
type Clock struct {
	cyclePeriod time.Duration
	tickPeriod  time.Duration

	cycleAcc time.Duration
	tickAcc  time.Duration
}

func NewClock(cycleRate, tickRate float64) *Clock {
	return &Clock{
		cyclePeriod: time.Duration(float64(time.Second) / cycleRate),
		tickPeriod:  time.Duration(float64(time.Second) / tickRate),
	}
}

// Advance adds elapsed to both accumulators and drains every whole period.
func (c *Clock) Advance(elapsed time.Duration) (cycles, ticks int) {
	if elapsed > MaxFrameDelta {
		elapsed = MaxFrameDelta
	}
	if elapsed < 0 {
		elapsed = 0
	}

	c.cycleAcc += elapsed
	c.tickAcc += elapsed

	for c.cycleAcc >= c.cyclePeriod {
		c.cycleAcc -= c.cyclePeriod
		cycles++
	}

	for c.tickAcc >= c.tickPeriod {
		c.tickAcc -= c.tickPeriod
		ticks++
	}

	return cycles, ticks
}

func (c *Clock) Reset() {
	c.cycleAcc = 0
	c.tickAcc = 0
}
