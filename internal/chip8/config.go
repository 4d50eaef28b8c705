package chip8

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultCycleRate = 700.0
	DefaultTickRate  = 60.0

	// MaxFrameDelta caps the wall time consumed by one step, so a stalled
	// host does not replay a long backlog of cycles.
	MaxFrameDelta = 250 * time.Millisecond
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	CycleRate float64 // instructions per second
	TickRate  float64 // timer decrements per second
}

func DefaultConfig() Config {
	return Config{
		CycleRate: DefaultCycleRate,
		TickRate:  DefaultTickRate,
	}
}

func (c Config) Validate() error {
	if c.CycleRate <= 0 {
		return fmt.Errorf("%w: cycle rate must be positive, got %v", ErrInvalidConfig, c.CycleRate)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate must be positive, got %v", ErrInvalidConfig, c.TickRate)
	}
	if time.Duration(float64(time.Second)/c.CycleRate) <= 0 {
		return fmt.Errorf("%w: cycle rate %v is too high", ErrInvalidConfig, c.CycleRate)
	}
	if time.Duration(float64(time.Second)/c.TickRate) <= 0 {
		return fmt.Errorf("%w: tick rate %v is too high", ErrInvalidConfig, c.TickRate)
	}
	return nil
}
