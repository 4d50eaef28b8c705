package chip8

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kapitanov/chip8emu/internal/display"
	"github.com/kapitanov/chip8emu/internal/vm"
)

var (
	ErrReboot = errors.New("reboot")
	ErrQuit   = errors.New("quit")
)

// Host presents the framebuffer, forwards input and paces frames.
// ReadInput, Draw and WaitForNextFrame may return ErrQuit or ErrReboot.
type Host interface {
	ReadInput(keyDown func(vm.Key), keyUp func(vm.Key)) error
	Draw(screen *display.Framebuffer) error
	WaitForNextFrame() error
}

// FixedStepper is implemented by hosts that run on a virtual clock: each
// frame advances the machine by FrameDuration instead of wall time.
type FixedStepper interface {
	FrameDuration() time.Duration
}

// Run drives the machine until the host or ctx stops it, or the program
// fails. Host sentinel errors are returned as is.
func (m *Machine) Run(ctx context.Context, host Host) error {
	fixed, isFixed := host.(FixedStepper)
	last := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := host.ReadInput(m.KeyDown, m.KeyUp); err != nil {
			return err
		}

		var elapsed time.Duration
		if isFixed {
			elapsed = fixed.FrameDuration()
		} else {
			now := time.Now()
			elapsed = now.Sub(last)
			last = now
		}

		if err := m.Step(elapsed); err != nil {
			return fmt.Errorf("program failed: %w", err)
		}

		if m.screen.Dirty() {
			if err := host.Draw(m.screen); err != nil {
				return err
			}
			m.screen.ClearDirty()
		}

		if err := host.WaitForNextFrame(); err != nil {
			return err
		}
	}
}
