// Package headless runs the interpreter for a fixed number of frames on a
// virtual clock, without input or presentation.
package headless

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kapitanov/chip8emu/internal/chip8"
	"github.com/kapitanov/chip8emu/internal/display"
	"github.com/kapitanov/chip8emu/internal/vm"
)

// FrameDuration is the virtual time each frame advances the machine by.
const FrameDuration = time.Second / 60

type Host struct {
	frames       int
	frame        int
	snapshotPath string

	last *display.Framebuffer
}

// New returns a host that stops after frames frames. When snapshotPath is
// not empty the last picture is written there as text.
func New(frames int, snapshotPath string) *Host {
	return &Host{
		frames:       frames,
		snapshotPath: snapshotPath,
	}
}

func (h *Host) ReadInput(func(vm.Key), func(vm.Key)) error {
	return nil
}

func (h *Host) Draw(screen *display.Framebuffer) error {
	h.last = screen
	return nil
}

func (h *Host) FrameDuration() time.Duration {
	return FrameDuration
}

func (h *Host) WaitForNextFrame() error {
	h.frame++
	if h.frame < h.frames {
		return nil
	}

	if err := h.finish(); err != nil {
		return err
	}
	return chip8.ErrQuit
}

// Frames returns the number of frames run so far.
func (h *Host) Frames() int {
	return h.frame
}

func (h *Host) finish() error {
	screen := h.last
	if screen == nil {
		screen = display.New()
	}

	slog.Info("headless run finished", "frames", h.frame, "digest", screen.Digest())

	if h.snapshotPath == "" {
		return nil
	}

	f, err := os.Create(h.snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	if err := screen.Snapshot(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	slog.Info("snapshot written", "path", h.snapshotPath)
	return nil
}
