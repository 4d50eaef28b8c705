// Package chip8 assembles the interpreter with its framebuffer, keypad and
// tone, and drives it from a host at two independent clock rates.
package chip8

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kapitanov/chip8emu/internal/display"
	"github.com/kapitanov/chip8emu/internal/keypad"
	"github.com/kapitanov/chip8emu/internal/tone"
	"github.com/kapitanov/chip8emu/internal/vm"
)

type Machine struct {
	cpu    *vm.VM
	screen *display.Framebuffer
	keys   *keypad.Keypad
	tone   tone.Tone
	clock  *Clock

	beeping bool
	looped  bool
	cycles  uint64
	ticks   uint64
}

func New(program []byte, cfg Config, t tone.Tone, opts ...vm.Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cpu, err := vm.New(program, opts...)
	if err != nil {
		return nil, err
	}

	if t == nil {
		t = tone.Silent{}
	}

	return &Machine{
		cpu:    cpu,
		screen: display.New(),
		keys:   keypad.New(),
		tone:   t,
		clock:  NewClock(cfg.CycleRate, cfg.TickRate),
	}, nil
}

func (m *Machine) CPU() *vm.VM                  { return m.cpu }
func (m *Machine) Screen() *display.Framebuffer { return m.screen }
func (m *Machine) Cycles() uint64               { return m.cycles }
func (m *Machine) Ticks() uint64                { return m.ticks }

func (m *Machine) KeyDown(key vm.Key) {
	slog.Debug("key down", "key", key)
	m.keys.Press(key)
}

func (m *Machine) KeyUp(key vm.Key) {
	slog.Debug("key up", "key", key)
	m.keys.Release(key)
}

// Cycle executes one instruction.
func (m *Machine) Cycle() error {
	pc := m.cpu.PC()

	if err := m.cpu.Cycle(m.screen, m.keys); err != nil {
		return err
	}
	m.cycles++

	if m.cpu.PC() == pc && !m.cpu.Waiting() && !m.looped {
		slog.Info("program looped", "pc", fmt.Sprintf("0x%04x", pc))
		m.looped = true
	}

	return nil
}

// Tick decrements the timers and starts or stops the tone to follow the
// sound timer.
func (m *Machine) Tick() {
	m.cpu.Tick()
	m.ticks++
	m.updateTone()
}

func (m *Machine) updateTone() {
	want := m.cpu.ShouldEmitTone()
	if want == m.beeping {
		return
	}

	if want {
		m.tone.Play()
	} else {
		m.tone.Pause()
	}
	m.beeping = want
}

// Step advances the machine by elapsed wall time: every cycle and tick that
// became due is run, cycles first.
func (m *Machine) Step(elapsed time.Duration) error {
	elapsed = max(min(elapsed, MaxFrameDelta), 0)
	cycles, ticks := m.clock.Advance(elapsed)

	for i := 0; i < cycles; i++ {
		if err := m.Cycle(); err != nil {
			return err
		}
	}

	for i := 0; i < ticks; i++ {
		m.Tick()
	}

	if c, ok := m.tone.(tone.Clocked); ok {
		if err := c.Advance(elapsed); err != nil {
			return err
		}
	}

	return nil
}

// Reset reboots the program and clears the screen, keys and clocks.
func (m *Machine) Reset() {
	m.cpu.Reset()
	m.screen.Clear()
	m.keys.Reset()
	m.clock.Reset()
	m.looped = false
	m.cycles = 0
	m.ticks = 0

	if m.beeping {
		m.tone.Pause()
		m.beeping = false
	}
}
