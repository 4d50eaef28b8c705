package vm

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

const (
	MemorySize    = 4096
	StackSize     = 16
	RegisterCount = 16
	KeyCount      = 16

	// FlagRegister is VF, overwritten by carry, borrow, shift and collision
	// results.
	FlagRegister = 0x0F

	ProgramStart    = uint16(0x200)
	InstructionSize = 2

	// MaxProgramSize is the largest image that fits above ProgramStart.
	MaxProgramSize = MemorySize - int(ProgramStart)
)

type VM struct {
	memory    [MemorySize]uint8    // Memory (4k)
	registers [RegisterCount]uint8 // V registers (V0-VF)

	stack []uint16 // Return addresses, at most StackSize

	pc    uint16 // Program counter
	index uint16 // Index register

	delayTimer uint8 // Delay timer
	soundTimer uint8 // Sound timer

	waiting bool // Last cycle was a key wait with no key down

	program []byte
	rand    *rand.Rand
	logger  *slog.Logger
}

// Option configures a VM at construction.
type Option func(*VM)

// WithRand sets the random source used by the rand instruction.
func WithRand(r *rand.Rand) Option {
	return func(vm *VM) {
		vm.rand = r
	}
}

// WithLogger sets the logger used for the execution trace.
func WithLogger(l *slog.Logger) Option {
	return func(vm *VM) {
		vm.logger = l
	}
}

// New creates a VM with the font and program loaded and pc at ProgramStart.
func New(program []byte, opts ...Option) (*VM, error) {
	if len(program) > MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	vm := &VM{
		stack:   make([]uint16, 0, StackSize),
		program: program,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.rand == nil {
		vm.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	vm.Reset()
	return vm, nil
}

// Display is the pixel plane drawn on by cls and sprite.
type Display interface {
	Pixel(x, y int) bool
	SetPixel(x, y int, on bool)
	Clear()
	Dimensions() (width, height int)
}

// Keypad is the read-only key state queried by the input instructions.
type Keypad interface {
	IsPressed(key Key) bool
	FirstPressed() (Key, bool)
}

type Key uint8

const (
	Key0 = Key(iota)
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

func (k Key) String() string {
	return fmt.Sprintf("%X", uint8(k))
}

// Reset restores the power-on state: memory cleared and reloaded with the
// font and program, registers, stack and timers zeroed.
func (vm *VM) Reset() {
	vm.pc = ProgramStart
	vm.index = 0
	vm.stack = vm.stack[:0]
	vm.waiting = false

	vm.logger.Debug("clear registers", "n", len(vm.registers))
	vm.registers = [RegisterCount]uint8{}

	vm.logger.Debug("clear memory", "n", len(vm.memory))
	vm.memory = [MemorySize]uint8{}

	vm.logger.Debug("load font", "at", fmt.Sprintf("0x%04x", 0), "n", len(chip8Font))
	copy(vm.memory[0:], chip8Font)

	vm.logger.Info("load program", "at", fmt.Sprintf("0x%04x", ProgramStart), "n", len(vm.program))
	copy(vm.memory[ProgramStart:], vm.program)

	vm.delayTimer = 0
	vm.soundTimer = 0
}

// Cycle fetches, decodes and executes one instruction. The display and
// keypad are only used for the duration of the call.
func (vm *VM) Cycle(display Display, keypad Keypad) error {
	opcode, err := vm.fetchOpcode()
	if err != nil {
		return err
	}

	instr, err := Decode(opcode)
	if err != nil {
		return fmt.Errorf("pc 0x%04x: %w", vm.pc, err)
	}

	if vm.logger.Enabled(context.Background(), slog.LevelDebug) {
		vm.logger.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%04x", vm.pc),
			"opcode", fmt.Sprintf("0x%04x", opcode),
			"instr", instr.String(),
		)
	}

	if err := vm.execute(instr, display, keypad); err != nil {
		return fmt.Errorf("pc 0x%04x, opcode 0x%04x (%s): %w", vm.pc, opcode, instr, err)
	}

	return nil
}

// Tick decrements both timers, saturating at zero.
func (vm *VM) Tick() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}

	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// ShouldEmitTone reports whether the sound timer is running.
func (vm *VM) ShouldEmitTone() bool {
	return vm.soundTimer > 0
}

func (vm *VM) fetchOpcode() (uint16, error) {
	if int(vm.pc)+1 >= MemorySize {
		return 0, fmt.Errorf("%w: fetch at pc 0x%04x", ErrMemoryOutOfRange, vm.pc)
	}

	hi := vm.memory[vm.pc]
	lo := vm.memory[vm.pc+1]

	opcode := uint16(hi)<<8 | uint16(lo) // Op code is two bytes
	return opcode, nil
}

func (vm *VM) PC() uint16 { return vm.pc }

// Index returns the address register I.
func (vm *VM) Index() uint16 { return vm.index }

func (vm *VM) Register(i uint8) uint8 { return vm.registers[i&0x0F] }

func (vm *VM) DelayTimer() uint8 { return vm.delayTimer }
func (vm *VM) SoundTimer() uint8 { return vm.soundTimer }
func (vm *VM) StackDepth() int   { return len(vm.stack) }

// Waiting reports whether the last cycle was a key wait that found no key
// pressed, leaving pc on the same instruction.
func (vm *VM) Waiting() bool { return vm.waiting }

// Peek returns the memory byte at addr, or 0 outside memory.
func (vm *VM) Peek(addr uint16) uint8 {
	if int(addr) >= MemorySize {
		return 0
	}
	return vm.memory[addr]
}
