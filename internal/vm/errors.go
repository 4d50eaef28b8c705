package vm

import "errors"

var (
	// ErrUnknownOpcode is returned when a word matches no instruction pattern.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrStackUnderflow is returned by a return instruction executed with an
	// empty call stack.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrInvalidFontIndex is returned when the font select instruction is
	// given a register value with no glyph behind it.
	ErrInvalidFontIndex = errors.New("invalid font index")

	// ErrMemoryOutOfRange is returned when pc, I+offset or the call stack
	// escape their fixed bounds.
	ErrMemoryOutOfRange = errors.New("memory out of range")

	// ErrProgramTooLarge is returned by New when the program does not fit
	// between ProgramStart and the end of memory.
	ErrProgramTooLarge = errors.New("program too large")
)
