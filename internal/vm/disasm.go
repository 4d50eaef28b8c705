package vm

import (
	"bufio"
	"fmt"
	"io"
)

// Disassemble writes one line per 2-byte word of program, addressed from
// ProgramStart. Words that do not decode, and a trailing odd byte, are
// printed as data.
func Disassemble(w io.Writer, program []byte) error {
	bw := bufio.NewWriter(w)

	for i := 0; i < len(program); i += InstructionSize {
		addr := int(ProgramStart) + i

		if i+1 >= len(program) {
			if _, err := fmt.Fprintf(bw, "0x%04x  %02X    data 0x%02x\n", addr, program[i], program[i]); err != nil {
				return err
			}
			break
		}

		opcode := uint16(program[i])<<8 | uint16(program[i+1])

		text := fmt.Sprintf("data 0x%04x", opcode)
		if instr, err := Decode(opcode); err == nil {
			text = instr.String()
		}

		if _, err := fmt.Fprintf(bw, "0x%04x  %04X  %s\n", addr, opcode, text); err != nil {
			return err
		}
	}

	return bw.Flush()
}
