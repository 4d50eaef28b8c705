package vm

import "fmt"

// fields is an instruction word split into its operand fields.
type fields struct {
	control   uint8  // bits 15-12
	address   uint16 // bits 11-0
	immediate uint8  // bits 7-0
	a         uint8  // bits 11-8
	b         uint8  // bits 7-4
	c         uint8  // bits 3-0
}

func split(opcode uint16) fields {
	return fields{
		control:   uint8((opcode & 0xF000) >> 12),
		address:   opcode & 0x0FFF,
		immediate: uint8(opcode & 0x00FF),
		a:         uint8((opcode & 0x0F00) >> 8),
		b:         uint8((opcode & 0x00F0) >> 4),
		c:         uint8(opcode & 0x000F),
	}
}

// Decode maps a big-endian instruction word to its instruction. Words that
// match no pattern of the instruction set yield an error wrapping
// ErrUnknownOpcode.
func Decode(opcode uint16) (Instruction, error) {
	f := split(opcode)

	switch f.control {
	case 0x0:
		switch {
		case f.a == 0 && f.immediate == 0xE0:
			return ClearScreen{}, nil
		case f.a == 0 && f.immediate == 0xEE:
			return Return{}, nil
		default:
			return NativeCall{Address: f.address}, nil
		}

	case 0x1:
		return Jump{Address: f.address}, nil

	case 0x2:
		return Call{Address: f.address}, nil

	case 0x3:
		return SkipEqualConst{Register: f.a, Value: f.immediate}, nil

	case 0x4:
		return SkipNotEqualConst{Register: f.a, Value: f.immediate}, nil

	case 0x5:
		if f.c == 0 {
			return SkipEqualRegister{A: f.a, B: f.b}, nil
		}

	case 0x6:
		return SetConst{Register: f.a, Value: f.immediate}, nil

	case 0x7:
		return AddConst{Register: f.a, Value: f.immediate}, nil

	case 0x8:
		switch f.c {
		case 0x0:
			return SetRegister{Dest: f.a, Src: f.b}, nil
		case 0x1:
			return Or{A: f.a, B: f.b}, nil
		case 0x2:
			return And{A: f.a, B: f.b}, nil
		case 0x3:
			return Xor{A: f.a, B: f.b}, nil
		case 0x4:
			return Add{A: f.a, B: f.b}, nil
		case 0x5:
			return Sub{A: f.a, B: f.b}, nil
		case 0x6:
			return ShiftRight{Register: f.a}, nil
		case 0x7:
			return ReverseSub{A: f.a, B: f.b}, nil
		case 0xE:
			return ShiftLeft{Register: f.a}, nil
		}

	case 0x9:
		if f.c == 0 {
			return SkipNotEqualRegister{A: f.a, B: f.b}, nil
		}

	case 0xA:
		return SetI{Address: f.address}, nil

	case 0xB:
		return JumpOffset{Address: f.address}, nil

	case 0xC:
		return Rand{Register: f.a, Mask: f.immediate}, nil

	case 0xD:
		return Draw{X: f.a, Y: f.b, Height: f.c}, nil

	case 0xE:
		switch f.immediate {
		case 0x9E:
			return SkipPressed{Register: f.a}, nil
		case 0xA1:
			return SkipNotPressed{Register: f.a}, nil
		}

	case 0xF:
		switch f.immediate {
		case 0x07:
			return GetTimer{Register: f.a}, nil
		case 0x0A:
			return AwaitInput{Register: f.a}, nil
		case 0x15:
			return SetTimer{Register: f.a}, nil
		case 0x18:
			return SetSound{Register: f.a}, nil
		case 0x1E:
			return AddToI{Register: f.a}, nil
		case 0x29:
			return SetIToFontChar{Register: f.a}, nil
		case 0x33:
			return BinaryCodedDecimal{Register: f.a}, nil
		case 0x55:
			return RegisterDump{Register: f.a}, nil
		case 0x65:
			return RegisterLoad{Register: f.a}, nil
		}
	}

	return nil, fmt.Errorf("%w 0x%04X", ErrUnknownOpcode, opcode)
}
