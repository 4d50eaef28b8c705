package vm

import "fmt"

// flow is how pc moves once an instruction has executed.
type flow uint8

const (
	flowNext flow = iota // pc += 2
	flowSkip             // pc += 4
	flowJump             // pc already set by the instruction
	flowWait             // pc unchanged, the instruction runs again
)

func skipIf(cond bool) flow {
	if cond {
		return flowSkip
	}
	return flowNext
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (vm *VM) execute(instr Instruction, display Display, keypad Keypad) error {
	f, err := vm.dispatch(instr, display, keypad)
	if err != nil {
		return err
	}

	vm.waiting = f == flowWait

	switch f {
	case flowNext:
		vm.pc += InstructionSize
	case flowSkip:
		vm.pc += 2 * InstructionSize
	}

	return nil
}

func (vm *VM) dispatch(instr Instruction, display Display, keypad Keypad) (flow, error) {
	v := &vm.registers

	switch in := instr.(type) {
	case NativeCall:
		return flowNext, nil

	case ClearScreen:
		display.Clear()
		return flowNext, nil

	case Return:
		if len(vm.stack) == 0 {
			return 0, ErrStackUnderflow
		}
		vm.pc = vm.stack[len(vm.stack)-1]
		vm.stack = vm.stack[:len(vm.stack)-1]
		return flowJump, nil

	case Jump:
		vm.pc = in.Address
		return flowJump, nil

	case Call:
		if len(vm.stack) >= StackSize {
			return 0, fmt.Errorf("%w: call stack full (%d entries)", ErrMemoryOutOfRange, len(vm.stack))
		}
		vm.stack = append(vm.stack, vm.pc+InstructionSize)
		vm.pc = in.Address
		return flowJump, nil

	case SkipEqualConst:
		return skipIf(v[in.Register] == in.Value), nil

	case SkipNotEqualConst:
		return skipIf(v[in.Register] != in.Value), nil

	case SkipEqualRegister:
		return skipIf(v[in.A] == v[in.B]), nil

	case SkipNotEqualRegister:
		return skipIf(v[in.A] != v[in.B]), nil

	case SetConst:
		v[in.Register] = in.Value
		return flowNext, nil

	case AddConst:
		v[in.Register] += in.Value
		return flowNext, nil

	case SetRegister:
		v[in.Dest] = v[in.Src]
		return flowNext, nil

	case Or:
		v[in.A] |= v[in.B]
		return flowNext, nil

	case And:
		v[in.A] &= v[in.B]
		return flowNext, nil

	case Xor:
		v[in.A] ^= v[in.B]
		return flowNext, nil

	case Add:
		sum := uint16(v[in.A]) + uint16(v[in.B])
		v[in.A] = uint8(sum)
		v[FlagRegister] = boolToFlag(sum > 0xFF)
		return flowNext, nil

	case Sub:
		x, y := v[in.A], v[in.B]
		v[in.A] = x - y
		v[FlagRegister] = boolToFlag(x >= y)
		return flowNext, nil

	case ReverseSub:
		x, y := v[in.A], v[in.B]
		v[in.A] = y - x
		v[FlagRegister] = boolToFlag(y >= x)
		return flowNext, nil

	case ShiftRight:
		x := v[in.Register]
		v[in.Register] = x >> 1
		v[FlagRegister] = x & 0x1
		return flowNext, nil

	case ShiftLeft:
		x := v[in.Register]
		v[in.Register] = x << 1
		v[FlagRegister] = x >> 7
		return flowNext, nil

	case SetI:
		vm.index = in.Address
		return flowNext, nil

	case JumpOffset:
		vm.pc = in.Address + uint16(v[0])
		return flowJump, nil

	case Rand:
		v[in.Register] = uint8(vm.rand.UintN(256)) & in.Mask
		return flowNext, nil

	case Draw:
		return flowNext, vm.drawSprite(in, display)

	case SkipPressed:
		return skipIf(keypad.IsPressed(Key(v[in.Register]))), nil

	case SkipNotPressed:
		return skipIf(!keypad.IsPressed(Key(v[in.Register]))), nil

	case GetTimer:
		v[in.Register] = vm.delayTimer
		return flowNext, nil

	case AwaitInput:
		key, ok := keypad.FirstPressed()
		if !ok {
			return flowWait, nil
		}
		v[in.Register] = uint8(key)
		return flowNext, nil

	case SetTimer:
		vm.delayTimer = v[in.Register]
		return flowNext, nil

	case SetSound:
		vm.soundTimer = v[in.Register]
		return flowNext, nil

	case AddToI:
		vm.index += uint16(v[in.Register])
		return flowNext, nil

	case SetIToFontChar:
		x := v[in.Register]
		if x > MaxFontIndex {
			return 0, fmt.Errorf("%w: %d", ErrInvalidFontIndex, x)
		}
		vm.index = uint16(x) * GlyphSize
		return flowNext, nil

	case BinaryCodedDecimal:
		if err := vm.checkIndexRange(3); err != nil {
			return 0, err
		}
		x := v[in.Register]
		vm.memory[vm.index] = x / 100
		vm.memory[vm.index+1] = (x / 10) % 10
		vm.memory[vm.index+2] = x % 10
		return flowNext, nil

	case RegisterDump:
		n := uint16(in.Register)
		if err := vm.checkIndexRange(int(n) + 1); err != nil {
			return 0, err
		}
		for i := uint16(0); i <= n; i++ {
			vm.memory[vm.index+i] = v[i]
		}
		return flowNext, nil

	case RegisterLoad:
		n := uint16(in.Register)
		if err := vm.checkIndexRange(int(n) + 1); err != nil {
			return 0, err
		}
		for i := uint16(0); i <= n; i++ {
			v[i] = vm.memory[vm.index+i]
		}
		return flowNext, nil
	}

	return 0, fmt.Errorf("no handler for instruction %T", instr)
}

// checkIndexRange verifies that the n bytes starting at I are inside memory.
func (vm *VM) checkIndexRange(n int) error {
	if int(vm.index)+n > MemorySize {
		return fmt.Errorf("%w: %d bytes at I=0x%04x", ErrMemoryOutOfRange, n, vm.index)
	}
	return nil
}

// drawSprite XORs height rows of 8 pixels read from I onto the display at
// (Vx, Vy), wrapping around both edges. VF is set when a lit pixel is hit by a
// set sprite bit.
func (vm *VM) drawSprite(in Draw, display Display) error {
	height := int(in.Height)
	if err := vm.checkIndexRange(height); err != nil {
		return err
	}

	width, screenHeight := display.Dimensions()
	xLocation, yLocation := int(vm.registers[in.X]), int(vm.registers[in.Y])

	hasCollision := false
	for y := 0; y < height; y++ {
		row := vm.memory[int(vm.index)+y]

		const spriteWidth = 8
		for x := 0; x < spriteWidth; x++ {
			if row&(0x80>>x) == 0 {
				continue
			}

			px := (xLocation + x) % width
			py := (yLocation + y) % screenHeight

			prev := display.Pixel(px, py)
			if prev {
				hasCollision = true
			}
			display.SetPixel(px, py, !prev)
		}
	}

	vm.registers[FlagRegister] = boolToFlag(hasCollision)
	return nil
}
