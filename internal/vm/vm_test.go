package vm

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	vm := newTestVM(t, 0x00E0, 0x1200)

	assert.Equal(t, ProgramStart, vm.PC())
	assert.Equal(t, uint16(0), vm.Index())
	assert.Equal(t, 0, vm.StackDepth())
	assert.Equal(t, chip8Font, vm.memory[:len(chip8Font)])
	assert.Equal(t, uint8(0x00), vm.Peek(0x200))
	assert.Equal(t, uint8(0xE0), vm.Peek(0x201))
	assert.Equal(t, uint8(0x12), vm.Peek(0x202))
	assert.Equal(t, uint8(0), vm.Peek(0x204))
	assert.Equal(t, uint8(0), vm.Peek(0xFFFF))
}

func TestNew_ProgramTooLarge(t *testing.T) {
	_, err := New(make([]byte, MaxProgramSize+1))
	assert.ErrorIs(t, err, ErrProgramTooLarge)

	vm, err := New(make([]byte, MaxProgramSize), WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.NotNil(t, vm)
}

func TestReset(t *testing.T) {
	vm := newTestVM(t, 0x6A07, 0xA300, 0xFA18, 0x2400)
	d, k := newFakeDisplay(), &fakeKeypad{}
	run(t, vm, d, k, 4)
	vm.memory[0x300] = 0xAA

	vm.Reset()

	assert.Equal(t, ProgramStart, vm.PC())
	assert.Equal(t, uint16(0), vm.Index())
	assert.Equal(t, uint8(0), vm.Register(0xA))
	assert.Equal(t, uint8(0), vm.SoundTimer())
	assert.Equal(t, 0, vm.StackDepth())
	assert.Equal(t, uint8(0), vm.Peek(0x300))
	assert.Equal(t, uint8(0x6A), vm.Peek(0x200))
}

func TestArithmeticFlags(t *testing.T) {
	d, k := newFakeDisplay(), &fakeKeypad{}
	vm := newTestVM(t)

	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			x, y := uint8(a), uint8(b)

			vm.registers[1], vm.registers[2] = x, y
			require.NoError(t, vm.execute(Add{A: 1, B: 2}, d, k))
			require.Equal(t, x+y, vm.registers[1])
			require.Equal(t, boolToFlag(a+b > 255), vm.registers[FlagRegister], "add %d %d", a, b)

			vm.registers[1], vm.registers[2] = x, y
			require.NoError(t, vm.execute(Sub{A: 1, B: 2}, d, k))
			require.Equal(t, x-y, vm.registers[1])
			require.Equal(t, boolToFlag(a >= b), vm.registers[FlagRegister], "sub %d %d", a, b)

			vm.registers[1], vm.registers[2] = x, y
			require.NoError(t, vm.execute(ReverseSub{A: 1, B: 2}, d, k))
			require.Equal(t, y-x, vm.registers[1])
			require.Equal(t, boolToFlag(b >= a), vm.registers[FlagRegister], "rsb %d %d", a, b)
		}

		x := uint8(a)

		vm.registers[3] = x
		require.NoError(t, vm.execute(ShiftRight{Register: 3}, d, k))
		require.Equal(t, x>>1, vm.registers[3])
		require.Equal(t, x&1, vm.registers[FlagRegister])

		vm.registers[3] = x
		require.NoError(t, vm.execute(ShiftLeft{Register: 3}, d, k))
		require.Equal(t, x<<1, vm.registers[3])
		require.Equal(t, x>>7, vm.registers[FlagRegister])
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		program  []uint16
		register uint8
		expected uint8
		flag     uint8
	}{
		{"set const", []uint16{0x6A07}, 0xA, 0x07, 0},
		{"add const wraps", []uint16{0x61FF, 0x7102}, 1, 0x01, 0},
		{"add const leaves flag", []uint16{0x6F05, 0x61FF, 0x7102}, 0xF, 0x05, 0x05},
		{"set register", []uint16{0x6233, 0x8120}, 1, 0x33, 0},
		{"or", []uint16{0x61F0, 0x620F, 0x8121}, 1, 0xFF, 0},
		{"and", []uint16{0x61F3, 0x623F, 0x8122}, 1, 0x33, 0},
		{"xor", []uint16{0x61FF, 0x620F, 0x8123}, 1, 0xF0, 0},
		{"add with carry", []uint16{0x61F0, 0x6220, 0x8124}, 1, 0x10, 1},
		{"add into vf keeps flag", []uint16{0x6FF0, 0x6220, 0x8F24}, 0xF, 1, 1},
		{"sub no borrow", []uint16{0x6105, 0x6205, 0x8125}, 1, 0x00, 1},
		{"sub borrow", []uint16{0x6104, 0x6205, 0x8125}, 1, 0xFF, 0},
		{"reverse sub", []uint16{0x6103, 0x6205, 0x8127}, 1, 0x02, 1},
		{"shift right ignores vy", []uint16{0x6103, 0x62FF, 0x8126}, 1, 0x01, 1},
		{"shift left", []uint16{0x6181, 0x810E}, 1, 0x02, 1},
		{"shift vf keeps flag", []uint16{0x6F81, 0x8F0E}, 0xF, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, tt.program...)
			run(t, vm, newFakeDisplay(), &fakeKeypad{}, len(tt.program))

			assert.Equal(t, tt.expected, vm.Register(tt.register))
			assert.Equal(t, tt.flag, vm.Register(FlagRegister))
			assert.Equal(t, ProgramStart+uint16(2*len(tt.program)), vm.PC())
		})
	}
}

func TestControlFlow(t *testing.T) {
	tests := []struct {
		name    string
		program []uint16
		cycles  int
		pc      uint16
		stack   int
	}{
		{"jump", []uint16{0x1300}, 1, 0x300, 0},
		{"call", []uint16{0x2300}, 1, 0x300, 1},
		{"call and return", []uint16{0x2204, 0x0000, 0x00EE}, 2, 0x202, 0},
		{"native call is a no-op", []uint16{0x0123}, 1, 0x202, 0},
		{"jump offset", []uint16{0x6004, 0xB300}, 2, 0x304, 0},
		{"skeq const taken", []uint16{0x3100}, 1, 0x204, 0},
		{"skeq const not taken", []uint16{0x3101}, 1, 0x202, 0},
		{"skne const taken", []uint16{0x4101}, 1, 0x204, 0},
		{"skne const not taken", []uint16{0x4100}, 1, 0x202, 0},
		{"skeq register taken", []uint16{0x5120}, 1, 0x204, 0},
		{"skeq register not taken", []uint16{0x6201, 0x5120}, 2, 0x204, 0},
		{"skne register taken", []uint16{0x6201, 0x9120}, 2, 0x206, 0},
		{"skne register not taken", []uint16{0x9120}, 1, 0x202, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, tt.program...)
			run(t, vm, newFakeDisplay(), &fakeKeypad{}, tt.cycles)

			assert.Equal(t, tt.pc, vm.PC())
			assert.Equal(t, tt.stack, vm.StackDepth())
		})
	}
}

func TestSkipNotTakenIsNoOp(t *testing.T) {
	skip := newTestVM(t, 0x3101)
	nop := newTestVM(t, 0x0000)
	d, k := newFakeDisplay(), &fakeKeypad{}

	run(t, skip, d, k, 1)
	run(t, nop, d, k, 1)

	assert.Equal(t, nop.PC(), skip.PC())
	assert.Equal(t, nop.registers, skip.registers)
}

func TestTimers(t *testing.T) {
	vm := newTestVM(t, 0x6A05, 0xFA15, 0xFA18, 0xF107)
	d, k := newFakeDisplay(), &fakeKeypad{}
	run(t, vm, d, k, 3)

	assert.Equal(t, uint8(5), vm.DelayTimer())
	assert.Equal(t, uint8(5), vm.SoundTimer())
	assert.True(t, vm.ShouldEmitTone())

	vm.Tick()
	vm.Tick()
	run(t, vm, d, k, 1)
	assert.Equal(t, uint8(3), vm.Register(1))

	for i := 0; i < 10; i++ {
		vm.Tick()
	}
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())
	assert.False(t, vm.ShouldEmitTone())

	vm.Tick()
	assert.Equal(t, uint8(0), vm.DelayTimer())
}

func TestTimerSaturation(t *testing.T) {
	for _, v := range []uint8{0, 1, 7, 60, 255} {
		for _, n := range []int{0, 1, 6, 7, 8, 300} {
			vm := newTestVM(t)
			vm.delayTimer, vm.soundTimer = v, v
			for i := 0; i < n; i++ {
				vm.Tick()
			}
			expected := uint8(max(int(v)-n, 0))
			assert.Equal(t, expected, vm.DelayTimer(), "v=%d n=%d", v, n)
			assert.Equal(t, expected, vm.SoundTimer(), "v=%d n=%d", v, n)
		}
	}
}

func TestDraw(t *testing.T) {
	// single pixel sprite at 0x300
	vm := newTestVM(t, 0xA300, 0x6105, 0x6206, 0xD121, 0xD121)
	vm.memory[0x300] = 0x80
	d, k := newFakeDisplay(), &fakeKeypad{}

	run(t, vm, d, k, 4)
	assert.True(t, d.Pixel(5, 6))
	assert.Equal(t, 1, d.lit())
	assert.Equal(t, uint8(0), vm.Register(FlagRegister))

	run(t, vm, d, k, 1)
	assert.False(t, d.Pixel(5, 6))
	assert.Equal(t, 0, d.lit())
	assert.Equal(t, uint8(1), vm.Register(FlagRegister))
}

func TestDraw_NoCollisionOnUnsetPixel(t *testing.T) {
	vm := newTestVM(t, 0xA300, 0xD011, 0xD011)
	vm.memory[0x300] = 0x80
	d, k := newFakeDisplay(), &fakeKeypad{}
	d.SetPixel(1, 0, true)

	run(t, vm, d, k, 2)
	assert.Equal(t, uint8(0), vm.Register(FlagRegister))
	assert.True(t, d.Pixel(0, 0))
	assert.True(t, d.Pixel(1, 0))
}

func TestDraw_Wraps(t *testing.T) {
	// font glyph "0" drawn at (62, 30) wraps onto both edges
	vm := newTestVM(t, 0x6000, 0xF029, 0x613E, 0x621E, 0xD125)
	d, k := newFakeDisplay(), &fakeKeypad{}

	run(t, vm, d, k, 5)

	// row 0 is 0xF0: x 62, 63, 0, 1
	for _, x := range []int{62, 63, 0, 1} {
		assert.True(t, d.Pixel(x, 30), "x=%d", x)
	}
	// row 2 wraps to y 0, 0x90: x 62 and 1
	assert.True(t, d.Pixel(62, 0))
	assert.False(t, d.Pixel(63, 0))
	assert.True(t, d.Pixel(1, 0))
	assert.Equal(t, 14, d.lit())
}

func TestDraw_OriginBeyondScreen(t *testing.T) {
	tests := []struct {
		name   string
		vx, vy uint16
		x, y   int
	}{
		{"x 200", 200, 3, 8, 3},
		{"y 100", 5, 100, 5, 4},
		{"both 255", 255, 255, 63, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// I=0 is glyph "0", row 0 is 0xF0
			vm := newTestVM(t, 0x6100|tt.vx, 0x6200|tt.vy, 0xD121)
			d, k := newFakeDisplay(), &fakeKeypad{}

			run(t, vm, d, k, 3)

			for i := 0; i < 4; i++ {
				assert.True(t, d.Pixel((tt.x+i)%64, tt.y), "x=%d", (tt.x+i)%64)
			}
			assert.Equal(t, 4, d.lit())
			assert.Equal(t, uint8(0), vm.Register(FlagRegister))
		})
	}
}

func TestClearScreenThenLoop(t *testing.T) {
	vm := newTestVM(t, 0x00E0, 0x1202)
	d, k := newFakeDisplay(), &fakeKeypad{}
	d.SetPixel(3, 3, true)

	run(t, vm, d, k, 1)
	assert.Equal(t, 0, d.lit())
	assert.Equal(t, 1, d.clears)

	for i := 0; i < 100; i++ {
		run(t, vm, d, k, 1)
		assert.Equal(t, uint16(0x202), vm.PC())
	}
	assert.Equal(t, 1, d.clears)
	assert.Equal(t, 0, d.lit())
}

func TestClearScreenThenJumpToStart(t *testing.T) {
	vm := newTestVM(t, 0x00E0, 0x1200)
	d, k := newFakeDisplay(), &fakeKeypad{}
	d.SetPixel(10, 20, true)

	for i := 0; i < 50; i++ {
		run(t, vm, d, k, 2)
		assert.Equal(t, ProgramStart, vm.PC())
		assert.Equal(t, 0, d.lit())
	}
}

func TestAwaitInput(t *testing.T) {
	vm := newTestVM(t, 0xF30A)
	d, k := newFakeDisplay(), &fakeKeypad{}

	for i := 0; i < 5; i++ {
		run(t, vm, d, k, 1)
		assert.Equal(t, ProgramStart, vm.PC())
		assert.Equal(t, [RegisterCount]uint8{}, vm.registers)
		assert.True(t, vm.Waiting())
	}

	k.keys[KeyB] = true
	k.keys[KeyE] = true
	run(t, vm, d, k, 1)
	assert.Equal(t, uint8(KeyB), vm.Register(3))
	assert.Equal(t, ProgramStart+2, vm.PC())
	assert.False(t, vm.Waiting())
}

func TestKeySkips(t *testing.T) {
	tests := []struct {
		name    string
		program []uint16
		pressed []Key
		pc      uint16
	}{
		{"skpr pressed", []uint16{0x6107, 0xE19E}, []Key{Key7}, 0x206},
		{"skpr released", []uint16{0x6107, 0xE19E}, nil, 0x204},
		{"skup pressed", []uint16{0x6107, 0xE1A1}, []Key{Key7}, 0x204},
		{"skup released", []uint16{0x6107, 0xE1A1}, []Key{Key6}, 0x206},
		{"skpr out of range key", []uint16{0x6120, 0xE19E}, []Key{Key0}, 0x204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, tt.program...)
			k := &fakeKeypad{}
			for _, key := range tt.pressed {
				k.keys[key] = true
			}
			run(t, vm, newFakeDisplay(), k, len(tt.program))
			assert.Equal(t, tt.pc, vm.PC())
		})
	}
}

func TestMemoryInstructions(t *testing.T) {
	d, k := newFakeDisplay(), &fakeKeypad{}

	t.Run("bcd", func(t *testing.T) {
		vm := newTestVM(t, 0x61FE, 0xA300, 0xF133)
		run(t, vm, d, k, 3)
		assert.Equal(t, []uint8{2, 5, 4}, vm.memory[0x300:0x303])
	})

	t.Run("dump and load", func(t *testing.T) {
		vm := newTestVM(t, 0x6011, 0x6122, 0x6233, 0x6344, 0xA300, 0xF255, 0x6000, 0x6100, 0x6200, 0xF265)
		run(t, vm, d, k, 10)
		assert.Equal(t, []uint8{0x11, 0x22, 0x33, 0x00}, vm.memory[0x300:0x304])
		assert.Equal(t, uint8(0x11), vm.Register(0))
		assert.Equal(t, uint8(0x22), vm.Register(1))
		assert.Equal(t, uint8(0x33), vm.Register(2))
		assert.Equal(t, uint8(0x44), vm.Register(3))
		assert.Equal(t, uint16(0x300), vm.Index())
	})

	t.Run("add to index", func(t *testing.T) {
		vm := newTestVM(t, 0x6F07, 0x6110, 0xAFFF, 0xF11E)
		run(t, vm, d, k, 4)
		assert.Equal(t, uint16(0x100F), vm.Index())
		assert.Equal(t, uint8(0x07), vm.Register(FlagRegister))
	})

	t.Run("font", func(t *testing.T) {
		vm := newTestVM(t, 0x610A, 0xF129)
		run(t, vm, d, k, 2)
		assert.Equal(t, uint16(0x0A*GlyphSize), vm.Index())
	})

	t.Run("font highest index", func(t *testing.T) {
		vm := newTestVM(t, 0x6110, 0xF129)
		run(t, vm, d, k, 2)
		assert.Equal(t, uint16(80), vm.Index())
	})

	t.Run("rand masked", func(t *testing.T) {
		vm := newTestVM(t)
		for i := 0; i < 100; i++ {
			require.NoError(t, vm.execute(Rand{Register: 4, Mask: 0x0F}, d, k))
			assert.LessOrEqual(t, vm.Register(4), uint8(0x0F))
		}
	})

	t.Run("rand seeded", func(t *testing.T) {
		a, err := New(nil, WithLogger(quietLogger()), WithRand(rand.New(rand.NewPCG(7, 7))))
		require.NoError(t, err)
		b, err := New(nil, WithLogger(quietLogger()), WithRand(rand.New(rand.NewPCG(7, 7))))
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			require.NoError(t, a.execute(Rand{Register: 1, Mask: 0xFF}, d, k))
			require.NoError(t, b.execute(Rand{Register: 1, Mask: 0xFF}, d, k))
			assert.Equal(t, a.Register(1), b.Register(1))
		}
	})
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		program  []uint16
		cycles   int
		expected error
	}{
		{"unknown opcode", []uint16{0xFFFF}, 1, ErrUnknownOpcode},
		{"return on empty stack", []uint16{0x00EE}, 1, ErrStackUnderflow},
		{"font index", []uint16{0x6111, 0xF129}, 2, ErrInvalidFontIndex},
		{"fetch past memory", []uint16{0x1FFF}, 2, ErrMemoryOutOfRange},
		{"stack overflow", []uint16{0x2200}, StackSize + 1, ErrMemoryOutOfRange},
		{"bcd past memory", []uint16{0xAFFE, 0xF033}, 2, ErrMemoryOutOfRange},
		{"dump past memory", []uint16{0xAFFC, 0xF455}, 2, ErrMemoryOutOfRange},
		{"load past memory", []uint16{0xAFFF, 0xF165}, 2, ErrMemoryOutOfRange},
		{"sprite past memory", []uint16{0xAFFD, 0xD004}, 2, ErrMemoryOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, tt.program...)
			d, k := newFakeDisplay(), &fakeKeypad{}

			var err error
			for i := 0; i < tt.cycles && err == nil; i++ {
				err = vm.Cycle(d, k)
			}
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestErrors_NoPartialWrite(t *testing.T) {
	vm := newTestVM(t, 0x6001, 0x6102, 0xAFFE, 0xF255)
	d, k := newFakeDisplay(), &fakeKeypad{}
	run(t, vm, d, k, 3)

	err := vm.Cycle(d, k)
	require.ErrorIs(t, err, ErrMemoryOutOfRange)
	assert.Equal(t, uint8(0), vm.Peek(0xFFE))
	assert.Equal(t, uint8(0), vm.Peek(0xFFF))
}
