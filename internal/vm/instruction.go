package vm

import "fmt"

// Instruction is a decoded instruction word. The set of implementations is
// closed: only the types in this file satisfy it.
type Instruction interface {
	fmt.Stringer
	instruction()
}

type (
	// 0NNN	sys xxx	machine code routine, executed as a no-op
	NativeCall struct{ Address uint16 }

	// 00E0	cls	clear the screen
	ClearScreen struct{}

	// 00EE	rts	return from subroutine call
	Return struct{}

	// 1NNN	jmp xxx	jump to address xxx
	Jump struct{ Address uint16 }

	// 2NNN	jsr xxx	jump to subroutine at address xxx
	Call struct{ Address uint16 }

	// 3XNN	skeq vr,xx	skip if register r = constant
	SkipEqualConst struct{ Register, Value uint8 }

	// 4XNN	skne vr,xx	skip if register r <> constant
	SkipNotEqualConst struct{ Register, Value uint8 }

	// 5XY0	skeq vr,vy	skip if register r = register y
	SkipEqualRegister struct{ A, B uint8 }

	// 6XNN	mov vr,xx	move constant to register r
	SetConst struct{ Register, Value uint8 }

	// 7XNN	add vr,xx	add constant to register r, no carry generated
	AddConst struct{ Register, Value uint8 }

	// 8XY0	mov vr,vy	move register vy into vr
	SetRegister struct{ Dest, Src uint8 }

	// 8XY1	or vr,vy	or register vy into register vr
	Or struct{ A, B uint8 }

	// 8XY2	and vr,vy	and register vy into register vr
	And struct{ A, B uint8 }

	// 8XY3	xor vr,vy	exclusive or register vy into register vr
	Xor struct{ A, B uint8 }

	// 8XY4	add vr,vy	add register vy to vr, carry in vf
	Add struct{ A, B uint8 }

	// 8XY5	sub vr,vy	subtract register vy from vr, vf = 1 if no borrow
	Sub struct{ A, B uint8 }

	// 8X06	shr vr	shift register vr right, bit 0 goes into vf
	ShiftRight struct{ Register uint8 }

	// 8XY7	rsb vr,vy	vr = vy - vr, vf = 1 if no borrow
	ReverseSub struct{ A, B uint8 }

	// 8X0E	shl vr	shift register vr left, bit 7 goes into vf
	ShiftLeft struct{ Register uint8 }

	// 9XY0	skne vr,vy	skip if register r <> register y
	SkipNotEqualRegister struct{ A, B uint8 }

	// ANNN	mvi xxx	load index register with constant xxx
	SetI struct{ Address uint16 }

	// BNNN	jmi xxx	jump to address xxx + register v0
	JumpOffset struct{ Address uint16 }

	// CXNN	rand vr,xx	vr = random byte masked by xx
	Rand struct{ Register, Mask uint8 }

	// DXYN	sprite vr,vy,n	draw n rows of the sprite at I at (vr, vy), vf = collision
	Draw struct{ X, Y, Height uint8 }

	// EX9E	skpr vr	skip if the key in register r is pressed
	SkipPressed struct{ Register uint8 }

	// EXA1	skup vr	skip if the key in register r is not pressed
	SkipNotPressed struct{ Register uint8 }

	// FX07	gdelay vr	get delay timer into vr
	GetTimer struct{ Register uint8 }

	// FX0A	key vr	wait for a keypress, put key in register vr
	AwaitInput struct{ Register uint8 }

	// FX15	sdelay vr	set the delay timer to vr
	SetTimer struct{ Register uint8 }

	// FX18	ssound vr	set the sound timer to vr
	SetSound struct{ Register uint8 }

	// FX1E	adi vr	add register vr to the index register
	AddToI struct{ Register uint8 }

	// FX29	font vr	point I to the glyph for the hex digit in vr
	SetIToFontChar struct{ Register uint8 }

	// FX33	bcd vr	store the bcd representation of vr at I, I+1, I+2
	BinaryCodedDecimal struct{ Register uint8 }

	// FX55	str v0-vr	store registers v0-vr at I onwards
	RegisterDump struct{ Register uint8 }

	// FX65	ldr v0-vr	load registers v0-vr from I onwards
	RegisterLoad struct{ Register uint8 }
)

func (NativeCall) instruction()           {}
func (ClearScreen) instruction()          {}
func (Return) instruction()               {}
func (Jump) instruction()                 {}
func (Call) instruction()                 {}
func (SkipEqualConst) instruction()       {}
func (SkipNotEqualConst) instruction()    {}
func (SkipEqualRegister) instruction()    {}
func (SetConst) instruction()             {}
func (AddConst) instruction()             {}
func (SetRegister) instruction()          {}
func (Or) instruction()                   {}
func (And) instruction()                  {}
func (Xor) instruction()                  {}
func (Add) instruction()                  {}
func (Sub) instruction()                  {}
func (ShiftRight) instruction()           {}
func (ReverseSub) instruction()           {}
func (ShiftLeft) instruction()            {}
func (SkipNotEqualRegister) instruction() {}
func (SetI) instruction()                 {}
func (JumpOffset) instruction()           {}
func (Rand) instruction()                 {}
func (Draw) instruction()                 {}
func (SkipPressed) instruction()          {}
func (SkipNotPressed) instruction()       {}
func (GetTimer) instruction()             {}
func (AwaitInput) instruction()           {}
func (SetTimer) instruction()             {}
func (SetSound) instruction()             {}
func (AddToI) instruction()               {}
func (SetIToFontChar) instruction()       {}
func (BinaryCodedDecimal) instruction()   {}
func (RegisterDump) instruction()         {}
func (RegisterLoad) instruction()         {}

func (in NativeCall) String() string { return fmt.Sprintf("sys 0x%04x", in.Address) }
func (ClearScreen) String() string     { return "cls" }
func (Return) String() string          { return "rts" }
func (in Jump) String() string         { return fmt.Sprintf("jmp 0x%04x", in.Address) }
func (in Call) String() string         { return fmt.Sprintf("jsr 0x%04x", in.Address) }

func (in SkipEqualConst) String() string {
	return fmt.Sprintf("skeq v%x, %d", in.Register, in.Value)
}

func (in SkipNotEqualConst) String() string {
	return fmt.Sprintf("skne v%x, %d", in.Register, in.Value)
}

func (in SkipEqualRegister) String() string { return fmt.Sprintf("skeq v%x, v%x", in.A, in.B) }
func (in SetConst) String() string          { return fmt.Sprintf("mov v%x, %d", in.Register, in.Value) }
func (in AddConst) String() string          { return fmt.Sprintf("add v%x, %d", in.Register, in.Value) }
func (in SetRegister) String() string       { return fmt.Sprintf("mov v%x, v%x", in.Dest, in.Src) }
func (in Or) String() string                { return fmt.Sprintf("or v%x, v%x", in.A, in.B) }
func (in And) String() string               { return fmt.Sprintf("and v%x, v%x", in.A, in.B) }
func (in Xor) String() string               { return fmt.Sprintf("xor v%x, v%x", in.A, in.B) }
func (in Add) String() string               { return fmt.Sprintf("add v%x, v%x", in.A, in.B) }
func (in Sub) String() string               { return fmt.Sprintf("sub v%x, v%x", in.A, in.B) }
func (in ShiftRight) String() string        { return fmt.Sprintf("shr v%x", in.Register) }
func (in ReverseSub) String() string        { return fmt.Sprintf("rsb v%x, v%x", in.A, in.B) }
func (in ShiftLeft) String() string         { return fmt.Sprintf("shl v%x", in.Register) }

func (in SkipNotEqualRegister) String() string {
	return fmt.Sprintf("skne v%x, v%x", in.A, in.B)
}

func (in SetI) String() string       { return fmt.Sprintf("mvi 0x%04x", in.Address) }
func (in JumpOffset) String() string { return fmt.Sprintf("jmi 0x%04x", in.Address) }
func (in Rand) String() string       { return fmt.Sprintf("rand v%x, %d", in.Register, in.Mask) }

func (in Draw) String() string {
	return fmt.Sprintf("sprite v%x, v%x, %d", in.X, in.Y, in.Height)
}

func (in SkipPressed) String() string        { return fmt.Sprintf("skpr v%x", in.Register) }
func (in SkipNotPressed) String() string     { return fmt.Sprintf("skup v%x", in.Register) }
func (in GetTimer) String() string           { return fmt.Sprintf("gdelay v%x", in.Register) }
func (in AwaitInput) String() string         { return fmt.Sprintf("key v%x", in.Register) }
func (in SetTimer) String() string           { return fmt.Sprintf("sdelay v%x", in.Register) }
func (in SetSound) String() string           { return fmt.Sprintf("ssound v%x", in.Register) }
func (in AddToI) String() string             { return fmt.Sprintf("adi v%x", in.Register) }
func (in SetIToFontChar) String() string     { return fmt.Sprintf("font v%x", in.Register) }
func (in BinaryCodedDecimal) String() string { return fmt.Sprintf("bcd v%x", in.Register) }
func (in RegisterDump) String() string       { return fmt.Sprintf("str v0-v%x", in.Register) }
func (in RegisterLoad) String() string       { return fmt.Sprintf("ldr v0-v%x", in.Register) }
