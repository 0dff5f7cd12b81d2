package cpu

import "fmt"

const (
	memorySize = 4096
	addrMask   = memorySize - 1

	// ProgramStart is where ROMs are loaded and where execution begins.
	ProgramStart = 0x200

	// MaxROMSize is the number of bytes available between ProgramStart and
	// the end of memory.
	MaxROMSize = memorySize - ProgramStart

	registerCount = 16
	stackSize     = 16
	keyCount      = 16

	// font glyphs are 5 bytes each, stored from address 0
	glyphSize = 5
)

// FontSet holds the sixteen hexadecimal digit sprites, 0 through F.
var FontSet = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// EMU is the complete state of one CHIP-8 session. The zero value is not
// usable, create one with NewEMU.
type EMU struct {
	opcode     uint16
	memory     [memorySize]uint8
	V          [registerCount]uint8
	I          uint16 //address register
	pc         uint16
	display    [DisplayWidth * DisplayHeight]bool
	delayTimer uint8 //counts down at 60Hz
	soundTimer uint8 //same as above
	stack      [stackSize]uint16
	sp         uint16
	keyState   [keyCount]bool //tells whether key is pressed or not
	romLoaded  bool
	rand       ByteSource
}

// NewEMU returns a machine with the font loaded and the program counter at
// ProgramStart. rand supplies the bytes for the RND instruction; a nil
// source is replaced by a time seeded one.
func NewEMU(rand ByteSource) *EMU {
	if rand == nil {
		rand = NewRandSource(0)
	}

	emu := &EMU{
		pc:   ProgramStart,
		rand: rand,
	}
	emu.loadFont()

	return emu
}

func (emu *EMU) loadFont() {
	copy(emu.memory[:], FontSet[:])
}

// LoadROM copies a raw program image into memory at ProgramStart. It can
// only be called once per machine.
func (emu *EMU) LoadROM(rom []byte) error {
	if emu.romLoaded {
		return ErrROMLoaded
	}
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, can't cross %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}

	copy(emu.memory[ProgramStart:], rom)
	emu.romLoaded = true

	return nil
}

// Tick decrements the delay and sound timers. It must be called at 60Hz,
// independent of how many instructions are executed.
func (emu *EMU) Tick() {
	if emu.delayTimer > 0 {
		emu.delayTimer--
	}
	if emu.soundTimer > 0 {
		emu.soundTimer--
	}
}

// PC returns the address of the next instruction to be fetched.
func (emu *EMU) PC() uint16 {
	return emu.pc
}

// DelayTimer returns the current value of the delay timer.
func (emu *EMU) DelayTimer() uint8 {
	return emu.delayTimer
}

// SoundTimer returns the current value of the sound timer. A nonzero value
// means the buzzer should be sounding.
func (emu *EMU) SoundTimer() uint8 {
	return emu.soundTimer
}

// StackDepth returns the number of return addresses on the call stack.
func (emu *EMU) StackDepth() int {
	return int(emu.sp)
}

// Memory returns the byte at addr, wrapping at the top of memory.
func (emu *EMU) Memory(addr uint16) uint8 {
	return emu.memory[addr&addrMask]
}
