package cpu

import "fmt"

// Disassemble returns the assembly mnemonic for a single instruction word,
// eg. "LD V3, $0A" or "DRW V0, V1, $5". Words that aren't instructions are
// rendered as a data word, "DW $FFFF".
func Disassemble(opcode uint16) string {
	n := opcode & 0x000F
	x := (opcode & 0x0F00) >> 8
	y := (opcode & 0x00F0) >> 4
	kk := opcode & 0x00FF
	nnn := opcode & 0x0FFF

	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
		return fmt.Sprintf("SYS $%03X", nnn)
	case 0x1000:
		return fmt.Sprintf("JP $%03X", nnn)
	case 0x2000:
		return fmt.Sprintf("CALL $%03X", nnn)
	case 0x3000:
		return fmt.Sprintf("SE V%X, $%02X", x, kk)
	case 0x4000:
		return fmt.Sprintf("SNE V%X, $%02X", x, kk)
	case 0x5000:
		if n == 0 {
			return fmt.Sprintf("SE V%X, V%X", x, y)
		}
	case 0x6000:
		return fmt.Sprintf("LD V%X, $%02X", x, kk)
	case 0x7000:
		return fmt.Sprintf("ADD V%X, $%02X", x, kk)
	case 0x8000:
		if name, ok := aluNames[n]; ok {
			if n == 0x6 || n == 0xE {
				return fmt.Sprintf("%s V%X", name, x)
			}
			return fmt.Sprintf("%s V%X, V%X", name, x, y)
		}
	case 0x9000:
		if n == 0 {
			return fmt.Sprintf("SNE V%X, V%X", x, y)
		}
	case 0xA000:
		return fmt.Sprintf("LD I, $%03X", nnn)
	case 0xB000:
		return fmt.Sprintf("JP V0, $%03X", nnn)
	case 0xC000:
		return fmt.Sprintf("RND V%X, $%02X", x, kk)
	case 0xD000:
		return fmt.Sprintf("DRW V%X, V%X, $%X", x, y, n)
	case 0xE000:
		switch kk {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		}
	case 0xF000:
		if format, ok := miscFormats[kk]; ok {
			return fmt.Sprintf(format, x)
		}
	}

	return fmt.Sprintf("DW $%04X", opcode)
}

// 8xy_ family, keyed by the low nibble
var aluNames = map[uint16]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

// Fx__ family, keyed by the low byte
var miscFormats = map[uint16]string{
	0x07: "LD V%X, DT",
	0x0A: "LD V%X, K",
	0x15: "LD DT, V%X",
	0x18: "LD ST, V%X",
	0x1E: "ADD I, V%X",
	0x29: "LD F, V%X",
	0x33: "LD B, V%X",
	0x55: "LD [I], V%X",
	0x65: "LD V%X, [I]",
}

// Trace returns the address and mnemonic of the instruction that the next
// call to EmulateCycle will execute.
func (emu *EMU) Trace() (uint16, string) {
	return emu.pc, Disassemble(emu.fetch(emu.pc))
}
