package cpu

// Instructions that need more than a line in opCodeParser. The program
// counter has already been advanced past the current instruction when any
// of these run.

// 00E0 - CLS
func (emu *EMU) cls() {
	emu.clearDisplay()
}

// 00EE - RET
func (emu *EMU) ret(addr uint16) error {
	if emu.sp == 0 {
		emu.pc = addr
		return &StackError{Err: ErrStackUnderflow, Address: addr}
	}
	emu.sp--
	emu.pc = emu.stack[emu.sp]
	return nil
}

// 1nnn - JP addr, and Bnnn - JP V0, addr
func (emu *EMU) jp(target uint16) {
	emu.pc = target & addrMask
}

// 2nnn - CALL addr
func (emu *EMU) call(addr, target uint16) error {
	if emu.sp == stackSize {
		emu.pc = addr
		return &StackError{Err: ErrStackOverflow, Address: addr}
	}
	emu.stack[emu.sp] = emu.pc
	emu.sp++
	emu.pc = target & addrMask
	return nil
}

// skipIf steps over the next instruction when cond holds. Used by SE, SNE,
// SKP and SKNP.
func (emu *EMU) skipIf(cond bool) {
	if cond {
		emu.pc = (emu.pc + 2) & addrMask
	}
}

// 8xy4 - ADD Vx, Vy
// VF = carry.
func (emu *EMU) addVxVy(x, y uint8) {
	sum := uint16(emu.V[x]) + uint16(emu.V[y])
	emu.V[x] = uint8(sum)
	emu.V[0xF] = uint8(sum >> 8)
}

// 8xy5 - SUB Vx, Vy
// VF = NOT borrow.
func (emu *EMU) subVxVy(x, y uint8) {
	flag := boolToFlag(emu.V[x] >= emu.V[y])
	emu.V[x] -= emu.V[y]
	emu.V[0xF] = flag
}

// 8xy6 - SHR Vx
// VF = the bit shifted out.
func (emu *EMU) shrVx(x uint8) {
	flag := emu.V[x] & 0x01
	emu.V[x] >>= 1
	emu.V[0xF] = flag
}

// 8xy7 - SUBN Vx, Vy
// Vx = Vy - Vx, VF = NOT borrow.
func (emu *EMU) subnVxVy(x, y uint8) {
	flag := boolToFlag(emu.V[y] >= emu.V[x])
	emu.V[x] = emu.V[y] - emu.V[x]
	emu.V[0xF] = flag
}

// 8xyE - SHL Vx
// VF = the bit shifted out.
func (emu *EMU) shlVx(x uint8) {
	flag := (emu.V[x] >> 7) & 0x01
	emu.V[x] <<= 1
	emu.V[0xF] = flag
}

// Dxyn - DRW Vx, Vy, nibble
// VF = collision.
func (emu *EMU) drw(x, y uint8, n uint16) {
	emu.V[0xF] = boolToFlag(emu.drawSprite(emu.V[x], emu.V[y], n))
}

// Fx0A - LD Vx, K
// With no key down the instruction is fetched again on the next cycle, so
// the caller keeps rendering and polling input while the program waits.
func (emu *EMU) waitKey(x uint8) {
	key, ok := emu.lowestPressed()
	if !ok {
		emu.pc = (emu.pc - 2) & addrMask
		return
	}
	emu.V[x] = key
}

// Fx33 - LD B, Vx
func (emu *EMU) bcd(x uint8) {
	v := emu.V[x]
	emu.memory[emu.I&addrMask] = v / 100
	emu.memory[(emu.I+1)&addrMask] = (v / 10) % 10
	emu.memory[(emu.I+2)&addrMask] = v % 10
}

// Fx55 - LD [I], Vx
// V0 through Vx inclusive. I is left unchanged.
func (emu *EMU) storeRegisters(x uint8) {
	for r := uint16(0); r <= uint16(x); r++ {
		emu.memory[(emu.I+r)&addrMask] = emu.V[r]
	}
}

// Fx65 - LD Vx, [I]
func (emu *EMU) loadRegisters(x uint8) {
	for r := uint16(0); r <= uint16(x); r++ {
		emu.V[r] = emu.memory[(emu.I+r)&addrMask]
	}
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
