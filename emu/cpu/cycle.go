package cpu

// EmulateCycle fetches, decodes and executes one instruction. A non-nil
// error is fatal to the session: either a *DecodeError or a *StackError.
// A *StackError leaves the machine exactly as it was before the call.
func (emu *EMU) EmulateCycle() error {
	addr := emu.pc
	emu.opcode = emu.fetch(addr)
	emu.pc = (addr + 2) & addrMask

	return emu.opCodeParser(addr)
}

// fetch reads the big-endian instruction word at addr.
func (emu *EMU) fetch(addr uint16) uint16 {
	hi := uint16(emu.memory[addr&addrMask])
	lo := uint16(emu.memory[(addr+1)&addrMask])
	return hi<<8 | lo
}

// opCodeParser decodes emu.opcode and executes it. addr is where the opcode
// was fetched from and is only used for error reporting.
func (emu *EMU) opCodeParser(addr uint16) error {
	n := emu.opcode & 0x000F
	x := uint8((emu.opcode & 0x0F00) >> 8)
	y := uint8((emu.opcode & 0x00F0) >> 4)
	kk := uint8(emu.opcode & 0x00FF)
	nnn := emu.opcode & 0x0FFF

	switch emu.opcode & 0xF000 {
	case 0x0000:
		switch emu.opcode {
		case 0x00E0:
			emu.cls()
		case 0x00EE:
			return emu.ret(addr)
		default:
			// 0nnn SYS addr jumps to native code on the COSMAC VIP
			// interpreters and can't be emulated
			return emu.opCodeError(addr)
		}
	case 0x1000:
		emu.jp(nnn)
	case 0x2000:
		return emu.call(addr, nnn)
	case 0x3000:
		emu.skipIf(emu.V[x] == kk)
	case 0x4000:
		emu.skipIf(emu.V[x] != kk)
	case 0x5000:
		if n != 0 {
			return emu.opCodeError(addr)
		}
		emu.skipIf(emu.V[x] == emu.V[y])
	case 0x6000:
		emu.V[x] = kk
	case 0x7000:
		// no carry flag
		emu.V[x] += kk
	case 0x8000:
		switch n {
		case 0x0:
			emu.V[x] = emu.V[y]
		case 0x1:
			emu.V[x] |= emu.V[y]
		case 0x2:
			emu.V[x] &= emu.V[y]
		case 0x3:
			emu.V[x] ^= emu.V[y]
		case 0x4:
			emu.addVxVy(x, y)
		case 0x5:
			emu.subVxVy(x, y)
		case 0x6:
			emu.shrVx(x)
		case 0x7:
			emu.subnVxVy(x, y)
		case 0xE:
			emu.shlVx(x)
		default:
			return emu.opCodeError(addr)
		}
	case 0x9000:
		if n != 0 {
			return emu.opCodeError(addr)
		}
		emu.skipIf(emu.V[x] != emu.V[y])
	case 0xA000:
		emu.I = nnn
	case 0xB000:
		emu.jp(nnn + uint16(emu.V[0]))
	case 0xC000:
		emu.V[x] = kk & emu.rand.Byte()
	case 0xD000:
		emu.drw(x, y, n)
	case 0xE000:
		switch kk {
		case 0x9E:
			emu.skipIf(emu.IsPressed(emu.V[x] & 0x0F))
		case 0xA1:
			emu.skipIf(!emu.IsPressed(emu.V[x] & 0x0F))
		default:
			return emu.opCodeError(addr)
		}
	case 0xF000:
		switch kk {
		case 0x07:
			emu.V[x] = emu.delayTimer
		case 0x0A:
			emu.waitKey(x)
		case 0x15:
			emu.delayTimer = emu.V[x]
		case 0x18:
			emu.soundTimer = emu.V[x]
		case 0x1E:
			emu.I += uint16(emu.V[x])
		case 0x29:
			emu.I = glyphSize * uint16(emu.V[x])
		case 0x33:
			emu.bcd(x)
		case 0x55:
			emu.storeRegisters(x)
		case 0x65:
			emu.loadRegisters(x)
		default:
			return emu.opCodeError(addr)
		}
	}

	return nil
}

func (emu *EMU) opCodeError(addr uint16) error {
	return &DecodeError{Opcode: emu.opcode, Address: addr}
}
