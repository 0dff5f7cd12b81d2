package cpu

import "fmt"

// Press marks key as held down. Pressing a key that is already down is
// allowed.
func (emu *EMU) Press(key uint8) error {
	if key >= keyCount {
		return fmt.Errorf("%w: %#x", ErrInvalidKey, key)
	}
	emu.keyState[key] = true
	return nil
}

// Release marks key as up. The key must currently be pressed.
func (emu *EMU) Release(key uint8) error {
	if key >= keyCount {
		return fmt.Errorf("%w: %#x", ErrInvalidKey, key)
	}
	if !emu.keyState[key] {
		return fmt.Errorf("%w: %#x", ErrKeyNotPressed, key)
	}
	emu.keyState[key] = false
	return nil
}

// IsPressed reports whether key is currently down. Out of range keys are
// never pressed.
func (emu *EMU) IsPressed(key uint8) bool {
	return key < keyCount && emu.keyState[key]
}

// lowestPressed returns the lowest numbered key that is down.
func (emu *EMU) lowestPressed() (uint8, bool) {
	for k, down := range emu.keyState {
		if down {
			return uint8(k), true
		}
	}
	return 0, false
}
