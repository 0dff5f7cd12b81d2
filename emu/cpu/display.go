package cpu

import "fmt"

const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// PixelAt reports whether the pixel at column x, row y is lit. Row 0 is the
// top of the screen. It panics if the coordinates are off screen.
func (emu *EMU) PixelAt(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		panic(fmt.Sprintf("cpu: pixel (%d, %d) outside %dx%d display", x, y, DisplayWidth, DisplayHeight))
	}
	return emu.display[y*DisplayWidth+x]
}

func (emu *EMU) clearDisplay() {
	emu.display = [DisplayWidth * DisplayHeight]bool{}
}

// drawSprite XORs an n byte sprite read from I onto the display at (x, y),
// wrapping at the edges. It returns true if any lit pixel was turned off.
func (emu *EMU) drawSprite(x, y uint8, n uint16) bool {
	collision := false

	for row := uint16(0); row < n; row++ {
		sprite := emu.memory[(emu.I+row)&addrMask]
		py := (int(y) + int(row)) % DisplayHeight

		for col := 0; col < 8; col++ {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % DisplayWidth

			idx := py*DisplayWidth + px
			if emu.display[idx] {
				collision = true
			}
			emu.display[idx] = !emu.display[idx]
		}
	}

	return collision
}
