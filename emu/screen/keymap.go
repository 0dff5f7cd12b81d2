package screen

import "github.com/faiface/pixel/pixelgl"

// DefaultKeyMap puts the COSMAC VIP hex keypad on the left of a QWERTY
// keyboard.
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  =>  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
func DefaultKeyMap() map[pixelgl.Button]uint8 {
	return map[pixelgl.Button]uint8{
		pixelgl.Key1: 0x1, pixelgl.Key2: 0x2, pixelgl.Key3: 0x3, pixelgl.Key4: 0xC,
		pixelgl.KeyQ: 0x4, pixelgl.KeyW: 0x5, pixelgl.KeyE: 0x6, pixelgl.KeyR: 0xD,
		pixelgl.KeyA: 0x7, pixelgl.KeyS: 0x8, pixelgl.KeyD: 0x9, pixelgl.KeyF: 0xE,
		pixelgl.KeyZ: 0xA, pixelgl.KeyX: 0x0, pixelgl.KeyC: 0xB, pixelgl.KeyV: 0xF,
	}
}
