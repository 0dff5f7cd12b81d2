package screen

import (
	"fmt"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/runner"
	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"
)

// Window is a pixelgl frontend for the runner. It must be created and used
// from inside pixelgl.Run.
type Window struct {
	*pixelgl.Window
	KeyMap map[pixelgl.Button]uint8

	scale   float64
	imd     *imdraw.IMDraw
	pressed [16]bool
}

// NewWindow opens a window scale times the size of the CHIP-8 display.
func NewWindow(title string, scale float64) (*Window, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid window scale %v", scale)
	}

	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, cpu.DisplayWidth*scale, cpu.DisplayHeight*scale),
		VSync:  true,
	}

	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	return &Window{
		Window: win,
		KeyMap: DefaultKeyMap(),
		scale:  scale,
		imd:    imdraw.New(nil),
	}, nil
}

// buttons is the part of *pixelgl.Window that key tracking reads.
type buttons interface {
	Pressed(button pixelgl.Button) bool
}

// PollInput reports quit when the window is closed or Escape is held.
func (w *Window) PollInput(k runner.Keypad) (bool, error) {
	if w.Closed() || w.Pressed(pixelgl.KeyEscape) {
		return true, nil
	}

	return false, w.syncKeys(k, w.Window)
}

// syncKeys forwards key state level triggered. A key is only released if
// this window pressed it.
func (w *Window) syncKeys(k runner.Keypad, in buttons) error {
	for btn, key := range w.KeyMap {
		down := in.Pressed(btn)
		switch {
		case down && !w.pressed[key]:
			if err := k.Press(key); err != nil {
				return err
			}
			w.pressed[key] = true
		case !down && w.pressed[key]:
			if err := k.Release(key); err != nil {
				return err
			}
			w.pressed[key] = false
		}
	}

	return nil
}

// Render draws every lit pixel as a filled square and swaps buffers. The
// CHIP-8 origin is top left, pixel's is bottom left.
func (w *Window) Render(d runner.Display) error {
	w.Clear(colornames.Black)
	w.imd.Clear()
	w.imd.Color = colornames.White

	for y := 0; y < cpu.DisplayHeight; y++ {
		for x := 0; x < cpu.DisplayWidth; x++ {
			if !d.PixelAt(x, y) {
				continue
			}
			corner := pixel.V(float64(x)*w.scale, float64(cpu.DisplayHeight-1-y)*w.scale)
			w.imd.Push(corner, corner.Add(pixel.V(w.scale, w.scale)))
			w.imd.Rectangle(0)
		}
	}

	w.imd.Draw(w)
	w.Update()

	return nil
}
