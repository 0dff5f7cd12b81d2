// Package terminal is a text mode frontend built on termbox. Every CHIP-8
// pixel is drawn as two character cells so the picture keeps its aspect
// ratio.
package terminal

import (
	"fmt"
	"sync"
	"time"
	"unicode"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/runner"
	termbox "github.com/nsf/termbox-go"
)

// Terminals only report key presses, so a key is released when no repeat
// has arrived for this long.
const keyRepeatDuration = time.Second / 5

// Terminal implements runner.Frontend.
type Terminal struct {
	KeyMap map[rune]uint8

	events chan termbox.Event
	wg     sync.WaitGroup

	// termbox entry points, replaced in tests
	pollEvent func() termbox.Event
	interrupt func()
	shutdown  func()

	pressed   [16]bool
	releaseAt [16]time.Time
	now       func() time.Time
}

func newTerminal() *Terminal {
	return &Terminal{
		KeyMap: DefaultKeyMap(),
		events: make(chan termbox.Event, 64),
		now:    time.Now,

		pollEvent: termbox.PollEvent,
		interrupt: termbox.Interrupt,
		shutdown:  termbox.Close,
	}
}

// Open takes over the terminal. Close must be called to restore it.
func Open() (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initialising terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)

	t := newTerminal()
	t.start()

	return t, nil
}

func (t *Terminal) start() {
	t.wg.Add(1)
	go t.readEvents()
}

// readEvents forwards events until Close interrupts pollEvent. It only
// exits on the interrupt, so Interrupt always has a receiver.
func (t *Terminal) readEvents() {
	defer t.wg.Done()
	for {
		ev := t.pollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		t.events <- ev
	}
}

// Close stops the event reader and restores the terminal. Pending events
// are discarded so the reader is never stuck on a full channel.
func (t *Terminal) Close() {
	stopped := make(chan struct{})
	go func() {
		t.interrupt()
		t.wg.Wait()
		close(stopped)
	}()

	for {
		select {
		case <-t.events:
		case <-stopped:
			t.shutdown()
			return
		}
	}
}

// PollInput drains pending events without blocking. Esc and Ctrl-C quit.
func (t *Terminal) PollInput(k runner.Keypad) (bool, error) {
	now := t.now()

	for {
		select {
		case ev := <-t.events:
			switch ev.Type {
			case termbox.EventError:
				return false, fmt.Errorf("terminal: %w", ev.Err)
			case termbox.EventKey:
				if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC {
					return true, nil
				}
				key, ok := t.KeyMap[unicode.ToLower(ev.Ch)]
				if !ok {
					continue
				}
				if err := t.hold(k, key, now); err != nil {
					return false, err
				}
			}
		default:
			return false, t.expire(k, now)
		}
	}
}

// hold presses key if needed and pushes back its automatic release.
func (t *Terminal) hold(k runner.Keypad, key uint8, now time.Time) error {
	if !t.pressed[key] {
		if err := k.Press(key); err != nil {
			return err
		}
		t.pressed[key] = true
	}
	t.releaseAt[key] = now.Add(keyRepeatDuration)
	return nil
}

// expire releases every key whose repeat window has passed.
func (t *Terminal) expire(k runner.Keypad, now time.Time) error {
	for key := range t.pressed {
		if !t.pressed[key] || now.Before(t.releaseAt[key]) {
			continue
		}
		if err := k.Release(uint8(key)); err != nil {
			return err
		}
		t.pressed[key] = false
	}
	return nil
}

// Render redraws the whole display.
func (t *Terminal) Render(d runner.Display) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}

	for y := 0; y < cpu.DisplayHeight; y++ {
		for x := 0; x < cpu.DisplayWidth; x++ {
			if d.PixelAt(x, y) {
				termbox.SetCell(2*x, y, ' ', termbox.ColorDefault, termbox.ColorWhite)
				termbox.SetCell(2*x+1, y, ' ', termbox.ColorDefault, termbox.ColorWhite)
			}
		}
	}

	return termbox.Flush()
}

// DefaultKeyMap is the usual QWERTY layout for the hex keypad.
func DefaultKeyMap() map[rune]uint8 {
	return map[rune]uint8{
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	}
}
