// Package runner drives a CHIP-8 machine in real time. Each frame it polls
// the frontend for input, executes a fixed number of instructions, ticks the
// timers once and renders the display.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Keypad is the input side of the machine.
type Keypad interface {
	Press(key uint8) error
	Release(key uint8) error
}

// Display is the output side of the machine.
type Display interface {
	PixelAt(x, y int) bool
}

// Machine is everything the runner needs from the emulated CPU.
type Machine interface {
	Keypad
	Display
	EmulateCycle() error
	Tick()
	Trace() (uint16, string)
}

// Frontend presents the display and collects key presses. Both methods are
// called from the goroutine running the Runner.
type Frontend interface {
	// PollInput forwards pending key events to the keypad. It returns true
	// when the user asked to quit.
	PollInput(k Keypad) (bool, error)
	Render(d Display) error
}

// Config controls the speed of the emulation.
type Config struct {
	// RefreshRate is the number of frames per second. The timers tick once
	// per frame so 60 gives them their intended speed.
	RefreshRate int

	// CyclesPerFrame is the number of instructions executed per frame.
	CyclesPerFrame int
}

// DefaultConfig runs at 600 instructions per second.
var DefaultConfig = Config{
	RefreshRate:    60,
	CyclesPerFrame: 10,
}

// ErrInvalidConfig is returned by New for non-positive rates.
var ErrInvalidConfig = errors.New("invalid runner config")

// Runner owns the frame loop for one machine and one frontend.
type Runner struct {
	machine  Machine
	frontend Frontend
	cfg      Config
	logger   *slog.Logger

	frames uint64
}

// New returns a runner. A nil logger discards all output.
func New(machine Machine, frontend Frontend, cfg Config, logger *slog.Logger) (*Runner, error) {
	if cfg.RefreshRate <= 0 || cfg.CyclesPerFrame <= 0 {
		return nil, fmt.Errorf("%w: refresh rate %d, cycles per frame %d", ErrInvalidConfig, cfg.RefreshRate, cfg.CyclesPerFrame)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Runner{
		machine:  machine,
		frontend: frontend,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Frames returns the number of frames completed so far.
func (r *Runner) Frames() uint64 {
	return r.frames
}

// Frame runs one fixed step. It returns true if the frontend asked to quit,
// in which case no instructions are executed. Machine errors stop the frame
// immediately, before the timers tick.
func (r *Runner) Frame(ctx context.Context) (bool, error) {
	quit, err := r.frontend.PollInput(r.machine)
	if err != nil {
		return false, fmt.Errorf("polling input: %w", err)
	}
	if quit {
		return true, nil
	}

	trace := r.logger.Enabled(ctx, slog.LevelDebug)
	for i := 0; i < r.cfg.CyclesPerFrame; i++ {
		if trace {
			addr, text := r.machine.Trace()
			r.logger.Debug("exec", "pc", fmt.Sprintf("0x%04x", addr), "instr", text)
		}
		if err := r.machine.EmulateCycle(); err != nil {
			return false, fmt.Errorf("frame %d: %w", r.frames, err)
		}
	}

	r.machine.Tick()

	if err := r.frontend.Render(r.machine); err != nil {
		return false, fmt.Errorf("rendering: %w", err)
	}

	r.frames++
	return false, nil
}

// Run calls Frame at the configured refresh rate until the frontend quits,
// ctx is cancelled or the machine fails. Quitting returns nil; cancellation
// returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(r.cfg.RefreshRate))
	defer ticker.Stop()

	r.logger.Info("emulation started", "refresh", r.cfg.RefreshRate, "cycles", r.cfg.CyclesPerFrame)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("emulation cancelled", "frames", r.frames)
			return ctx.Err()
		case <-ticker.C:
		}

		quit, err := r.Frame(ctx)
		if err != nil {
			r.logger.Error("emulation halted", "frames", r.frames, "error", err)
			return err
		}
		if quit {
			r.logger.Info("emulation stopped", "frames", r.frames)
			return nil
		}
	}
}
