package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

// recorder collects the order of calls made by the runner
type recorder struct {
	calls []string
}

type fakeMachine struct {
	*recorder
	failAt int
	cycles int
}

func (m *fakeMachine) Press(key uint8) error   { return nil }
func (m *fakeMachine) Release(key uint8) error { return nil }
func (m *fakeMachine) PixelAt(x, y int) bool   { return false }
func (m *fakeMachine) Tick()                   { m.calls = append(m.calls, "tick") }
func (m *fakeMachine) Trace() (uint16, string) { return 0x200, "CLS" }

func (m *fakeMachine) EmulateCycle() error {
	m.cycles++
	m.calls = append(m.calls, "cycle")
	if m.failAt > 0 && m.cycles == m.failAt {
		return &cpu.DecodeError{Opcode: 0x0123, Address: 0x200}
	}
	return nil
}

type fakeFrontend struct {
	*recorder
	quitAfter int
	polls     int
	renderErr error
}

func (f *fakeFrontend) PollInput(k Keypad) (bool, error) {
	f.polls++
	f.calls = append(f.calls, "poll")
	return f.quitAfter > 0 && f.polls > f.quitAfter, nil
}

func (f *fakeFrontend) Render(d Display) error {
	f.calls = append(f.calls, "render")
	return f.renderErr
}

func newFakes() (*fakeMachine, *fakeFrontend, *recorder) {
	rec := &recorder{}
	return &fakeMachine{recorder: rec}, &fakeFrontend{recorder: rec}, rec
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	m, f, _ := newFakes()

	for _, cfg := range []Config{
		{RefreshRate: 0, CyclesPerFrame: 10},
		{RefreshRate: 60, CyclesPerFrame: 0},
		{RefreshRate: -1, CyclesPerFrame: -1},
	} {
		_, err := New(m, f, cfg, nil)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	}
}

func TestFrameOrder(t *testing.T) {
	m, f, rec := newFakes()
	r, err := New(m, f, Config{RefreshRate: 60, CyclesPerFrame: 3}, nil)
	assert.NoError(t, err)

	quit, err := r.Frame(context.Background())
	assert.NoError(t, err)
	assert.False(t, quit)

	want := []string{"poll", "cycle", "cycle", "cycle", "tick", "render"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("frame order: (-want, +got)\n%s", diff)
	}
	assert.Equal(t, uint64(1), r.Frames())
}

func TestFrameQuit(t *testing.T) {
	m, f, rec := newFakes()
	f.quitAfter = 1
	r, err := New(m, f, Config{RefreshRate: 60, CyclesPerFrame: 1}, nil)
	assert.NoError(t, err)

	quit, err := r.Frame(context.Background())
	assert.NoError(t, err)
	assert.False(t, quit)

	rec.calls = nil
	quit, err = r.Frame(context.Background())
	assert.NoError(t, err)
	assert.True(t, quit)

	if diff := cmp.Diff([]string{"poll"}, rec.calls); diff != "" {
		t.Errorf("calls after quit: (-want, +got)\n%s", diff)
	}
	assert.Equal(t, uint64(1), r.Frames())
}

func TestFrameMachineError(t *testing.T) {
	m, f, rec := newFakes()
	m.failAt = 2
	r, err := New(m, f, Config{RefreshRate: 60, CyclesPerFrame: 5}, nil)
	assert.NoError(t, err)

	_, err = r.Frame(context.Background())
	assert.True(t, errors.Is(err, cpu.ErrUnknownOpcode))

	var decodeErr *cpu.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, uint16(0x200), decodeErr.Address)

	// no tick, no render
	if diff := cmp.Diff([]string{"poll", "cycle", "cycle"}, rec.calls); diff != "" {
		t.Errorf("calls after failure: (-want, +got)\n%s", diff)
	}
	assert.Equal(t, uint64(0), r.Frames())
}

func TestFrameRenderError(t *testing.T) {
	m, f, _ := newFakes()
	f.renderErr = errors.New("no window")
	r, err := New(m, f, DefaultConfig, nil)
	assert.NoError(t, err)

	_, err = r.Frame(context.Background())
	assert.True(t, errors.Is(err, f.renderErr))
}

func TestFrameTrace(t *testing.T) {
	m, f, _ := newFakes()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r, err := New(m, f, Config{RefreshRate: 60, CyclesPerFrame: 2}, logger)
	assert.NoError(t, err)
	_, err = r.Frame(context.Background())
	assert.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "msg=exec"))
	assert.True(t, strings.Contains(out, "pc=0x0200"))
	assert.True(t, strings.Contains(out, "instr=CLS"))
}

func TestRunUntilQuit(t *testing.T) {
	m, f, _ := newFakes()
	f.quitAfter = 3
	r, err := New(m, f, Config{RefreshRate: 1000, CyclesPerFrame: 1}, nil)
	assert.NoError(t, err)

	assert.NoError(t, r.Run(context.Background()))
	assert.Equal(t, uint64(3), r.Frames())
	assert.Equal(t, 3, m.cycles)
}

func TestRunCancelled(t *testing.T) {
	m, f, _ := newFakes()
	r, err := New(m, f, Config{RefreshRate: 1000, CyclesPerFrame: 1}, nil)
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = r.Run(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRunMachineError(t *testing.T) {
	m, f, _ := newFakes()
	m.failAt = 4
	r, err := New(m, f, Config{RefreshRate: 1000, CyclesPerFrame: 2}, nil)
	assert.NoError(t, err)

	err = r.Run(context.Background())
	assert.True(t, errors.Is(err, cpu.ErrUnknownOpcode))
	assert.Equal(t, uint64(1), r.Frames())
}

type nullFrontend struct{}

func (nullFrontend) PollInput(k Keypad) (bool, error) { return false, nil }
func (nullFrontend) Render(d Display) error           { return nil }

func TestFrameWithMachine(t *testing.T) {
	// 200: LD V0, 05
	// 202: LD DT, V0
	// 204: JP 204
	emu := cpu.NewEMU(cpu.NewSequenceSource())
	assert.NoError(t, emu.LoadROM([]byte{0x60, 0x05, 0xF0, 0x15, 0x12, 0x04}))

	r, err := New(emu, nullFrontend{}, Config{RefreshRate: 60, CyclesPerFrame: 4}, nil)
	assert.NoError(t, err)

	_, err = r.Frame(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint8(4), emu.DelayTimer())
	assert.Equal(t, uint16(0x204), emu.PC())

	for i := 0; i < 10; i++ {
		_, err = r.Frame(context.Background())
		assert.NoError(t, err)
	}
	assert.Equal(t, uint8(0), emu.DelayTimer())
}
