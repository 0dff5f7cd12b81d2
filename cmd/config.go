package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/beanboi7/chyp8/emu/runner"
	"github.com/spf13/viper"
)

// config keys, shared by flags, the config file and CHYP8_* variables
const (
	keyRefresh  = "refresh"
	keyCycles   = "cycles"
	keyScale    = "scale"
	keyFrontend = "frontend"
	keySeed     = "seed"
	keyDebug    = "debug"
	keyLogFile  = "log-file"
)

const (
	frontendWindow   = "window"
	frontendTerminal = "terminal"
)

// CHYP8_LOG_FILE maps to log-file
var envKeyReplacer = strings.NewReplacer("-", "_")

var errInvalidSettings = errors.New("invalid settings")

// Settings is the resolved configuration for one emulation session.
type Settings struct {
	Runner   runner.Config
	Scale    float64
	Frontend string
	Seed     int64
	Debug    bool
	LogFile  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyRefresh, runner.DefaultConfig.RefreshRate)
	v.SetDefault(keyCycles, runner.DefaultConfig.CyclesPerFrame)
	v.SetDefault(keyScale, 10.0)
	v.SetDefault(keyFrontend, frontendWindow)
	v.SetDefault(keySeed, 0)
	v.SetDefault(keyDebug, false)
	v.SetDefault(keyLogFile, "")
}

// loadSettings reads and validates the settings held by v.
func loadSettings(v *viper.Viper) (Settings, error) {
	s := Settings{
		Runner: runner.Config{
			RefreshRate:    v.GetInt(keyRefresh),
			CyclesPerFrame: v.GetInt(keyCycles),
		},
		Scale:    v.GetFloat64(keyScale),
		Frontend: strings.ToLower(v.GetString(keyFrontend)),
		Seed:     v.GetInt64(keySeed),
		Debug:    v.GetBool(keyDebug),
		LogFile:  v.GetString(keyLogFile),
	}

	if s.Runner.RefreshRate <= 0 {
		return s, fmt.Errorf("%w: refresh rate must be positive, got %d", errInvalidSettings, s.Runner.RefreshRate)
	}
	if s.Runner.CyclesPerFrame <= 0 {
		return s, fmt.Errorf("%w: cycles per frame must be positive, got %d", errInvalidSettings, s.Runner.CyclesPerFrame)
	}
	if s.Scale <= 0 {
		return s, fmt.Errorf("%w: scale must be positive, got %v", errInvalidSettings, s.Scale)
	}
	switch s.Frontend {
	case frontendWindow, frontendTerminal:
	default:
		return s, fmt.Errorf("%w: unknown frontend %q", errInvalidSettings, s.Frontend)
	}

	return s, nil
}

// newLogger builds the session logger. The terminal frontend owns the
// screen, so without a log file its output is discarded.
func newLogger(s Settings, stderr io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if s.Debug {
		level = slog.LevelDebug
	}

	var w io.Writer = stderr
	closer := func() error { return nil }

	switch {
	case s.LogFile != "":
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f.Close
	case s.Frontend == frontendTerminal:
		w = io.Discard
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}

// closeLogger runs closeLog and returns err, or the close error if err is
// nil.
func closeLogger(err error, closeLog func() error) error {
	if cerr := closeLog(); cerr != nil && err == nil {
		return fmt.Errorf("closing log file: %w", cerr)
	}
	return err
}
