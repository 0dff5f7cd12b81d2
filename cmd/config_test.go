package cmd

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/beanboi7/chyp8/emu/runner"
	"github.com/retroenv/retrogolib/assert"
	"github.com/spf13/viper"
)

func newTestViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	if yaml != "" {
		v.SetConfigType("yaml")
		assert.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	}
	return v
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings(newTestViper(t, ""))
	assert.NoError(t, err)
	assert.Equal(t, runner.DefaultConfig, s.Runner)
	assert.Equal(t, 10.0, s.Scale)
	assert.Equal(t, frontendWindow, s.Frontend)
	assert.Equal(t, int64(0), s.Seed)
	assert.False(t, s.Debug)
	assert.Equal(t, "", s.LogFile)
}

func TestLoadSettingsFromFile(t *testing.T) {
	v := newTestViper(t, `
refresh: 30
cycles: 20
scale: 4
frontend: Terminal
seed: 42
debug: true
log-file: /tmp/chyp8.log
`)

	s, err := loadSettings(v)
	assert.NoError(t, err)
	assert.Equal(t, runner.Config{RefreshRate: 30, CyclesPerFrame: 20}, s.Runner)
	assert.Equal(t, 4.0, s.Scale)
	assert.Equal(t, frontendTerminal, s.Frontend)
	assert.Equal(t, int64(42), s.Seed)
	assert.True(t, s.Debug)
	assert.Equal(t, "/tmp/chyp8.log", s.LogFile)
}

func TestLoadSettingsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero refresh", "refresh: 0"},
		{"negative cycles", "cycles: -1"},
		{"zero scale", "scale: 0"},
		{"unknown frontend", "frontend: vga"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSettings(newTestViper(t, tt.yaml))
			assert.True(t, errors.Is(err, errInvalidSettings))
		})
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, closeLog, err := newLogger(Settings{Frontend: frontendWindow}, &buf)
	assert.NoError(t, err)
	defer closeLog()

	logger.Debug("hidden")
	logger.Info("shown")
	assert.False(t, strings.Contains(buf.String(), "hidden"))
	assert.True(t, strings.Contains(buf.String(), "shown"))

	buf.Reset()
	logger, _, err = newLogger(Settings{Frontend: frontendWindow, Debug: true}, &buf)
	assert.NoError(t, err)
	logger.Debug("trace")
	assert.True(t, strings.Contains(buf.String(), "trace"))
}

func TestNewLoggerTerminalDiscards(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := newLogger(Settings{Frontend: frontendTerminal}, &buf)
	assert.NoError(t, err)

	logger.Info("lost")
	assert.Equal(t, 0, buf.Len())
}

func TestNewLoggerFile(t *testing.T) {
	path := t.TempDir() + "/chyp8.log"
	var buf bytes.Buffer

	logger, closeLog, err := newLogger(Settings{Frontend: frontendTerminal, LogFile: path}, &buf)
	assert.NoError(t, err)
	logger.Info("kept")
	assert.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "kept"))
	assert.Equal(t, 0, buf.Len())
}

func TestCloseLogger(t *testing.T) {
	path := t.TempDir() + "/chyp8.log"
	_, closeLog, err := newLogger(Settings{Frontend: frontendWindow, LogFile: path}, &bytes.Buffer{})
	assert.NoError(t, err)

	assert.NoError(t, closeLogger(nil, closeLog))

	// a second close fails and is reported
	err = closeLogger(nil, closeLog)
	assert.True(t, errors.Is(err, os.ErrClosed))

	// an earlier error wins
	runErr := errors.New("machine halted")
	assert.True(t, errors.Is(closeLogger(runErr, closeLog), runErr))
}
