package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/runner"
	"github.com/beanboi7/chyp8/emu/screen"
	"github.com/beanboi7/chyp8/emu/terminal"
	"github.com/faiface/pixel/pixelgl"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var startCmd = &cobra.Command{
	Use:   "start `path/ROM`",
	Short: "load and start the Emulator",
	Args:  cobra.ExactArgs(1),
	RunE:  Start,
}

// chyp8 start 'path/to/ROM' -r 60 -c 10
func Start(cmd *cobra.Command, args []string) (err error) {
	settings, err := loadSettings(viper.GetViper())
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(settings, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { err = closeLogger(err, closeLog) }()

	emu, err := newSession(args[0], settings)
	if err != nil {
		return err
	}
	logger.Info("ROM loaded", "path", args[0], "frontend", settings.Frontend)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch settings.Frontend {
	case frontendTerminal:
		err = runTerminal(ctx, emu, settings, logger)
	default:
		err = runWindow(ctx, emu, settings, logger)
	}

	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		return nil
	}
	return err
}

// newSession creates a machine and loads the ROM at path into it.
func newSession(path string, settings Settings) (*cpu.EMU, error) {
	romPath, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	emu := cpu.NewEMU(cpu.NewRandSource(settings.Seed))
	if err := emu.LoadROM(rom); err != nil {
		return nil, fmt.Errorf("loading %s: %w", romPath, err)
	}

	return emu, nil
}

// runWindow needs the main OS thread, pixelgl.Run returns when the
// emulation ends.
func runWindow(ctx context.Context, emu *cpu.EMU, settings Settings, logger *slog.Logger) error {
	var runErr error

	pixelgl.Run(func() {
		win, err := screen.NewWindow("Chyp8", settings.Scale)
		if err != nil {
			runErr = err
			return
		}
		defer win.Destroy()

		r, err := runner.New(emu, win, settings.Runner, logger)
		if err != nil {
			runErr = err
			return
		}
		runErr = r.Run(ctx)
	})

	return runErr
}

func runTerminal(ctx context.Context, emu *cpu.EMU, settings Settings, logger *slog.Logger) error {
	term, err := terminal.Open()
	if err != nil {
		return err
	}
	defer term.Close()

	r, err := runner.New(emu, term, settings.Runner, logger)
	if err != nil {
		return err
	}
	return r.Run(ctx)
}

func init() {
	flags := startCmd.Flags()
	flags.IntP(keyRefresh, "r", runner.DefaultConfig.RefreshRate, "frames per second, the timers tick once per frame")
	flags.IntP(keyCycles, "c", runner.DefaultConfig.CyclesPerFrame, "instructions executed per frame")
	flags.Float64P(keyScale, "s", 10, "window scale factor")
	flags.StringP(keyFrontend, "f", frontendWindow, "frontend to use: window or terminal")
	flags.Int64(keySeed, 0, "seed for the RND instruction, 0 seeds from the clock")
	flags.Bool(keyDebug, false, "log every executed instruction")
	flags.String(keyLogFile, "", "write the log to this file instead of stderr")

	for _, key := range []string{keyRefresh, keyCycles, keyScale, keyFrontend, keySeed, keyDebug, keyLogFile} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(key)))
	}
}
