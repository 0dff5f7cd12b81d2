package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/beanboi7/chyp8/emu/cpu"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm `path/ROM`",
	Short: "print a listing of the ROM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := homedir.Expand(args[0])
		if err != nil {
			return err
		}
		rom, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading ROM: %w", err)
		}
		if len(rom) > cpu.MaxROMSize {
			return fmt.Errorf("%w: %d bytes", cpu.ErrROMTooLarge, len(rom))
		}
		return writeListing(cmd.OutOrStdout(), rom)
	},
}

// writeListing prints one line per instruction word, addressed as if the
// ROM was loaded at the program start. An odd trailing byte is printed as
// data.
func writeListing(w io.Writer, rom []byte) error {
	bw := bufio.NewWriter(w)
	addr := cpu.ProgramStart

	for i := 0; i+1 < len(rom); i += 2 {
		opcode := uint16(rom[i])<<8 | uint16(rom[i+1])
		fmt.Fprintf(bw, "%03X  %04X  %s\n", addr, opcode, cpu.Disassemble(opcode))
		addr += 2
	}
	if len(rom)%2 == 1 {
		last := rom[len(rom)-1]
		fmt.Fprintf(bw, "%03X  %02X    DB $%02X\n", addr, last, last)
	}

	return bw.Flush()
}
