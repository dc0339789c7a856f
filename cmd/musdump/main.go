// musdump prints a human-readable summary of a GENMIDI instrument bank or a
// MUS score file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/opl3-go/musdoom"
	"github.com/spf13/pflag"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "musdump"})
	pflag.Parse()

	if pflag.NArg() == 0 {
		logger.Fatal("missing filename")
	}

	path := pflag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading file", "path", path, "err", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mus":
		dumpScore(logger, data)
	default:
		dumpGenmidi(logger, data)
	}
}

func dumpGenmidi(logger *log.Logger, data []byte) {
	bank, err := musdoom.LoadPatchBank(data)
	if err != nil {
		logger.Fatal("parsing genmidi", "err", err)
	}

	fmt.Printf("GENMIDI bank: %d melodic, %d percussion instruments\n",
		len(bank.Melodic), len(bank.Percussion))
	for i, instr := range bank.Melodic {
		if instr.Flags == 0 {
			continue
		}
		fmt.Printf("  melodic[%3d] flags=0x%04x fine_tuning=%d fixed_note=%d\n",
			i, instr.Flags, instr.FineTuning, instr.FixedNote)
	}
}

func dumpScore(logger *log.Logger, data []byte) {
	score, err := musdoom.LoadScore(data)
	if err != nil {
		logger.Fatal("parsing score", "err", err)
	}
	fmt.Printf("MUS score loaded, %d bytes\n", len(data))
	fmt.Printf("  channels=%d secondary_channels=%d instrument_count=%d\n",
		score.Channels(), score.SecondaryChannels(), score.InstrumentCount())
}
