// muswav renders a MUS score to a WAV file without opening an audio device.
package main

import (
	"log"
	"os"

	"github.com/opl3-go/musdoom"
	"github.com/opl3-go/musdoom/internal/config"
	"github.com/opl3-go/musdoom/internal/opl"
	"github.com/opl3-go/musdoom/internal/wav"
	"github.com/spf13/pflag"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("muswav: ")

	var (
		flagOut    = pflag.StringP("out", "o", "", "output WAV path (required)")
		flagGen    = pflag.String("genmidi", "", "GENMIDI instrument bank path (required)")
		flagHz     = pflag.Int("hz", 44100, "output sample rate")
		flagReverb = pflag.String("reverb", "none", "reverb preset: none, light, medium, hall")
		flagLoop   = pflag.Bool("loop", false, "loop the score")
	)
	pflag.Parse()

	if pflag.NArg() == 0 || *flagOut == "" || *flagGen == "" {
		log.Fatal("usage: muswav --genmidi <path> --out <path.wav> <score.mus>")
	}

	genData, err := os.ReadFile(*flagGen)
	if err != nil {
		log.Fatal(err)
	}
	musData, err := os.ReadFile(pflag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	cfg := musdoom.DefaultConfig()
	cfg.SampleRate = *flagHz

	player, err := musdoom.New(cfg, opl.New())
	if err != nil {
		log.Fatal(err)
	}
	if err := player.LoadPatchBank(genData); err != nil {
		log.Fatal(err)
	}
	if err := player.LoadScore(musData); err != nil {
		log.Fatal(err)
	}

	reverb, err := config.ReverbFromFlag(*flagReverb, *flagHz)
	if err != nil {
		log.Fatal(err)
	}

	wavF, err := os.Create(*flagOut)
	if err != nil {
		log.Fatal(err)
	}
	defer wavF.Close()

	wavW, err := wav.NewWriter(wavF, *flagHz)
	if err != nil {
		log.Fatal(err)
	}

	if err := player.Start(*flagLoop); err != nil {
		log.Fatal(err)
	}

	dry := make([]int16, 4096)
	wet := make([]int16, 4096)
	for player.IsPlaying() {
		n := player.Generate(dry)
		if n == 0 {
			break
		}
		reverb.InputSamples(dry[:n*2])
		got := reverb.GetAudio(wet)
		if got > 0 {
			if err := wavW.WriteFrame(wet[:got]); err != nil {
				log.Fatal(err)
			}
		}
	}

	// Drain whatever is left buffered in the reverb tail.
	for {
		got := reverb.GetAudio(wet)
		if got == 0 {
			break
		}
		if err := wavW.WriteFrame(wet[:got]); err != nil {
			log.Fatal(err)
		}
	}

	if _, err := wavW.Finish(); err != nil {
		log.Fatal(err)
	}
}
