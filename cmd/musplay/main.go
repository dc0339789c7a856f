// musplay plays a MUS score through the default audio device, with a space
// bar pause/resume key binding. The reverb preset is chosen by flag at
// startup; there is no live volume or reverb control.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"
	"github.com/opl3-go/musdoom"
	"github.com/opl3-go/musdoom/internal/config"
	"github.com/opl3-go/musdoom/internal/opl"
	"github.com/spf13/pflag"
)

const scratchBufferSize = 10 * 1024

var (
	green  = color.New(color.FgGreen).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
)

// audioPlayer owns the portaudio stream, the musdoom.Player driving it, and
// the goroutines (signal, keyboard) that can request a stop.
type audioPlayer struct {
	player *musdoom.Player
	reverb interface {
		InputSamples([]int16) int
		GetAudio([]int16) int
	}
	stream  *portaudio.Stream
	scratch []int16
	wet     []int16

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newAudioPlayer(player *musdoom.Player, reverb interface {
	InputSamples([]int16) int
	GetAudio([]int16) int
}) *audioPlayer {
	ctx, cancel := context.WithCancel(context.Background())
	return &audioPlayer{
		player:  player,
		reverb:  reverb,
		scratch: make([]int16, scratchBufferSize),
		wet:     make([]int16, scratchBufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (ap *audioPlayer) streamCallback(out []int16) {
	n := ap.player.Generate(ap.scratch[:len(out)])
	ap.reverb.InputSamples(ap.scratch[:n*2])
	got := ap.reverb.GetAudio(out)
	for i := got; i < len(out); i++ {
		out[i] = 0
	}
}

func (ap *audioPlayer) Stop() {
	ap.stopOnce.Do(func() {
		ap.player.Stop()
		ap.cancel()
	})
}

func (ap *audioPlayer) setupSignalHandler() {
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)

	ap.wg.Add(1)
	go func() {
		defer ap.wg.Done()
		select {
		case <-ap.ctx.Done():
		case <-sigch:
			ap.Stop()
		}
	}()
}

func (ap *audioPlayer) setupKeyboardHandler() {
	ap.wg.Add(1)
	go func() {
		defer ap.wg.Done()
		keyboard.Listen(func(key keys.Key) (stop bool, err error) {
			switch key.Code {
			case keys.CtrlC, keys.Escape:
				ap.Stop()
				return true, nil
			case keys.Space:
				if ap.player.IsPlaying() {
					ap.player.Pause()
					fmt.Println(yellow("paused"))
				} else {
					ap.player.Resume()
					fmt.Println(green("resumed"))
				}
			}
			return false, nil
		})
	}()
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "musplay"})

	var (
		flagGen    = pflag.String("genmidi", "", "GENMIDI instrument bank path (required)")
		flagHz     = pflag.Int("hz", 44100, "output sample rate")
		flagReverb = pflag.String("reverb", "light", "reverb preset: none, light, medium, hall")
		flagLoop   = pflag.BoolP("loop", "l", false, "loop the score")
	)
	pflag.Parse()

	if pflag.NArg() == 0 || *flagGen == "" {
		logger.Fatal("usage: musplay --genmidi <path> <score.mus>")
	}

	genData, err := os.ReadFile(*flagGen)
	if err != nil {
		logger.Fatal("reading genmidi", "err", err)
	}
	musData, err := os.ReadFile(pflag.Arg(0))
	if err != nil {
		logger.Fatal("reading score", "err", err)
	}

	cfg := musdoom.DefaultConfig()
	cfg.SampleRate = *flagHz

	player, err := musdoom.New(cfg, opl.New())
	if err != nil {
		logger.Fatal("creating player", "err", err)
	}
	if err := player.LoadPatchBank(genData); err != nil {
		logger.Fatal("loading patch bank", "err", err)
	}
	if err := player.LoadScore(musData); err != nil {
		logger.Fatal("loading score", "err", err)
	}

	reverb, err := config.ReverbFromFlag(*flagReverb, *flagHz)
	if err != nil {
		logger.Fatal("reverb", "err", err)
	}

	if err := portaudio.Initialize(); err != nil {
		logger.Fatal("portaudio init", "err", err)
	}
	defer portaudio.Terminate()

	ap := newAudioPlayer(player, reverb)

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(*flagHz), portaudio.FramesPerBufferUnspecified, ap.streamCallback)
	if err != nil {
		logger.Fatal("opening audio stream", "err", err)
	}
	ap.stream = stream
	defer stream.Close()

	if err := stream.Start(); err != nil {
		logger.Fatal("starting audio stream", "err", err)
	}
	defer stream.Stop()

	if err := player.Start(*flagLoop); err != nil {
		logger.Fatal("starting playback", "err", err)
	}

	ap.setupSignalHandler()
	ap.setupKeyboardHandler()

	fmt.Println(green("playing, space to pause/resume, ctrl-c to quit"))

	<-ap.ctx.Done()
}
