package musdoom

import (
	"encoding/binary"

	clone "github.com/huandu/go-clone/generic"
)

// fakeChip is a minimal OPLChip stand-in that records every register write
// instead of synthesizing audio, so register-programmer tests can assert on
// exactly what was sent to the chip without depending on a real OPL core.
type fakeChip struct {
	sampleRate int
	writes     []regWrite
	frames     int
}

type regWrite struct {
	reg   int
	value byte
}

func (c *fakeChip) Reset(sampleRate int) {
	c.sampleRate = sampleRate
	c.writes = c.writes[:0]
	c.frames = 0
}

func (c *fakeChip) WriteReg(reg int, value byte) {
	c.writes = append(c.writes, regWrite{reg, value})
}

// GenerateResampled doesn't synthesize audio; it reports the running count
// of register writes seen so far, which changes exactly when a note event
// fires. This lets determinism tests detect a scheduling divergence between
// a single Generate call and an equivalent split pair without needing a real
// synthesis core.
func (c *fakeChip) GenerateResampled(out *[2]int16) {
	c.frames++
	out[0] = int16(len(c.writes))
	out[1] = int16(c.frames)
}

// lastWrite returns the most recently written value for reg, and whether reg
// was ever written at all.
func (c *fakeChip) lastWrite(reg int) (byte, bool) {
	for i := len(c.writes) - 1; i >= 0; i-- {
		if c.writes[i].reg == reg {
			return c.writes[i].value, true
		}
	}
	return 0, false
}

// countWrites reports how many times reg was written since the last Reset.
func (c *fakeChip) countWrites(reg int) int {
	n := 0
	for _, w := range c.writes {
		if w.reg == reg {
			n++
		}
	}
	return n
}

// testBank is a patch bank fixture cloned per test so each test can freely
// mutate its own copy.
// Instrument 0 is a simple single-voice FM patch (feedback bit 0 clear);
// instrument 1 is a double-voice additive patch used for stealing/chord
// tests; percussion[0] is the fixed-note patch for note 35.
var testBank = PatchBank{
	Melodic: func() [genmidiNumMelodic]Instrument {
		var m [genmidiNumMelodic]Instrument
		m[0] = Instrument{
			Voices: [2]Voice{{Feedback: 0x00}},
		}
		m[1] = Instrument{
			Flags:  FlagDoubleVoice,
			Voices: [2]Voice{{Feedback: 0x01}, {Feedback: 0x01}},
		}
		return m
	}(),
	Percussion: func() [genmidiNumPercussion]Instrument {
		var p [genmidiNumPercussion]Instrument
		p[0] = Instrument{Flags: FlagFixedNote, FixedNote: 60}
		return p
	}(),
}

func newTestPlayer() (*Player, *fakeChip) {
	chip := &fakeChip{}
	p, err := New(DefaultConfig(), chip)
	if err != nil {
		panic(err)
	}
	bank := clone.Clone(testBank)
	p.bank = &bank
	return p, chip
}

// buildScore assembles a minimal, structurally valid MUS lump: a 16-byte
// header followed by the raw event bytes given.
func buildScore(events []byte) []byte {
	data := make([]byte, 16+len(events))
	copy(data, musHeaderMagic)
	binary.LittleEndian.PutUint16(data[4:6], uint16(len(events)))
	binary.LittleEndian.PutUint16(data[6:8], 16)
	binary.LittleEndian.PutUint16(data[8:10], 1)
	copy(data[16:], events)
	return data
}
