package musdoom

// numVoices is the total count of physical OPL voices available: 9 per bank
// across the two OPL3 banks. In OPL2 mode only the first 9 (bank 0) are
// ever allocated.
const numVoices = 18

// voice is one physical OPL voice slot. regIndex/op1/op2/array are fixed at
// creation time (they describe where in the register space this voice's
// operators live); the rest tracks what is currently assigned to it.
type voice struct {
	regIndex int // 0-8, position within the voiceOperatorMap table
	op1, op2 int // modulator, carrier operator offsets
	array    int // 0 or 0x100, which OPL3 bank this voice lives in

	inUse           bool
	channelIdx      int // index into Player.channels, valid only if inUse
	currentInstr    *Instrument
	currentVoiceIdx int // which of Instrument.Voices this voice is playing
	key             int // MIDI key (for release_note matching)
	note            int // note value used in frequency_for_voice
	freq            int // last written frequency register value
	noteVolume      int
	carVolume       int
	modVolume       int
	regPan          int
}

func newVoices(mode OPLMode) [numVoices]voice {
	var vs [numVoices]voice
	limit := numVoices
	if mode == OPL2 {
		limit = 9
	}
	for i := range vs {
		bank := i / 9
		slot := i % 9
		vs[i] = voice{
			regIndex: slot,
			op1:      voiceOperatorMap[0][slot],
			op2:      voiceOperatorMap[1][slot],
			array:    bank << 8,
			regPan:   0x30,
		}
		if i >= limit {
			// Parked: never allocated in OPL2 mode, but kept in the array so
			// index math elsewhere doesn't need a mode switch.
			vs[i].inUse = true
			vs[i].channelIdx = -1
		}
	}
	return vs
}

// allocateVoice returns a pointer to the first free voice slot, or nil if
// all are in use, following allocate_voice's simple linear scan.
func (p *Player) allocateVoice() *voice {
	for i := range p.voices {
		if !p.voices[i].inUse {
			p.voices[i].inUse = true
			return &p.voices[i]
		}
	}
	return nil
}

// replaceVoice steals a voice to free one up for a new note, following
// replace_voice's policy: prefer the second voice of a double-voice
// instrument, otherwise the highest channel index seen (ties keep the last,
// i.e. highest-indexed, voice scanned).
func (p *Player) replaceVoice() {
	result := 0
	for i := range p.voices {
		v := &p.voices[i]
		if !v.inUse || v.channelIdx < 0 {
			// Not in use, or parked out of rotation by OPL2 mode: never a
			// steal candidate.
			continue
		}

		if v.currentVoiceIdx != 0 {
			result = i
			break
		}

		if v.channelIdx >= p.voices[result].channelIdx {
			result = i
		}
	}

	v := &p.voices[result]
	if v.inUse {
		p.voiceKeyOff(v)
		v.inUse = false
		v.channelIdx = -1
		v.currentInstr = nil
	}
}

// releaseVoice frees a voice unconditionally, used by the release_note path.
func (p *Player) releaseVoice(v *voice) {
	if !v.inUse {
		return
	}
	p.voiceKeyOff(v)
	v.inUse = false
	v.channelIdx = -1
	v.currentInstr = nil
}

// releaseAllVoicesForChannel implements the "all sounds off"/"all notes
// off" system events.
func (p *Player) releaseAllVoicesForChannel(channelIdx int) {
	for i := range p.voices {
		v := &p.voices[i]
		if v.inUse && v.channelIdx == channelIdx {
			p.voiceKeyOff(v)
			v.inUse = false
			v.channelIdx = -1
			v.currentInstr = nil
		}
	}
}
