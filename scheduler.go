package musdoom

// advanceEventTime moves nextEventSample forward by delayTicks MUS ticks
// (140 per second), keeping the fractional remainder across calls so that
// rounding never accumulates drift over a long score.
func (p *Player) advanceEventTime(delayTicks int) {
	accum := p.timingRemainder + uint64(delayTicks)*uint64(p.cfg.SampleRate)
	p.nextEventSample += accum / ticksPerSecond
	p.timingRemainder = accum % ticksPerSecond
}

// runTick processes every event at the current tick (there may be several,
// all at zero delay from each other) and stops once it hits the event whose
// descriptor marked it last-in-tick, advancing the event clock by the delay
// that follows it.
func (p *Player) runTick() {
	for {
		ev, ok := p.reader.readEvent()
		if !ok {
			p.onEndOfScore()
			return
		}

		if ev.kind == musEventEndOfScore {
			p.onEndOfScore()
			return
		}

		p.dispatchEvent(ev)

		if ev.lastInTick {
			delay, ok := p.reader.readVarLen()
			if !ok {
				p.onEndOfScore()
				return
			}
			p.advanceEventTime(delay)
			return
		}
	}
}

func (p *Player) onEndOfScore() {
	if p.looping {
		p.reader = p.score.newReader()

		// A score whose events carry no delay at all (empty, or every delay
		// zero) would otherwise rewind and replay within the same sample
		// forever, pinning next_event_sample to current_sample and spinning
		// Generate's event-drain loop with no forward progress. Detect a
		// zero-duration pass -- either the rewound stream is immediately
		// terminal, or the previous loop ended at this same sample -- and
		// advance one tick instead of pinning the clock, so such a score
		// loops at the normal tick cadence instead of hanging.
		zeroPass := p.looped && p.loopedAtSample == p.currentSample
		p.looped = true
		p.loopedAtSample = p.currentSample
		if p.reader.atEndOfScoreImmediately() || zeroPass {
			p.advanceEventTime(1)
		} else {
			p.nextEventSample = p.currentSample
			p.timingRemainder = 0
		}
		return
	}
	p.playing = false
}

func (p *Player) dispatchEvent(ev event) {
	switch ev.kind {
	case musEventReleaseNote:
		p.handleReleaseNote(ev)
	case musEventPlayNote:
		p.handlePlayNote(ev)
	case musEventPitchBend:
		p.handlePitchBend(ev)
	case musEventSystemEvent:
		p.handleSystemEvent(ev)
	case musEventController:
		p.handleController(ev)
	}
}

func (p *Player) handleReleaseNote(ev event) {
	for i := range p.voices {
		v := &p.voices[i]
		if v.inUse && v.channelIdx == ev.channel && v.key == int(ev.note) {
			p.releaseVoice(v)
		}
	}
}

func (p *Player) handlePlayNote(ev event) {
	ch := &p.channels[ev.channel]

	velocity := int(ev.velocity)
	if ev.hasVel {
		ch.velocity = velocity
	} else {
		velocity = ch.velocity
	}

	if velocity <= 0 {
		p.handleReleaseNote(ev)
		return
	}

	if p.bank == nil {
		return
	}

	instr := p.bank.instrumentFor(ev.channel, ev.note, byte(ch.instrument))

	// Chocolate Doom fixes note=60 for percussion (key stays the actual MIDI
	// key so release_note still matches); the instrument's FixedNote flag is
	// what actually picks the sounding pitch for fixed-note patches.
	note := int(ev.note)
	if ev.channel == percussionChannel {
		note = 60
	}
	p.voiceKeyOn(ev.channel, instr, note, int(ev.note), velocity)
}

func (p *Player) handlePitchBend(ev event) {
	p.channels[ev.channel].bend = (int(ev.bendValue) - 128) / 2

	for i := range p.voices {
		v := &p.voices[i]
		if v.inUse && v.channelIdx == ev.channel {
			v.freq = 0
			p.updateVoiceFrequency(v)
		}
	}
}

// MUS system event controller numbers, decoded from the payload byte of a
// 0x30 event.
const (
	musSystemAllSoundsOff = 10
	musSystemAllNotesOff  = 11
	musSystemMono         = 12
	musSystemPoly         = 13
	musSystemResetAll     = 14
)

func (p *Player) handleSystemEvent(ev event) {
	switch ev.sysCtrl {
	case musSystemAllSoundsOff, musSystemAllNotesOff:
		p.releaseAllVoicesForChannel(ev.channel)
	case musSystemResetAll:
		p.setChannelVolume(ev.channel, 100)
		p.setChannelPan(ev.channel, 64)
		p.channels[ev.channel].bend = 0
	case musSystemMono, musSystemPoly:
		// Accepted, no voice-level effect in this implementation.
	}
}

func (p *Player) handleController(ev event) {
	if ev.ctrlNumber == 0 {
		p.channels[ev.channel].instrument = int(ev.ctrlValue)
		return
	}

	idx := int(ev.ctrlNumber)
	if idx < 0 || idx >= len(musToMidiCtrl) {
		return
	}

	switch musToMidiCtrl[idx] {
	case 7: // channel volume
		p.setChannelVolume(ev.channel, int(ev.ctrlValue))
	case 10: // pan
		p.setChannelPan(ev.channel, int(ev.ctrlValue))
	}
}

// Generate fills buffer with interleaved stereo int16 samples and returns
// the number of frames written (always len(buffer)/2, buffer length must be
// even). While paused it writes silence without advancing the chip, the
// parser or the playback clock, so resuming picks up exactly where it left
// off. Once playback ends (end-of-score, non-looping) the chip keeps being
// clocked so already-sounding notes ring out; only the event clock stops.
func (p *Player) Generate(buffer []int16) int {
	frames := len(buffer) / 2

	if p.paused {
		for i := range buffer[:frames*2] {
			buffer[i] = 0
		}
		return frames
	}

	for i := 0; i < frames; i++ {
		for p.playing && p.currentSample >= p.nextEventSample {
			p.runTick()
		}

		var frame [2]int16
		p.chip.GenerateResampled(&frame)
		buffer[2*i] = frame[0]
		buffer[2*i+1] = frame[1]

		if p.playing {
			p.currentSample++
		}
	}

	return frames
}
