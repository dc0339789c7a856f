package musdoom

// This file is the register programmer: the pure translation from voice/
// channel state into OPL register writes. None of it touches the score
// parser or the scheduler; it only knows how to program a chip given
// decisions already made (which instrument, which note, what volume).

func (p *Player) writeReg(reg int, value byte) {
	p.chip.WriteReg(reg, value)
}

// loadOperator writes one operator's five registers and returns the volume
// register value it wrote (level|scale, or forced to max attenuation when
// maxLevel is set), following load_operator.
func (p *Player) loadOperator(operatorIdx int, data *Operator, maxLevel bool) int {
	level := int(data.Scale)
	if maxLevel {
		level |= 0x3f
	} else {
		level |= int(data.Level)
	}

	p.writeReg(0x40+operatorIdx, byte(level))
	p.writeReg(0x20+operatorIdx, data.Tremolo)
	p.writeReg(0x60+operatorIdx, data.Attack)
	p.writeReg(0x80+operatorIdx, data.Sustain)
	p.writeReg(0xE0+operatorIdx, data.Waveform)

	return level
}

// setVoiceInstrument programs a voice's pair of operators and its feedback/
// pan register for the given instrument voice (0 or 1), following
// set_voice_instrument. It is a no-op if this voice is already programmed
// with the same instrument voice.
func (p *Player) setVoiceInstrument(v *voice, instr *Instrument, instrVoiceIdx int) {
	if v.currentInstr == instr && v.currentVoiceIdx == instrVoiceIdx {
		return
	}
	v.currentInstr = instr
	v.currentVoiceIdx = instrVoiceIdx

	data := &instr.Voices[instrVoiceIdx]
	modulating := data.Feedback&0x01 == 0

	// Chocolate Doom loads the carrier first (at maximum attenuation, i.e.
	// silent, until set_voice_volume runs), then the modulator.
	v.carVolume = p.loadOperator(v.op2|v.array, &data.Carrier, true)
	v.modVolume = p.loadOperator(v.op1|v.array, &data.Modulator, !modulating)

	p.writeReg((0xC0+v.regIndex)|v.array, data.Feedback|byte(v.regPan))
}

// setVoiceVolume recomputes and (if changed) rewrites the carrier's, and
// possibly the modulator's, attenuation register, following
// set_voice_volume. The channel's volume and the master volume are both
// folded into the multiplicand alongside the note's own volume.
func (p *Player) setVoiceVolume(v *voice, volume int) {
	v.noteVolume = volume

	oplVoice := &v.currentInstr.Voices[v.currentVoiceIdx]

	chanVol := p.channels[v.channelIdx].volume
	midiVolume := 2 * (int(volumeCurve[chanVol]) + 1)
	fullVolume := (int(volumeCurve[v.noteVolume]) * midiVolume) >> 9
	fullVolume = (fullVolume * p.masterVolume) / 127
	if fullVolume > 0x3f {
		fullVolume = 0x3f
	}

	carVolume := 0x3f - fullVolume

	if carVolume != (v.carVolume & 0x3f) {
		v.carVolume = carVolume | (v.carVolume & 0xc0)
		p.writeReg((0x40+v.op2)|v.array, byte(v.carVolume))

		if oplVoice.Feedback&0x01 != 0 && oplVoice.Modulator.Level != 0x3f {
			modVolume := int(oplVoice.Modulator.Level)
			if modVolume < carVolume {
				modVolume = carVolume
			}
			modVolume |= v.modVolume & 0xc0
			if modVolume != v.modVolume {
				v.modVolume = modVolume
				p.writeReg((0x40+v.op1)|v.array, byte(modVolume)|(oplVoice.Modulator.Scale&0xc0))
			}
		}
	}
}

// setVoicePan rewrites the feedback/pan register if the pan bits changed.
// In OPL2 mode setChannelPan leaves every channel at centre (0x30), so no
// pan change ever reaches this function there.
func (p *Player) setVoicePan(v *voice, regPan int) {
	if v.regPan == regPan || v.currentInstr == nil {
		return
	}
	v.regPan = regPan
	data := &v.currentInstr.Voices[v.currentVoiceIdx]
	p.writeReg((0xC0+v.regIndex)|v.array, data.Feedback|byte(v.regPan))
}

// frequencyForVoice computes the FREQ_2/FREQ_1 register pair value for a
// voice's current note, following frequency_for_voice exactly, including
// its fixed-point octave wraparound and the second-voice fine-tuning
// adjustment for double-voice instruments.
func (p *Player) frequencyForVoice(v *voice) int {
	gmVoice := &v.currentInstr.Voices[v.currentVoiceIdx]

	note := v.note
	if !v.currentInstr.fixed() {
		note += int(gmVoice.BaseNoteOffset)
	}

	for note < 0 {
		note += 12
	}
	for note > 95 {
		note -= 12
	}

	freqIndex := 64 + 32*note + p.channels[v.channelIdx].bend

	if v.currentVoiceIdx != 0 {
		freqIndex += int(v.currentInstr.FineTuning)/2 - 64
	}

	if freqIndex < 0 {
		freqIndex = 0
	}

	if freqIndex < 284 {
		return int(frequencyCurve[freqIndex])
	}

	subIndex := (freqIndex - 284) % (12 * 32)
	octave := (freqIndex - 284) / (12 * 32)
	if octave >= 7 {
		octave = 7
	}

	return int(frequencyCurve[subIndex+284]) | (octave << 10)
}

// updateVoiceFrequency writes the frequency registers if the computed
// frequency has changed since the last write.
func (p *Player) updateVoiceFrequency(v *voice) {
	freq := p.frequencyForVoice(v)
	if v.freq != freq {
		p.writeReg((0xA0+v.regIndex)|v.array, byte(freq&0xff))
		p.writeReg((0xB0+v.regIndex)|v.array, byte((freq>>8)|0x20))
		v.freq = freq
	}
}

// voiceKeyOff clears the key-on bit while preserving the high byte of the
// last-written frequency, following voice_key_off.
func (p *Player) voiceKeyOff(v *voice) {
	p.writeReg((0xB0+v.regIndex)|v.array, byte(v.freq>>8))
}

// voiceKeyOn allocates (stealing if necessary) one or two voices for a note
// and programs them, following voice_key_on. It does not release any voice
// already playing the same (channel, key); a separate release_note event
// does that.
func (p *Player) voiceKeyOn(channelIdx int, instr *Instrument, note, key, volume int) {
	doubleVoice := instr.doubleVoice()

	v := p.allocateVoice()
	if v == nil {
		p.replaceVoice()
		v = p.allocateVoice()
		if v == nil {
			return
		}
	}

	var v2 *voice
	if doubleVoice {
		v2 = p.allocateVoice()
		if v2 == nil {
			p.replaceVoice()
			v2 = p.allocateVoice()
			if v2 == nil {
				doubleVoice = false
			}
		}
	}

	p.programVoice(v, channelIdx, instr, 0, note, key, volume)

	if doubleVoice && v2 != nil {
		p.programVoice(v2, channelIdx, instr, 1, note, key, volume)
	}
}

func (p *Player) programVoice(v *voice, channelIdx int, instr *Instrument, instrVoiceIdx, note, key, volume int) {
	v.channelIdx = channelIdx

	if instr.fixed() {
		v.note = int(instr.FixedNote)
	} else {
		v.note = note
	}
	v.key = key
	v.regPan = p.channels[channelIdx].regPan

	p.setVoiceInstrument(v, instr, instrVoiceIdx)
	p.setVoiceVolume(v, volume)

	v.freq = 0
	p.updateVoiceFrequency(v)
}

// setChannelVolume stores the channel's volume and re-derives every voice
// currently assigned to it, following set_channel_volume.
func (p *Player) setChannelVolume(channelIdx, volume int) {
	if volume > 127 {
		volume = 127
	}
	p.channels[channelIdx].volume = volume

	for i := range p.voices {
		v := &p.voices[i]
		if v.inUse && v.channelIdx == channelIdx {
			p.setVoiceVolume(v, v.noteVolume)
		}
	}
}

// setChannelPan maps a 0-127 pan value onto the three DMX pan register
// values and re-derives every voice currently assigned to the channel,
// following set_channel_pan. OPL2 has no pan bits, so in that mode the
// channel stays at centre.
func (p *Player) setChannelPan(channelIdx, pan int) {
	if p.cfg.OPLMode != OPL3 {
		return
	}
	regPan := regPanFor(pan)
	if p.channels[channelIdx].regPan == regPan {
		return
	}
	p.channels[channelIdx].regPan = regPan

	for i := range p.voices {
		v := &p.voices[i]
		if v.inUse && v.channelIdx == channelIdx {
			p.setVoicePan(v, regPan)
		}
	}
}

// initRegisters puts the chip into the state init_opl_registers leaves it
// in: silence every operator, zero the rest of the register space, then
// enable waveform select and (in OPL3 mode) the second bank.
func (p *Player) initRegisters() {
	for r := 0x40; r <= 0x40+21; r++ {
		p.writeReg(r, 0x3f)
	}
	for r := 0x60; r <= 0xE0+21; r++ {
		p.writeReg(r, 0x00)
	}
	for r := 1; r < 0x40; r++ {
		p.writeReg(r, 0x00)
	}

	p.writeReg(0x04, 0x60)
	p.writeReg(0x04, 0x80)
	p.writeReg(0x01, 0x20)

	if p.cfg.OPLMode != OPL3 {
		return
	}

	p.writeReg(0x105, 0x01)

	for r := 0x40; r <= 0x40+21; r++ {
		p.writeReg(r|0x100, 0x3f)
	}
	for r := 0x60; r <= 0xE0+21; r++ {
		p.writeReg(r|0x100, 0x00)
	}
	for r := 1; r < 0x40; r++ {
		p.writeReg(r|0x100, 0x00)
	}

	// The high-bank loop above zeroed 0x105; enable OPL3 mode again.
	p.writeReg(0x105, 0x01)
}
