// Package musdoom implements the Doom MUS score format played back through
// an emulated OPL2/OPL3 FM synthesis chip, following the DMX-derived
// playback engine shipped inside Chocolate Doom's libmusdoom.
package musdoom

const ticksPerSecond = 140

// Player is the facade the rest of a program drives: load a patch bank and
// a score, start playback, and pull PCM frames out with Generate.
//
// Player is not safe for concurrent use; callers own their own
// synchronization, matching the single-goroutine, non-blocking design the
// rest of this package follows.
type Player struct {
	cfg  Config
	chip OPLChip

	bank  *PatchBank
	score *Score

	channels [16]channel
	voices   [numVoices]voice

	reader *scoreReader

	playing bool
	paused  bool
	looping bool

	masterVolume int

	currentSample   uint64
	nextEventSample uint64
	timingRemainder uint64

	// Zero-duration loop detection: whether end-of-score has rewound the
	// reader at least once this playback, and at which sample it last did.
	looped         bool
	loopedAtSample uint64
}

// New creates a Player bound to chip, which must already be safe to call
// WriteReg on (New itself calls Reset and programs the chip's startup
// register state).
func New(cfg Config, chip OPLChip) (*Player, error) {
	if cfg.SampleRate <= 0 {
		return nil, errInvalidParam("sample rate must be positive")
	}
	if chip == nil {
		return nil, errInvalidParam("chip must not be nil")
	}

	p := &Player{
		cfg:          cfg,
		chip:         chip,
		voices:       newVoices(cfg.OPLMode),
		masterVolume: cfg.InitialVolume,
	}
	for i := range p.channels {
		p.channels[i] = newChannel()
	}

	chip.Reset(cfg.SampleRate)
	p.initRegisters()

	return p, nil
}

// LoadPatchBank parses and installs a GENMIDI instrument bank. It must be
// called before LoadScore.
func (p *Player) LoadPatchBank(data []byte) error {
	bank, err := LoadPatchBank(data)
	if err != nil {
		return err
	}
	p.bank = bank
	return nil
}

// LoadScore parses and installs a MUS score, replacing (and stopping) any
// score already loaded. A patch bank must already be loaded.
func (p *Player) LoadScore(data []byte) error {
	if p.bank == nil {
		return errNotInitialized("patch bank must be loaded before a score")
	}
	score, err := LoadScore(data)
	if err != nil {
		return err
	}
	p.Unload()
	p.score = score
	return nil
}

// Unload stops playback and discards the loaded score. The patch bank stays
// loaded, so a new score can be loaded without re-parsing GENMIDI.
func (p *Player) Unload() {
	p.Stop()
	p.score = nil
	p.reader = nil
}

// Start begins playback from the start of the loaded score. looping selects
// whether reaching end-of-score restarts playback or stops it.
func (p *Player) Start(looping bool) error {
	if p.score == nil {
		return errNotInitialized("no score loaded")
	}
	p.reader = p.score.newReader()
	p.looping = looping
	p.playing = true
	p.paused = false
	p.currentSample = 0
	p.nextEventSample = 0
	p.timingRemainder = 0
	p.looped = false
	p.loopedAtSample = 0

	// Channels and voices persist for the player's lifetime but are reset to
	// their construction-time state on every Start, not reallocated: any
	// voice left sounding from a previous song is silenced first so the new
	// song starts from silence rather than inheriting a stuck note.
	for i := range p.voices {
		if p.voices[i].inUse && p.voices[i].channelIdx >= 0 {
			p.voiceKeyOff(&p.voices[i])
		}
	}
	p.voices = newVoices(p.cfg.OPLMode)
	for i := range p.channels {
		p.channels[i] = newChannel()
	}
	return nil
}

// Stop halts playback. Unlike Pause, a subsequent Start always restarts
// from the beginning; there is no resume point to preserve.
func (p *Player) Stop() {
	p.playing = false
	p.paused = false
}

// Pause suspends event processing and advancement of the playback clock
// without releasing any currently sounding voices, so resuming continues
// exactly where it left off.
func (p *Player) Pause() {
	if p.playing {
		p.paused = true
	}
}

// Resume continues playback after Pause.
func (p *Player) Resume() {
	p.paused = false
}

// IsPlaying reports whether the player is actively advancing the score
// (false both when stopped and when paused).
func (p *Player) IsPlaying() bool {
	return p.playing && !p.paused
}

// SetMasterVolume sets the 0-127 master fader applied on top of every
// voice's note and channel volume.
func (p *Player) SetMasterVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 127 {
		volume = 127
	}
	p.masterVolume = volume

	for i := range p.voices {
		v := &p.voices[i]
		if v.inUse && v.currentInstr != nil {
			p.setVoiceVolume(v, v.noteVolume)
		}
	}
}

// PositionMs reports elapsed playback time in milliseconds.
func (p *Player) PositionMs() uint32 {
	return uint32(p.currentSample * 1000 / uint64(p.cfg.SampleRate))
}

// LengthMs reports the loaded score's total duration in milliseconds,
// computed by summing every event delay up to end-of-score. Returns 0 when
// no score is loaded. Looping playback runs indefinitely regardless.
func (p *Player) LengthMs() uint32 {
	if p.score == nil {
		return 0
	}
	return uint32(p.score.durationTicks() * 1000 / ticksPerSecond)
}

// SeekMs restarts playback from the beginning; this player does not support
// sample-accurate seeking to an arbitrary offset, matching the facade it is
// grounded on.
func (p *Player) SeekMs(uint32) error {
	if p.score == nil {
		return errNotInitialized("no score loaded")
	}
	return p.Start(p.looping)
}
