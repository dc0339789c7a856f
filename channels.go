package musdoom

// percussionChannel is the MIDI channel index MUS channel 15 is swapped
// onto (and MUS channel 9 is swapped away from), matching process_event's
// inline swap.
const percussionChannel = 9

// channel is the per-MIDI-channel state the score parser mutates via
// program change / volume / pan / pitch bend / controller events.
type channel struct {
	instrument int // program number, melodic channels only
	volume     int // 0-127, as last set by a volume controller
	regPan     int // 0x10 right, 0x20 left, 0x30 both -- the register value, not the raw 0-127 pan
	bend       int // -64..+63
	velocity   int // last note-on velocity, reused when a play event omits one
}

func newChannel() channel {
	return channel{
		instrument: 0,
		volume:     100,
		regPan:     0x30,
		bend:       0,
		velocity:   127,
	}
}

// regPanFor maps a MUS/MIDI 0-127 pan value onto the OPL3 feedback
// register's pan bits, following the DMX convention set_channel_pan uses:
// >=96 hard right, <=48 hard left, otherwise centre (both channels).
func regPanFor(pan int) int {
	switch {
	case pan >= 96:
		return 0x10
	case pan <= 48:
		return 0x20
	default:
		return 0x30
	}
}
