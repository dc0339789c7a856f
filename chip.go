package musdoom

// OPLChip is the external collaborator this package drives: an emulated
// dual-bank OPL2/OPL3 FM synthesis chip. Register addressing follows the
// Chocolate Doom convention this package's register programmer is grounded
// on: low-bank addresses are 0x000-0x0FF; an address with bit 0x100 set
// targets the second (high) bank's registers, present only in OPL3 mode.
//
// Any implementation satisfying this contract can be used, including one
// that is not bit-accurate to real OPL3 silicon; register programming
// correctness (what gets written, in what order) is this package's concern,
// not the chip's internal synthesis accuracy.
type OPLChip interface {
	// Reset (re)initializes the chip for the given output sample rate.
	Reset(sampleRate int)

	// WriteReg writes value to the given banked register address.
	WriteReg(reg int, value byte)

	// GenerateResampled advances the chip's internal clock by exactly one
	// output sample and writes the resulting stereo frame into out[0]
	// (left) and out[1] (right).
	GenerateResampled(out *[2]int16)
}
