package musdoom

// OPLMode selects whether the second (high) OPL3 register bank and stereo
// pan bits are used. OPL2 carries only 9 voices and no panning; on that mode
// double-voice instruments still allocate both of their voices from the
// single bank of 9, and setVoicePan becomes a no-op.
type OPLMode int

const (
	OPL3 OPLMode = iota
	OPL2
)

// DriverVersion selects which historical Doom OPL driver's quirks to
// emulate. Only Doom19 behaviour (the common case, and the one documented by
// the Chocolate Doom OPL register programming this package follows) is
// currently implemented; the other two values are accepted and behave
// identically to Doom19 (see DESIGN.md for why).
type DriverVersion int

const (
	Doom19 DriverVersion = iota
	Doom1v1666
	Doom2v1666
)

// Config configures a Player. The zero value is not usable; use
// DefaultConfig to get a populated Config and override individual fields.
type Config struct {
	SampleRate    int
	OPLMode       OPLMode
	DriverVersion DriverVersion
	InitialVolume int // 0-127
}

// DefaultConfig returns the configuration musdoom_config_init would produce:
// 44100Hz, OPL3 mode, Doom 1.9 driver behaviour, initial volume 100.
func DefaultConfig() Config {
	return Config{
		SampleRate:    44100,
		OPLMode:       OPL3,
		DriverVersion: Doom19,
		InitialVolume: 100,
	}
}
