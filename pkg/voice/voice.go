package voice

// Voice is one addressable audio channel provided by the external audio
// collaborator. Initialization, sound-bank loading, and stereo pan are
// the collaborator's concern; the engine only starts and stops notes and
// rebinds instruments.
type Voice interface {
	// StartNote begins sounding a MIDI note at the given amplitude
	// (1-127).
	StartNote(midiNote, amplitude int) error

	// StopNote silences a sounding MIDI note.
	StopNote(midiNote int) error

	// SetInstrument rebinds the voice to an instrument program/bank.
	SetInstrument(program, bankMSB, bankLSB uint8) error
}
