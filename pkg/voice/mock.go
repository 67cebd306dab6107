package voice

import (
	"errors"
	"sync"
)

// NoteEvent records one StartNote call on a MockVoice.
type NoteEvent struct {
	MIDI      int
	Amplitude int
}

// ProgramEvent records one SetInstrument call on a MockVoice.
type ProgramEvent struct {
	Program uint8
	BankMSB uint8
	BankLSB uint8
}

// MockVoice is a Voice that records calls for testing. Error injection
// via the Fail* flags simulates a broken audio backend.
type MockVoice struct {
	mu       sync.Mutex
	Started  []NoteEvent
	Stopped  []int
	Programs []ProgramEvent

	FailStart      bool
	FailStop       bool
	FailInstrument bool
}

var errBackend = errors.New("mock backend failure")

// StartNote records the note-on.
func (m *MockVoice) StartNote(midiNote, amplitude int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailStart {
		return errBackend
	}
	m.Started = append(m.Started, NoteEvent{MIDI: midiNote, Amplitude: amplitude})
	return nil
}

// StopNote records the note-off.
func (m *MockVoice) StopNote(midiNote int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailStop {
		return errBackend
	}
	m.Stopped = append(m.Stopped, midiNote)
	return nil
}

// SetInstrument records the program change.
func (m *MockVoice) SetInstrument(program, bankMSB, bankLSB uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInstrument {
		return errBackend
	}
	m.Programs = append(m.Programs, ProgramEvent{Program: program, BankMSB: bankMSB, BankLSB: bankLSB})
	return nil
}

// StartedNotes returns a copy of the recorded note-on events.
func (m *MockVoice) StartedNotes() []NoteEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NoteEvent, len(m.Started))
	copy(out, m.Started)
	return out
}

// StoppedNotes returns a copy of the recorded note-off MIDI numbers.
func (m *MockVoice) StoppedNotes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.Stopped))
	copy(out, m.Stopped)
	return out
}

// Reset clears all recorded events.
func (m *MockVoice) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started = nil
	m.Stopped = nil
	m.Programs = nil
}

// MockVoices returns one MockVoice per sector plus the engine-ready
// array view of them.
func MockVoices() ([NumSectors]*MockVoice, [NumSectors]Voice) {
	var mocks [NumSectors]*MockVoice
	var voices [NumSectors]Voice
	for i := range mocks {
		mocks[i] = &MockVoice{}
		voices[i] = mocks[i]
	}
	return mocks, voices
}

var _ Voice = (*MockVoice)(nil)
