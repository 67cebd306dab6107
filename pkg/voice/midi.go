package voice

import (
	"fmt"
	"log/slog"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Bank select and pan controller numbers.
const (
	ccBankMSB = 0
	ccPan     = 10
	ccBankLSB = 32
)

// MIDIVoice plays one sector on one MIDI channel of a shared output
// port. The stereo pan is set once at construction from the sector's
// fixed position.
type MIDIVoice struct {
	send    func(midi.Message) error
	channel uint8
}

// StartNote sends a note-on.
func (v *MIDIVoice) StartNote(midiNote, amplitude int) error {
	return v.send(midi.NoteOn(v.channel, uint8(midiNote), uint8(amplitude)))
}

// StopNote sends a note-off.
func (v *MIDIVoice) StopNote(midiNote int) error {
	return v.send(midi.NoteOff(v.channel, uint8(midiNote)))
}

// SetInstrument sends bank select followed by a program change.
func (v *MIDIVoice) SetInstrument(program, bankMSB, bankLSB uint8) error {
	if err := v.send(midi.ControlChange(v.channel, ccBankMSB, bankMSB)); err != nil {
		return err
	}
	if err := v.send(midi.ControlChange(v.channel, ccBankLSB, bankLSB)); err != nil {
		return err
	}
	return v.send(midi.ProgramChange(v.channel, program))
}

// setPan positions the channel in the stereo field, pan in [-1,1].
func (v *MIDIVoice) setPan(pan float64) error {
	value := uint8(64 + pan*63)
	return v.send(midi.ControlChange(v.channel, ccPan, value))
}

// MIDIOutput owns the rtmidi driver and output port behind the three
// sector voices.
type MIDIOutput struct {
	drv    *rtmididrv.Driver
	out    drivers.Out
	send   func(midi.Message) error
	logger *slog.Logger
}

// OpenMIDIOutput opens a MIDI output port. A non-empty portName selects
// the first port whose name contains it (case-insensitive); otherwise
// the first available port is used. logger may be nil.
func OpenMIDIOutput(portName string, logger *slog.Logger) (*MIDIOutput, error) {
	if logger == nil {
		logger = slog.Default()
	}

	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}

	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("list midi outputs: %w", err)
	}
	if len(outs) == 0 {
		drv.Close()
		return nil, fmt.Errorf("no midi output ports available")
	}

	out := outs[0]
	if portName != "" {
		found := false
		for _, candidate := range outs {
			if strings.Contains(strings.ToLower(candidate.String()), strings.ToLower(portName)) {
				out = candidate
				found = true
				break
			}
		}
		if !found {
			logger.Warn("midi: preferred port not found, using first",
				"preferred", portName,
				"using", out.String(),
			)
		}
	}

	if err := out.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("open midi port %q: %w", out.String(), err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		out.Close()
		drv.Close()
		return nil, fmt.Errorf("midi sender: %w", err)
	}

	logger.Info("midi output opened", "port", out.String())

	return &MIDIOutput{drv: drv, out: out, send: send, logger: logger}, nil
}

// Voices returns one voice per sector, channels 0-2, each panned to its
// sector's fixed stereo position.
func (o *MIDIOutput) Voices() [NumSectors]Voice {
	var voices [NumSectors]Voice
	for s := Sector(0); s < NumSectors; s++ {
		v := &MIDIVoice{send: o.send, channel: uint8(s)}
		if err := v.setPan(s.Pan()); err != nil {
			o.logger.Warn("midi: pan setup failed", "sector", s.String(), "err", err)
		}
		voices[s] = v
	}
	return voices
}

// Close closes the output port and driver.
func (o *MIDIOutput) Close() error {
	if err := o.out.Close(); err != nil {
		o.drv.Close()
		return err
	}
	return o.drv.Close()
}

var _ Voice = (*MIDIVoice)(nil)
