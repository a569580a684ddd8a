package midi

import "github.com/sampleforge-dev/sampleforge/errs"

// eventKind identifies the subset of MIDI events the scheduler cares about.
// Every other meta/sysex event is still parsed (to keep the stream cursor
// correct) but reported as kindOther.
type eventKind int

const (
	kindOther eventKind = iota
	kindNoteOn
	kindNoteOff
	kindProgramChange
	kindPitchBend
	kindSetTempo
	kindEndOfTrack
)

// event is one decoded MIDI track event with its delta time (in ticks);
// the caller adds delta to a running absolute tick counter.
type event struct {
	kind     eventKind
	channel  int
	note     int
	velocity int
	program  int
	bend     int // raw 14-bit pitch wheel value, centered at 8192
	tempo    uint32
	delta    uint32
}

// trackReader decodes the events of one MTrk chunk, tracking MIDI running
// status the way entooone/simple-midi-synth's readEvent does.
type trackReader struct {
	s *byteStream
}

func newTrackReader(data []byte) *trackReader {
	return &trackReader{s: newByteStream(data)}
}

func (r *trackReader) atEnd() bool { return r.s.remaining() == 0 }

func (r *trackReader) readEvent() (*event, error) {
	delta, err := r.s.readVarUint()
	if err != nil {
		return nil, err
	}

	statusByte, err := r.s.readUint8()
	if err != nil {
		return nil, err
	}

	if statusByte&0xf0 == 0xf0 {
		return r.readSystemEvent(statusByte, delta)
	}
	return r.readChannelEvent(statusByte, delta)
}

func (r *trackReader) readSystemEvent(statusByte byte, delta uint32) (*event, error) {
	switch statusByte {
	case 0xff: // meta event
		subType, err := r.s.readUint8()
		if err != nil {
			return nil, err
		}
		length, err := r.s.readVarUint()
		if err != nil {
			return nil, err
		}
		switch subType {
		case 0x51: // set tempo, 3-byte microseconds-per-quarter-note
			if length != 3 {
				if err := r.s.skip(int(length)); err != nil {
					return nil, err
				}
				return &event{kind: kindOther, delta: delta}, nil
			}
			tempo, err := r.s.readUint24()
			if err != nil {
				return nil, err
			}
			return &event{kind: kindSetTempo, tempo: tempo, delta: delta}, nil
		case 0x2f: // end of track
			if err := r.s.skip(int(length)); err != nil {
				return nil, err
			}
			return &event{kind: kindEndOfTrack, delta: delta}, nil
		default:
			if err := r.s.skip(int(length)); err != nil {
				return nil, err
			}
			return &event{kind: kindOther, delta: delta}, nil
		}
	case 0xf0, 0xf7: // sysex / divided sysex
		length, err := r.s.readVarUint()
		if err != nil {
			return nil, err
		}
		if err := r.s.skip(int(length)); err != nil {
			return nil, err
		}
		return &event{kind: kindOther, delta: delta}, nil
	default:
		return nil, errs.ErrUnsupportedMIDI
	}
}

func (r *trackReader) readChannelEvent(statusByte byte, delta uint32) (*event, error) {
	var param byte
	if statusByte&0x80 == 0 {
		// Running status: this byte is actually the first data byte.
		param = statusByte
		statusByte = r.s.runningStatus
	} else {
		p, err := r.s.readUint8()
		if err != nil {
			return nil, err
		}
		param = p
		r.s.runningStatus = statusByte
	}

	channel := int(statusByte & 0x0f)
	switch statusByte >> 4 {
	case 0x8: // note off
		velocity, err := r.s.readUint8()
		if err != nil {
			return nil, err
		}
		return &event{kind: kindNoteOff, channel: channel, note: int(param), velocity: int(velocity), delta: delta}, nil
	case 0x9: // note on (velocity 0 means note off, reported as kindNoteOff)
		velocity, err := r.s.readUint8()
		if err != nil {
			return nil, err
		}
		kind := kindNoteOn
		if velocity == 0 {
			kind = kindNoteOff
		}
		return &event{kind: kind, channel: channel, note: int(param), velocity: int(velocity), delta: delta}, nil
	case 0xa: // polyphonic aftertouch
		if _, err := r.s.readUint8(); err != nil {
			return nil, err
		}
		return &event{kind: kindOther, channel: channel, delta: delta}, nil
	case 0xb: // controller
		if _, err := r.s.readUint8(); err != nil {
			return nil, err
		}
		return &event{kind: kindOther, channel: channel, delta: delta}, nil
	case 0xc: // program change
		return &event{kind: kindProgramChange, channel: channel, program: int(param), delta: delta}, nil
	case 0xd: // channel aftertouch
		return &event{kind: kindOther, channel: channel, delta: delta}, nil
	case 0xe: // pitch bend
		hi, err := r.s.readUint8()
		if err != nil {
			return nil, err
		}
		bend := int(param) | int(hi)<<7
		return &event{kind: kindPitchBend, channel: channel, bend: bend, delta: delta}, nil
	default:
		return nil, errs.ErrUnsupportedMIDI
	}
}
