package midi

import (
	"fmt"

	"github.com/sampleforge-dev/sampleforge/errs"
)

// byteStream is a forward-only cursor over a MIDI file's bytes. It mirrors
// entooone/simple-midi-synth's midiStream: a handful of big-endian fixed
// width readers plus a variable-length quantity reader, with running status
// tracked across channel events.
type byteStream struct {
	data       []byte
	offset     int
	runningStatus byte
}

func newByteStream(data []byte) *byteStream {
	return &byteStream{data: data}
}

func (s *byteStream) remaining() int { return len(s.data) - s.offset }

func (s *byteStream) need(n int) error {
	if s.remaining() < n {
		return fmt.Errorf("%w: unexpected end of MIDI stream", errs.ErrUnsupportedMIDI)
	}
	return nil
}

func (s *byteStream) readString(n int) (string, error) {
	if err := s.need(n); err != nil {
		return "", err
	}
	v := string(s.data[s.offset : s.offset+n])
	s.offset += n
	return v, nil
}

func (s *byteStream) readUint8() (byte, error) {
	if err := s.need(1); err != nil {
		return 0, err
	}
	v := s.data[s.offset]
	s.offset++
	return v, nil
}

func (s *byteStream) readUint16() (uint16, error) {
	if err := s.need(2); err != nil {
		return 0, err
	}
	v := uint16(s.data[s.offset])<<8 | uint16(s.data[s.offset+1])
	s.offset += 2
	return v, nil
}

func (s *byteStream) readUint24() (uint32, error) {
	if err := s.need(3); err != nil {
		return 0, err
	}
	v := uint32(s.data[s.offset])<<16 | uint32(s.data[s.offset+1])<<8 | uint32(s.data[s.offset+2])
	s.offset += 3
	return v, nil
}

func (s *byteStream) readUint32() (uint32, error) {
	if err := s.need(4); err != nil {
		return 0, err
	}
	v := uint32(s.data[s.offset])<<24 | uint32(s.data[s.offset+1])<<16 |
		uint32(s.data[s.offset+2])<<8 | uint32(s.data[s.offset+3])
	s.offset += 4
	return v, nil
}

// readVarUint reads a MIDI variable-length quantity: 7 data bits per byte,
// continuation signaled by the high bit.
func (s *byteStream) readVarUint() (uint32, error) {
	var value uint32
	for {
		b, err := s.readUint8()
		if err != nil {
			return 0, err
		}
		value = (value << 7) | uint32(b&0x7f)
		if b&0x80 == 0 {
			return value, nil
		}
	}
}

func (s *byteStream) skip(n int) error {
	if err := s.need(n); err != nil {
		return err
	}
	s.offset += n
	return nil
}

// chunk is one MThd/MTrk block.
type chunk struct {
	id   string
	data []byte
}

func (s *byteStream) readChunk() (*chunk, error) {
	id, err := s.readString(4)
	if err != nil {
		return nil, err
	}
	length, err := s.readUint32()
	if err != nil {
		return nil, err
	}
	if err := s.need(int(length)); err != nil {
		return nil, err
	}
	data := s.data[s.offset : s.offset+int(length)]
	s.offset += int(length)
	return &chunk{id: id, data: data}, nil
}
