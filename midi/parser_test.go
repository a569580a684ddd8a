package midi

import (
	"errors"
	"math"
	"testing"

	"github.com/sampleforge-dev/sampleforge/errs"
)

// stubInstrument is a fixed-volume, fixed-fundamental Instrument used by
// every parser test; the parser never looks past this interface.
type stubInstrument struct {
	volume      float64
	fundamental float64
}

func (s *stubInstrument) Volume() float64      { return s.volume }
func (s *stubInstrument) Fundamental() float64 { return s.fundamental }
func (s *stubInstrument) NoScale() bool        { return false }
func (s *stubInstrument) FullClip() bool       { return false }
func (s *stubInstrument) Samples() [][]int32   { return nil }

type stubInstruments struct{ inst Instrument }

func (s *stubInstruments) ByProgram(int) Instrument        { return s.inst }
func (s *stubInstruments) ByPercussionNote(int) Instrument { return s.inst }

func varLen(v uint32) []byte {
	var out []byte
	out = append(out, byte(v&0x7f))
	v >>= 7
	for v > 0 {
		out = append([]byte{byte(v&0x7f) | 0x80}, out...)
		v >>= 7
	}
	return out
}

func chunkBytes(id string, data []byte) []byte {
	out := []byte(id)
	n := uint32(len(data))
	out = append(out, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	return append(out, data...)
}

func tempoMeta(us uint32) []byte {
	return append([]byte{0x00, 0xff, 0x51, 0x03}, byte(us>>16), byte(us>>8), byte(us))
}

func endOfTrack() []byte { return []byte{0x00, 0xff, 0x2f, 0x00} }

func endOfTrackAfter(deltaTicks byte) []byte { return []byte{deltaTicks, 0xff, 0x2f, 0x00} }

// buildMIDI assembles a format-0, single-track MIDI file with the given
// ticksPerQuarter division and track body bytes (caller supplies the tempo
// meta event and end-of-track marker as part of body).
func buildMIDI(ticksPerQuarter uint16, body []byte) []byte {
	header := []byte{0x00, 0x00, 0x00, 0x01, byte(ticksPerQuarter >> 8), byte(ticksPerQuarter)}
	out := chunkBytes("MThd", header)
	out = append(out, chunkBytes("MTrk", body)...)
	return out
}

func TestSingleNoteSchedule(t *testing.T) {
	body := tempoMeta(1000000) // 1 tick == 1 second at ticksPerQuarter=1
	body = append(body, 0x00, 0x90, 60, 100)     // note-on ch0 note60 vel100
	body = append(body, 0x01, 0x80, 60, 0)       // 1 tick later, note-off
	body = append(body, endOfTrack()...)
	data := buildMIDI(1, body)

	inst := &stubInstrument{volume: 1, fundamental: 261.63}
	res, err := Parse(data, &stubInstruments{inst}, 0, 1, 44100)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.NoteCount != 1 {
		t.Fatalf("NoteCount = %d, want 1", res.NoteCount)
	}
	if len(res.Schedule.Buckets()) != 1 {
		t.Fatalf("expected one bucket, got %d", len(res.Schedule.Buckets()))
	}
	n := res.Schedule.At(res.Schedule.Buckets()[0])[0]
	if n.Start != 0 {
		t.Errorf("Start = %d, want 0", n.Start)
	}
	if n.Length != 44100 {
		t.Errorf("Length = %d, want 44100", n.Length)
	}
	wantPitch := 440 * math.Pow(2, (60.0-69)/12)
	if math.Abs(n.Pitch-wantPitch) > 1e-6 {
		t.Errorf("Pitch = %v, want %v", n.Pitch, wantPitch)
	}
	if n.Bend {
		t.Error("expected non-bent note")
	}
}

// TestPitchBendContinuity is scenario 6 from spec.md §8: a 1-second note on
// #60 bent up two semitones halfway through must split into two buckets,
// the second one marked as a bend-continuation with a nonzero sample-start
// offset.
func TestPitchBendContinuity(t *testing.T) {
	bendValue := 8192 + int(math.Round(2.0*8192/12))
	body := tempoMeta(1000000) // ticksPerQuarter=2 => 1 tick == 0.5s
	body = append(body, 0x00, 0x90, 60, 100)
	body = append(body, 0x01, 0xe0, byte(bendValue&0x7f), byte(bendValue>>7))
	body = append(body, 0x01, 0x80, 60, 0)
	body = append(body, endOfTrack()...)
	data := buildMIDI(2, body)

	inst := &stubInstrument{volume: 1, fundamental: 220}
	res, err := Parse(data, &stubInstruments{inst}, 0, 1, 44100)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.NoteCount != 2 {
		t.Fatalf("NoteCount = %d, want 2", res.NoteCount)
	}
	buckets := res.Schedule.Buckets()
	if len(buckets) != 2 {
		t.Fatalf("expected two buckets, got %d", len(buckets))
	}
	if buckets[0] != 0 {
		t.Fatalf("first bucket start = %d, want 0", buckets[0])
	}

	first := res.Schedule.At(buckets[0])[0]
	second := res.Schedule.At(buckets[1])[0]

	if !first.Bend {
		t.Error("first segment should be a bend-continuation")
	}
	if !second.Bend {
		t.Error("second segment should be a bend-continuation")
	}
	if second.SampleStart == 0 {
		t.Error("bend-continuation segment should carry a nonzero sample-start offset")
	}

	oldFreq := 440 * math.Pow(2, (60.0-69)/12)
	wantOffset := int(math.Round(float64(first.Length) * inst.fundamental / oldFreq))
	if second.SampleStart != wantOffset {
		t.Errorf("SampleStart = %d, want %d", second.SampleStart, wantOffset)
	}

	if first.Length+second.Length != 44100 {
		t.Errorf("segment lengths sum to %d, want 44100", first.Length+second.Length)
	}
}

func TestNoteOffWithoutNoteOnWarns(t *testing.T) {
	body := tempoMeta(1000000)
	body = append(body, 0x00, 0x80, 60, 0) // stray note-off, nothing open
	body = append(body, endOfTrack()...)
	data := buildMIDI(1, body)

	inst := &stubInstrument{volume: 1, fundamental: 220}
	res, err := Parse(data, &stubInstruments{inst}, 0, 1, 44100)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one warning, got %d: %v", len(res.Warnings), res.Warnings)
	}
	if res.NoteCount != 0 {
		t.Errorf("NoteCount = %d, want 0", res.NoteCount)
	}
}

func TestOpenNoteClosedAtEnd(t *testing.T) {
	body := tempoMeta(1000000)
	body = append(body, 0x00, 0x90, 60, 100) // never closed
	body = append(body, endOfTrackAfter(1)...)
	data := buildMIDI(1, body)

	inst := &stubInstrument{volume: 1, fundamental: 220}
	res, err := Parse(data, &stubInstruments{inst}, 0, 1, 44100)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.NoteCount != 1 {
		t.Fatalf("NoteCount = %d, want 1", res.NoteCount)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("expected a warning for the still-open note, got %d", len(res.Warnings))
	}
}

func TestTypeTwoRejected(t *testing.T) {
	header := []byte{0x00, 0x02, 0x00, 0x01, 0x00, 0x60}
	data := chunkBytes("MThd", header)
	data = append(data, chunkBytes("MTrk", endOfTrack())...)

	inst := &stubInstrument{volume: 1, fundamental: 220}
	_, err := Parse(data, &stubInstruments{inst}, 0, 1, 44100)
	if !errors.Is(err, errs.ErrUnsupportedMIDI) {
		t.Fatalf("err = %v, want ErrUnsupportedMIDI", err)
	}
}

func TestNonPositiveSpeedRejected(t *testing.T) {
	data := buildMIDI(1, append(tempoMeta(1000000), endOfTrack()...))
	inst := &stubInstrument{volume: 1, fundamental: 220}
	_, err := Parse(data, &stubInstruments{inst}, 0, 0, 44100)
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
