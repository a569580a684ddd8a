// Package midi translates a standard MIDI byte stream into a sample-indexed
// Schedule of Notes, the way entooone/simple-midi-synth's parser walks MThd
// and MTrk chunks, but tracking per-channel note lifecycles and pitch-bend
// continuations instead of driving a live synth.
package midi

import (
	"fmt"
	"math"
	"sort"

	"github.com/sampleforge-dev/sampleforge/errs"
)

const (
	defaultTempoUS = 500000 // microseconds per quarter note, 120 BPM
	percussionChan = 9      // MIDI channel 10, zero-indexed
)

// Result is the MIDI parser's output contract.
type Result struct {
	Schedule    *Schedule
	TotalLength int     // output samples
	MaxVolume   float64 // peak simultaneous polyphonic volume sum
	MaxPitch    float64 // Hz, peak pitch seen across the schedule
	NoteCount   int
	Warnings    []string
}

type channelState struct {
	program int
	bend    int // semitones
	open    map[int][]*openNote
}

func newChannelState() *channelState {
	return &channelState{open: make(map[int][]*openNote)}
}

// timedEvent pairs a decoded event with its absolute tick, so that events
// from every track of a type-1 file can be merged into one global order
// before tempo is applied.
type timedEvent struct {
	tick  uint32
	track int
	ev    *event
}

// Parse decodes data as a standard MIDI file and schedules its note events
// at frameRate, honoring transpose (semitones) and speed (a positive
// multiplier shrinking or stretching all timing).
func Parse(data []byte, instruments InstrumentSet, transpose int, speed float64, frameRate int) (*Result, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("%w: speed must be positive, got %v", errs.ErrInvalidArgument, speed)
	}

	s := newByteStream(data)
	header, err := s.readChunk()
	if err != nil {
		return nil, err
	}
	if header.id != "MThd" {
		return nil, fmt.Errorf("%w: missing MThd header", errs.ErrUnsupportedMIDI)
	}
	hs := newByteStream(header.data)
	format, err := hs.readUint16()
	if err != nil {
		return nil, err
	}
	if format == 2 {
		return nil, fmt.Errorf("%w: type-2 (asynchronous multi-track) MIDI is not supported", errs.ErrUnsupportedMIDI)
	}
	ntracks, err := hs.readUint16()
	if err != nil {
		return nil, err
	}
	division, err := hs.readUint16()
	if err != nil {
		return nil, err
	}

	var ticksPerQuarter uint32
	var secondsPerTick float64 // nonzero only for SMPTE division, constant
	if division&0x8000 == 0 {
		ticksPerQuarter = uint32(division)
	} else {
		framesPerSecond := -int8(division >> 8)
		ticksPerFrame := division & 0xff
		secondsPerTick = 1.0 / (float64(framesPerSecond) * float64(ticksPerFrame))
	}

	var all []timedEvent
	for t := 0; t < int(ntracks); t++ {
		trackChunk, err := s.readChunk()
		if err != nil {
			return nil, err
		}
		if trackChunk.id != "MTrk" {
			continue
		}
		events, err := decodeTrack(trackChunk.data)
		if err != nil {
			return nil, err
		}
		for _, te := range events {
			all = append(all, timedEvent{tick: te.tick, track: t, ev: te.ev})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].tick != all[j].tick {
			return all[i].tick < all[j].tick
		}
		return all[i].track < all[j].track
	})

	p := &parser{
		instruments: instruments,
		transpose:   transpose,
		speed:       speed,
		frameRate:   frameRate,
		schedule:    newSchedule(),
		channels:    make(map[int]*channelState),
		tempoUS:     defaultTempoUS,
	}

	var currentTick uint32
	var currentTimeSec float64
	for _, te := range all {
		deltaTicks := te.tick - currentTick
		if secondsPerTick > 0 {
			currentTimeSec += float64(deltaTicks) * secondsPerTick
		} else {
			currentTimeSec += float64(deltaTicks) * float64(p.tempoUS) / 1e6 / float64(ticksPerQuarter)
		}
		currentTick = te.tick
		p.handle(te.ev, currentTimeSec)
	}

	p.closeRemaining(currentTimeSec)

	return &Result{
		Schedule:    p.schedule,
		TotalLength: p.totalLength,
		MaxVolume:   p.maxVolume,
		MaxPitch:    p.maxPitch,
		NoteCount:   p.noteCount,
		Warnings:    p.warnings,
	}, nil
}

type trackTick struct {
	tick uint32
	ev   *event
}

func decodeTrack(data []byte) ([]trackTick, error) {
	r := newTrackReader(data)
	var tick uint32
	var out []trackTick
	for !r.atEnd() {
		ev, err := r.readEvent()
		if err != nil {
			return nil, err
		}
		tick += ev.delta
		out = append(out, trackTick{tick: tick, ev: ev})
		if ev.kind == kindEndOfTrack {
			break
		}
	}
	return out, nil
}

type parser struct {
	instruments InstrumentSet
	transpose   int
	speed       float64
	frameRate   int

	schedule *Schedule
	channels map[int]*channelState

	tempoUS uint32

	polySum     float64
	maxVolume   float64
	maxPitch    float64
	noteCount   int
	totalLength int
	warnings    []string
}

func (p *parser) channel(c int) *channelState {
	ch, ok := p.channels[c]
	if !ok {
		ch = newChannelState()
		p.channels[c] = ch
	}
	return ch
}

func (p *parser) sampleIndex(t float64) int {
	n := int(math.Round(t * float64(p.frameRate) / p.speed))
	if n > p.totalLength {
		p.totalLength = n
	}
	return n
}

func noteHz(pitchNumber int, bendSemitones int) float64 {
	n := float64(pitchNumber) + float64(bendSemitones)
	return 440 * math.Pow(2, (n-69)/12)
}

func (p *parser) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *parser) handle(ev *event, t float64) {
	switch ev.kind {
	case kindNoteOn:
		p.noteOn(ev, t)
	case kindNoteOff:
		p.noteOff(ev, t)
	case kindProgramChange:
		p.channel(ev.channel).program = ev.program
	case kindPitchBend:
		p.pitchBend(ev, t)
	case kindSetTempo:
		p.tempoUS = ev.tempo
	}
}

func (p *parser) noteOn(ev *event, t float64) {
	ch := p.channel(ev.channel)
	percussion := ev.channel == percussionChan

	var inst Instrument
	var pitchNumber, bend int
	if percussion {
		inst = p.instruments.ByPercussionNote(ev.note)
		pitchNumber = ev.note
		bend = 0
	} else {
		inst = p.instruments.ByProgram(ch.program)
		pitchNumber = ev.note + p.transpose
		bend = ch.bend
	}

	volume := float64(ev.velocity) / 127 * inst.Volume()
	on := &openNote{
		pitchNumber: pitchNumber,
		bend:        bend,
		start:       p.sampleIndex(t),
		instrument:  inst,
		volume:      volume,
		percussion:  percussion,
	}
	ch.open[ev.note] = append(ch.open[ev.note], on)

	p.polySum += volume
	if p.polySum > p.maxVolume {
		p.maxVolume = p.polySum
	}
}

func (p *parser) noteOff(ev *event, t float64) {
	ch := p.channel(ev.channel)
	open := ch.open[ev.note]
	if len(open) == 0 {
		p.warn("note-off without matching note-on: channel %d note %d", ev.channel, ev.note)
		return
	}
	on := open[0]
	ch.open[ev.note] = open[1:]

	p.finalize(on, t)
	p.polySum -= on.volume
}

// finalize closes on at time t, emitting the resulting Note into the
// schedule.
func (p *parser) finalize(on *openNote, t float64) {
	end := p.sampleIndex(t)
	length := end - on.start
	if length < 0 {
		length = 0
	}
	freq := noteHz(on.pitchNumber, on.bend)
	n := &Note{
		Start:       on.start,
		Length:      length,
		Pitch:       freq,
		Volume:      on.volume,
		SampleStart: on.sampleStart,
		Instrument:  on.instrument,
		Percussion:  on.percussion,
		Bend:        on.bent,
	}
	p.schedule.Add(n)
	p.noteCount++
	if freq > p.maxPitch {
		p.maxPitch = freq
	}
}

func (p *parser) pitchBend(ev *event, t float64) {
	if ev.channel == percussionChan {
		return // percussion skips the pitch-bend pipeline entirely
	}
	ch := p.channel(ev.channel)
	newBend := int(math.Round(float64(ev.bend-8192) / 8192 * 12))
	if newBend == ch.bend {
		return
	}

	now := p.sampleIndex(t)
	for _, open := range ch.open {
		for _, on := range open {
			lengthSoFar := now - on.start
			oldFreq := noteHz(on.pitchNumber, on.bend)
			if lengthSoFar > 0 {
				cont := &Note{
					Start:       on.start,
					Length:      lengthSoFar,
					Pitch:       oldFreq,
					Volume:      on.volume,
					SampleStart: on.sampleStart,
					Instrument:  on.instrument,
					Percussion:  false,
					Bend:        true,
				}
				p.schedule.Add(cont)
				p.noteCount++
				if oldFreq > p.maxPitch {
					p.maxPitch = oldFreq
				}
			}
			ratio := on.instrument.Fundamental() / oldFreq
			on.sampleStart += int(math.Round(float64(lengthSoFar) * ratio))
			on.start = now
			on.bend = newBend
			on.bent = true
		}
	}
	ch.bend = newBend
}

// closeRemaining finalizes any note that never received a matching
// note-off, per the terminal policy: close at the final tick with a
// warning.
func (p *parser) closeRemaining(t float64) {
	for c, ch := range p.channels {
		for note, open := range ch.open {
			for _, on := range open {
				p.warn("MIDI ended with an open note: channel %d note %d", c, note)
				p.finalize(on, t)
			}
		}
	}
}
