// Package soundfont parses the text configuration grammar described in
// spec.md §6 and loads it into a midi.InstrumentSet, grounded on
// original_source/swood/soundfont.py's SoundFont/Instrument classes.
package soundfont

import (
	"github.com/sampleforge-dev/sampleforge/midi"
	"github.com/sampleforge-dev/sampleforge/pcm"
)

// Instrument is one configured MIDI instrument: a sample plus the
// playback parameters swood/soundfont.py's Instrument class carries
// (volume, pan, pitch override, fullclip, noscale). It satisfies
// midi.Instrument.
type Instrument struct {
	sample     *pcm.Sample
	sampleFile string // pre-load filename reference, empty once loaded or silenced

	volume   float64
	pan      float64
	pitch    float64 // >0 overrides the sample's detected fundamental
	fullClip bool
	noScale  bool
}

func (i *Instrument) Volume() float64 { return i.volume }
func (i *Instrument) Pan() float64    { return i.pan }
func (i *Instrument) FullClip() bool  { return i.fullClip }
func (i *Instrument) NoScale() bool   { return i.noScale }

// Fundamental returns the configured pitch override if one was set,
// otherwise the sample's spectrally detected fundamental.
func (i *Instrument) Fundamental() float64 {
	if i.pitch > 0 {
		return i.pitch
	}
	if i.sample == nil {
		return 0
	}
	return i.sample.Fundamental
}

// Samples returns the instrument's per-channel PCM, or nil for a silenced
// instrument (file=none/null).
func (i *Instrument) Samples() [][]int32 {
	if i.sample == nil {
		return nil
	}
	return i.sample.Data
}

// Font is a loaded soundfont: a polymorphic instrument lookup by MIDI
// program number or percussion note number.
type Font struct {
	byProgram        map[int]*Instrument
	byPercussionNote map[int]*Instrument
	fallback         *Instrument

	FrameRate int
	Channels  int
}

// ByProgram resolves a MIDI program-change value (0-127) to an
// Instrument. An unconfigured program falls back to program 0 (General
// MIDI Acoustic Grand Piano), matching spec.md §4.2's "missing
// program_change: assume General MIDI program #1".
func (f *Font) ByProgram(program int) midi.Instrument {
	if inst, ok := f.byProgram[program]; ok {
		return inst
	}
	if inst, ok := f.byProgram[0]; ok {
		return inst
	}
	return f.fallback
}

// ByPercussionNote resolves a channel-10 note number (35-81) to its
// percussion Instrument, falling back to the font's default instrument
// for unmapped note numbers.
func (f *Font) ByPercussionNote(note int) midi.Instrument {
	if inst, ok := f.byPercussionNote[note]; ok {
		return inst
	}
	return f.fallback
}

// Default builds the trivial font from spec.md §2: every MIDI program
// and every percussion note maps to the single loaded sample, grounded on
// swood/soundfont.py's DefaultFont.
func Default(sample *pcm.Sample) *Font {
	inst := &Instrument{sample: sample, volume: defaultVolume, pan: defaultPan}
	f := &Font{
		byProgram:        map[int]*Instrument{0: inst},
		byPercussionNote: map[int]*Instrument{},
		fallback:         inst,
	}
	if sample != nil {
		f.FrameRate = sample.FrameRate
		f.Channels = sample.Channels
	}
	return f
}
