package midi

import "sort"

// Instrument is the minimal view of an instrument the parser needs in order
// to finalize a Note. Package soundfont's Instrument type satisfies this,
// as does the single-sample default font.
type Instrument interface {
	// Volume is the instrument's own linear volume scalar, applied on top
	// of MIDI velocity.
	Volume() float64
	// Fundamental is the Hz the instrument's underlying sample was
	// measured at, used to compute bend-continuation sample offsets.
	Fundamental() float64
	// NoScale disables resampling: the renderer plays the raw sample at
	// ratio 1 regardless of note pitch.
	NoScale() bool
	// FullClip forces the renderer to use the whole resampled buffer
	// instead of searching for a zero-crossing cutoff.
	FullClip() bool
	// Samples returns the per-channel PCM this instrument renders from.
	Samples() [][]int32
}

// InstrumentSet resolves a MIDI program or a percussion note number to an
// Instrument. Channel 10 (index 9) is resolved by note number instead of
// program.
type InstrumentSet interface {
	ByProgram(program int) Instrument
	ByPercussionNote(note int) Instrument
}

// Note is one scheduled instrument voice: a segment of the output the
// renderer fills with resampled instrument audio. Two Notes are
// cache-equivalent iff (Length, Pitch, SampleStart, Instrument identity,
// Percussion) all match.
type Note struct {
	Start       int
	Length      int
	Pitch       float64 // Hz
	Volume      float64 // linear, before max-polyphony normalization
	SampleStart int     // resample-buffer offset, nonzero on bend continuations
	Instrument  Instrument
	Percussion  bool
	Bend        bool // true when this Note is a bend-continuation segment
}

// openNote tracks a Note between its note-on and its note-off or the next
// pitch-bend split.
type openNote struct {
	pitchNumber int // MIDI note number + transpose
	bend        int // semitones active when this segment began
	start       int // output-sample index this segment began at
	sampleStart int
	instrument  Instrument
	volume      float64
	percussion  bool
	bent        bool // true once this note has survived at least one bend split
}

// Schedule is a time-ordered sequence of Note buckets keyed by output
// sample index.
type Schedule struct {
	order   []int
	buckets map[int][]*Note
}

func newSchedule() *Schedule {
	return &Schedule{buckets: make(map[int][]*Note)}
}

// NewSchedule creates an empty Schedule. Renderer tests and callers that
// assemble a Schedule outside of Parse (e.g. to drive a renderer from a
// hand-built note list) use this instead of Parse.
func NewSchedule() *Schedule { return newSchedule() }

// Add inserts n into the bucket at n.Start, preserving insertion order
// within the bucket and strict ascending order of bucket keys.
func (s *Schedule) Add(n *Note) {
	bucket, ok := s.buckets[n.Start]
	if !ok {
		i := sort.SearchInts(s.order, n.Start)
		s.order = append(s.order, 0)
		copy(s.order[i+1:], s.order[i:])
		s.order[i] = n.Start
	}
	s.buckets[n.Start] = append(bucket, n)
}

// Buckets returns the bucket keys in strictly ascending order.
func (s *Schedule) Buckets() []int { return s.order }

// At returns the notes scheduled at key, in insertion order.
func (s *Schedule) At(key int) []*Note { return s.buckets[key] }

// Len returns the total number of scheduled notes across all buckets.
func (s *Schedule) Len() int {
	n := 0
	for _, b := range s.buckets {
		n += len(b)
	}
	return n
}
