package render

import (
	"math"
	"testing"

	"github.com/sampleforge-dev/sampleforge/midi"
)

type stubInstrument struct {
	samples     [][]int32
	volume      float64
	fundamental float64
	noScale     bool
	fullClip    bool
}

func (s *stubInstrument) Volume() float64      { return s.volume }
func (s *stubInstrument) Fundamental() float64 { return s.fundamental }
func (s *stubInstrument) NoScale() bool        { return s.noScale }
func (s *stubInstrument) FullClip() bool       { return s.fullClip }
func (s *stubInstrument) Samples() [][]int32   { return s.samples }

func sine(freq float64, rate, n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(20000 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

type fakeSink struct {
	writes []struct {
		start   int
		data    [][]int32
		cutoffs []int
	}
	saved int
}

func (f *fakeSink) AddData(start int, data [][]int32, cutoffs []int) {
	f.writes = append(f.writes, struct {
		start   int
		data    [][]int32
		cutoffs []int
	}{start, data, cutoffs})
}

func (f *fakeSink) Save() error {
	f.saved++
	return nil
}

// TestOctaveUpResampleLength is scenario 3 from spec.md §8: a note an
// octave above the sample's fundamental should resample to roughly half
// the original sample's length.
func TestOctaveUpResampleLength(t *testing.T) {
	rate := 44100
	inst := &stubInstrument{
		samples:     [][]int32{sine(220, rate, rate)},
		volume:      1,
		fundamental: 220,
	}
	r := New(Options{FrameRate: rate, Threshold: 4096, CacheSize: 5})

	n := &midi.Note{Start: 0, Length: rate / 2, Pitch: 440, Volume: 1, Instrument: inst}
	data, _ := r.renderFresh(n)

	want := rate / 2
	if got := len(data[0]); math.Abs(float64(got-want)) > float64(want)*0.02 {
		t.Errorf("resampled length = %d, want ~%d", got, want)
	}
}

// TestCacheHitSingleResample is scenario 4: two cache-equivalent notes
// must resample exactly once and write data of the same per-channel length.
func TestCacheHitSingleResample(t *testing.T) {
	rate := 44100
	inst := &stubInstrument{
		samples:     [][]int32{sine(220, rate, rate)},
		volume:      1,
		fundamental: 220,
	}
	r := New(Options{FrameRate: rate, Threshold: 4096, CacheSize: 5})
	calls := 0
	r.resample = func(src []int32, ratio float64) []int32 {
		calls++
		out := make([]int32, len(src))
		copy(out, src)
		return out
	}

	schedule := midi.NewSchedule()
	n1 := &midi.Note{Start: 0, Length: rate / 2, Pitch: 440, Volume: 1, Instrument: inst}
	n2 := &midi.Note{Start: rate, Length: rate / 2, Pitch: 440, Volume: 1, Instrument: inst}
	schedule.Add(n1)
	schedule.Add(n2)

	sink := &fakeSink{}
	if err := r.Render(schedule, 1, sink); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if calls != 1 {
		t.Errorf("resampler called %d times, want 1", calls)
	}
	if len(sink.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(sink.writes))
	}
	for c := range sink.writes[0].data {
		if len(sink.writes[0].data[c]) != len(sink.writes[1].data[c]) {
			t.Errorf("channel %d lengths differ between cache hit and miss", c)
		}
	}
	if sink.saved != 1 {
		t.Errorf("Save called %d times, want 1", sink.saved)
	}
}

// TestZeroCrossingCutoff is scenario 5: threshold 0.075s on a 100Hz tone,
// note length 0.25s; cutoff must land within one period of the nominal
// end.
func TestZeroCrossingCutoff(t *testing.T) {
	rate := 44100
	threshold := int(0.075 * float64(rate))
	length := int(0.25 * float64(rate))
	ch := sine(100, rate, length+threshold+10)

	cutoff := findCutoff(ch, length, threshold)
	period := float64(rate) / 100

	if math.Abs(float64(cutoff-length)) > period+1 {
		t.Errorf("cutoff = %d, nominal end = %d, want within one period (%v)", cutoff, length, period)
	}
	if cutoff < length || cutoff > length+threshold {
		t.Errorf("cutoff %d outside window [%d, %d]", cutoff, length, length+threshold)
	}
}

func TestFullClipUsesWholeBuffer(t *testing.T) {
	rate := 44100
	inst := &stubInstrument{
		samples:     [][]int32{sine(220, rate, rate)},
		volume:      1,
		fundamental: 220,
		fullClip:    true,
	}
	r := New(Options{FrameRate: rate, Threshold: 100, CacheSize: 5})
	n := &midi.Note{Start: 0, Length: 1000, Pitch: 440, Volume: 1, Instrument: inst}

	data, cutoffs := r.renderFresh(n)
	for c, cut := range cutoffs {
		if cut != len(data[c]) {
			t.Errorf("channel %d cutoff = %d, want %d (full buffer)", c, cut, len(data[c]))
		}
	}
}

func TestBendContinuationSlices(t *testing.T) {
	rate := 44100
	inst := &stubInstrument{
		samples:     [][]int32{sine(220, rate, rate)},
		volume:      1,
		fundamental: 220,
		noScale:     true,
	}
	r := New(Options{FrameRate: rate, Threshold: 100, CacheSize: 5})
	n := &midi.Note{Start: 0, Length: 500, Pitch: 220, Volume: 1, Instrument: inst, SampleStart: 1000, Bend: true}

	data, cutoffs := r.renderFresh(n)
	for c, cut := range cutoffs {
		if cut != 500 {
			t.Errorf("channel %d cutoff = %d, want 500", c, cut)
		}
		if len(data[c]) != 500 {
			t.Errorf("channel %d length = %d, want 500", c, len(data[c]))
		}
	}
}
