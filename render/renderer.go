// Package render turns a midi.Schedule into PCM, resampling each note to
// its target pitch, avoiding audible clicks with a bounded zero-crossing
// search, and reusing identical renders through a bounded cache, following
// the teacher's channel-mixer shape in player.go but driven by a schedule
// instead of a tracker row/tick sequencer.
package render

import (
	"fmt"
	"math"

	"github.com/sampleforge-dev/sampleforge/errs"
	"github.com/sampleforge-dev/sampleforge/internal/resample"
	"github.com/sampleforge-dev/sampleforge/midi"
)

// distanceMultiplier is the cutoff-search penalty unit K is derived from.
// The source uses 2^32-1 despite working with signed 32-bit samples; per
// spec.md §9's resolved open question this uses 2^31 instead, which does
// not change the qualitative ranking of candidate cutoffs.
const distanceMultiplier = float64(1 << 31)

// Sink is the mixing target a render pass writes into: additive per-note
// writes (clipped to the sink's own bounds) followed by one finalizing
// Save call.
type Sink interface {
	AddData(start int, data [][]int32, cutoffs []int)
	Save() error
}

// Options configures one render pass.
type Options struct {
	FrameRate int
	Threshold int  // frames, tail window for zero-crossing search; must be >= 0
	FullClip  bool // global override, ORed with each note's instrument FullClip
	CacheSize int  // seconds; cache_horizon_frames = CacheSize * FrameRate
}

// resamplerFunc matches package resample's Channel signature; tests
// substitute a counting stand-in to verify cache-hit behavior (spec.md §8
// scenario 4) without instrumenting package resample itself.
type resamplerFunc func(src []int32, ratio float64) []int32

// Renderer renders a midi.Schedule, maintaining its own render cache
// across the whole pass. A Renderer is not safe for concurrent use.
type Renderer struct {
	opts     Options
	cache    *cache
	resample resamplerFunc
}

// New creates a Renderer. opts.Threshold must be non-negative; Render
// returns errs.ErrInvalidArgument otherwise.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts, cache: newCache(), resample: resample.Channel}
}

// Render mixes every Note in schedule into sink, in strictly ascending
// bucket order, scaling each note's volume by maxVolume (the schedule's
// peak simultaneous polyphonic volume sum), and finalizes sink with one
// Save call.
func (r *Renderer) Render(schedule *midi.Schedule, maxVolume float64, sink Sink) error {
	if r.opts.Threshold < 0 {
		return fmt.Errorf("%w: threshold must be non-negative, got %d", errs.ErrInvalidArgument, r.opts.Threshold)
	}
	horizon := r.opts.CacheSize * r.opts.FrameRate

	for _, bucketStart := range schedule.Buckets() {
		for _, n := range schedule.At(bucketStart) {
			data, cutoffs := r.renderNote(n, bucketStart)
			scale := 0.0
			if maxVolume > 0 {
				scale = n.Volume / maxVolume
			}
			sink.AddData(n.Start, scaleChannels(data, scale), cutoffs)
		}
		r.cache.tick(bucketStart, horizon)
	}

	if err := sink.Save(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	return nil
}

func (r *Renderer) renderNote(n *midi.Note, now int) ([][]int32, []int) {
	key := keyOf(n)
	if cn, ok := r.cache.get(key); ok {
		return cn.Data, cn.Cutoffs
	}

	data, cutoffs := r.renderFresh(n)
	r.cache.put(key, &CachedNote{Data: data, Cutoffs: cutoffs, Age: now})
	return data, cutoffs
}

func (r *Renderer) renderFresh(n *midi.Note) ([][]int32, []int) {
	source := n.Instrument.Samples()

	ratio := 1.0
	if !n.Percussion && !n.Instrument.NoScale() {
		ratio = n.Instrument.Fundamental() / n.Pitch
	}

	data := make([][]int32, len(source))
	for c, ch := range source {
		data[c] = r.resample(ch, ratio)
	}

	if n.Bend {
		return sliceBend(data, n.SampleStart, n.Length)
	}

	nPrime := 0
	if len(data) > 0 {
		nPrime = len(data[0])
	}
	fullClip := r.opts.FullClip || n.Instrument.FullClip()

	if fullClip || (nPrime > n.Length && nPrime <= n.Length+r.opts.Threshold) {
		cutoffs := make([]int, len(data))
		for c, ch := range data {
			cutoffs[c] = len(ch)
		}
		return data, cutoffs
	}

	cutoffs := make([]int, len(data))
	for c, ch := range data {
		if len(ch) <= n.Length {
			cutoffs[c] = findCutoffShort(ch, n.Length, r.opts.Threshold)
		} else {
			cutoffs[c] = findCutoff(ch, n.Length, r.opts.Threshold)
		}
	}
	return data, cutoffs
}

// sliceBend implements the bend-continuation rendering rule: take
// data[:, sampleStart:sampleStart+length] verbatim, no zero-crossing
// search, cutoffs = length.
func sliceBend(data [][]int32, sampleStart, length int) ([][]int32, []int) {
	out := make([][]int32, len(data))
	cutoffs := make([]int, len(data))
	for c, ch := range data {
		start := sampleStart
		if start > len(ch) {
			start = len(ch)
		}
		end := start + length
		if end > len(ch) {
			end = len(ch)
		}
		out[c] = ch[start:end]
		cutoffs[c] = len(out[c])
	}
	return out, cutoffs
}

// findCutoff searches the bounded tail window [length, length+threshold)
// for the minimum-score position, scoring |amplitude| + distance*K so a
// near-zero-crossing sample close to the nominal end wins over a quieter
// one further away.
func findCutoff(ch []int32, length, threshold int) int {
	if threshold <= 0 {
		return length
	}
	windowLen := threshold
	if length+windowLen > len(ch) {
		windowLen = len(ch) - length
	}
	if windowLen <= 0 {
		return length
	}
	k := distanceMultiplier / float64(threshold) * 0.5

	best := 0
	bestScore := math.Inf(1)
	for d := 0; d < windowLen; d++ {
		score := math.Abs(float64(ch[length+d])) + float64(d)*k
		if score < bestScore {
			bestScore = score
			best = d
		}
	}
	return length + best
}

// findCutoffShort handles a resampled buffer no longer than the note's
// nominal length (pitch well above the instrument's fundamental): the
// symmetric rule from spec.md §4.3 step 5, searching backward from the
// nominal end for the least-disruptive place to stop short instead of
// forward past it.
func findCutoffShort(ch []int32, length, threshold int) int {
	end := len(ch)
	if length < end {
		end = length
	}
	if threshold <= 0 || end == 0 {
		return end
	}
	windowStart := length - threshold
	if windowStart < 0 {
		windowStart = 0
	}
	if windowStart > end {
		windowStart = end
	}
	k := distanceMultiplier / float64(threshold) * 0.5

	best := end
	bestScore := math.Inf(1)
	for d := windowStart; d < end; d++ {
		dist := float64(end - d)
		score := math.Abs(float64(ch[d])) + dist*k
		if score < bestScore {
			bestScore = score
			best = d
		}
	}
	return best
}

func scaleChannels(data [][]int32, scale float64) [][]int32 {
	out := make([][]int32, len(data))
	for c, ch := range data {
		out[c] = make([]int32, len(ch))
		for i, v := range ch {
			out[c][i] = clampInt32(float64(v) * scale)
		}
	}
	return out
}

const (
	maxInt32 = 1<<31 - 1
	minInt32 = -1 << 31
)

func clampInt32(v float64) int32 {
	if v > maxInt32 {
		return maxInt32
	}
	if v < minInt32 {
		return minInt32
	}
	return int32(v)
}
