// Package pcm owns decoded multi-channel integer PCM for an instrument
// clip. This package never changes a Sample after construction; its
// Fundamental field is filled in later by package spectral, and
// soundfont.Load replaces a Sample's data when resampling it to a shared
// rate. pcm does not import spectral, to keep this package leaf-level the
// way the teacher's mod.go/s3m.go know nothing about the player that
// consumes them.
package pcm

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/sampleforge-dev/sampleforge/errs"
)

// peakTarget is the absolute amplitude a Sample's raw data is scaled to
// hit, expressed as a fraction of the full 32-bit signed range.
const peakTarget = 0.9 * float64(1<<31)

// Sample is a decoded, normalized instrument clip.
type Sample struct {
	Channels   int
	FrameRate  int
	Length     int // frames
	SampWidth  int // bytes per sample in the source file, 1-4
	Data       [][]int32 // [channel][frame], normalized
	Fundamental float64  // set by spectral.FundamentalOf; 0 until then
}

// FromWAV decodes a canonical RIFF/WAVE PCM file (8/16/24/32-bit signed,
// little-endian, 1-N channels) into a normalized Sample.
func FromWAV(r io.Reader) (*Sample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading WAV: %v", errs.ErrInvalidSample, err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", errs.ErrInvalidSample)
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: decoding WAV: %v", errs.ErrInvalidSample, err)
	}
	if !dec.WasPCMAccessed() || buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: WAV has no PCM data", errs.ErrInvalidSample)
	}

	sampWidth := buf.SourceBitDepth / 8
	if sampWidth < 1 || sampWidth > 4 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", errs.ErrInvalidSample, buf.SourceBitDepth)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: zero channels", errs.ErrInvalidSample)
	}
	length := buf.NumFrames()
	if length <= 0 {
		return nil, fmt.Errorf("%w: empty sample", errs.ErrInvalidSample)
	}

	return newSample(channels, buf.Format.SampleRate, sampWidth, length, func(c, i int) int32 {
		return int32(buf.Data[i*channels+c])
	})
}

// newSample builds a normalized Sample from a (channel, frame) accessor over
// raw signed integer PCM. The normalization multiplier is computed once so
// that after multiplication the peak absolute amplitude equals 0.9*(2^31),
// per spec.
func newSample(channels, frameRate, sampWidth, length int, at func(c, i int) int32) (*Sample, error) {
	raw := make([][]int32, channels)
	var peak int64
	for c := 0; c < channels; c++ {
		raw[c] = make([]int32, length)
		for i := 0; i < length; i++ {
			v := at(c, i)
			raw[c][i] = v
			abs := int64(v)
			if abs < 0 {
				abs = -abs
			}
			if abs > peak {
				peak = abs
			}
		}
	}
	if peak == 0 {
		return nil, fmt.Errorf("%w: sample is silent", errs.ErrInvalidSample)
	}

	mult := peakTarget / float64(peak)
	data := make([][]int32, channels)
	for c := 0; c < channels; c++ {
		data[c] = make([]int32, length)
		for i := 0; i < length; i++ {
			data[c][i] = int32(float64(raw[c][i]) * mult)
		}
	}

	return &Sample{
		Channels:  channels,
		FrameRate: frameRate,
		Length:    length,
		SampWidth: sampWidth,
		Data:      data,
	}, nil
}
