package sink

import (
	"fmt"
	"io"

	"github.com/sampleforge-dev/sampleforge/errs"
)

// Array is the direct in-memory output variant: a full (channels,
// totalFrames) integer buffer held in RAM, flushed as one WAV on Save.
// Grounded on original_source/swood/wavout.py's UncachedWavFile and the
// teacher's wav.Writer.
type Array struct {
	data           [][]int32
	totalFrames    int
	frameRate      int
	bytesPerSample int
	ws             io.WriteSeeker
}

// NewArray allocates a channels x totalFrames buffer. ws receives the WAV
// on Save; pass nil to use Data() directly without ever writing a file
// (e.g. to inspect the rendered PCM in a test).
func NewArray(channels, totalFrames, frameRate, bytesPerSample int, ws io.WriteSeeker) *Array {
	data := make([][]int32, channels)
	for c := range data {
		data[c] = make([]int32, totalFrames)
	}
	return &Array{data: data, totalFrames: totalFrames, frameRate: frameRate, bytesPerSample: bytesPerSample, ws: ws}
}

// Data returns the accumulated PCM, channel-major.
func (a *Array) Data() [][]int32 { return a.data }

func (a *Array) AddData(start int, data [][]int32, cutoffs []int) {
	srcOffset := 0
	if start < 0 {
		srcOffset = -start
		start = 0
	}
	for c, ch := range data {
		if c >= len(a.data) || srcOffset >= len(ch) {
			continue
		}
		cutoff := len(ch)
		if c < len(cutoffs) {
			cutoff = cutoffs[c]
		}
		n := clipLength(start, a.totalFrames, len(ch)-srcOffset, cutoff-srcOffset)
		if n <= 0 {
			continue
		}
		addSaturating(a.data[c][start:start+n], ch[srcOffset:srcOffset+n])
	}
}

func (a *Array) Save() error {
	if a.ws == nil {
		return nil
	}
	if _, err := a.ws.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	w, err := newRIFFWriter(a.ws, len(a.data), a.frameRate, a.bytesPerSample)
	if err != nil {
		return err
	}
	interleaved := make([]int32, len(a.data))
	for i := 0; i < a.totalFrames; i++ {
		for c := range a.data {
			interleaved[c] = a.data[c][i]
		}
		if err := w.writeFrames(interleaved); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
		}
	}
	return w.finish()
}
