package sink

import (
	"fmt"
	"io"

	"github.com/sampleforge-dev/sampleforge/errs"
)

// DefaultChunkFrames is the chunk size the chunked sink divides its output
// into when none is specified.
const DefaultChunkFrames = 32768

// Chunked is the large-output sink variant: the output is divided into
// fixed-size chunks held in memory only while a write might still touch
// them. Once the schedule's current write position has advanced past a
// chunk, it is flushed to disk (zero-filled if never written to) and
// dropped from the in-memory map. Grounded on spec.md's description of the
// original's CachedWavFile, rebuilt to keep "write-through chunking" and
// "memory mapping" as two separate back-ends per the Design Notes, rather
// than the conflated original.
type Chunked struct {
	ws             io.WriteSeeker
	channels       int
	totalFrames    int
	chunkFrames    int
	writer         *riffWriter
	chunks         map[int][][]int32
	nextToFlush    int
	err            error
}

// NewChunked opens a chunked sink writing to ws. chunkFrames<=0 selects
// DefaultChunkFrames.
func NewChunked(ws io.WriteSeeker, channels, totalFrames, frameRate, bytesPerSample, chunkFrames int) (*Chunked, error) {
	if chunkFrames <= 0 {
		chunkFrames = DefaultChunkFrames
	}
	w, err := newRIFFWriter(ws, channels, frameRate, bytesPerSample)
	if err != nil {
		return nil, err
	}
	return &Chunked{
		ws: ws, channels: channels, totalFrames: totalFrames, chunkFrames: chunkFrames,
		writer: w, chunks: make(map[int][][]int32),
	}, nil
}

func (c *Chunked) chunkIndex(frame int) int { return frame / c.chunkFrames }

func (c *Chunked) chunkLen(idx int) int {
	n := c.chunkFrames
	if (idx+1)*c.chunkFrames > c.totalFrames {
		n = c.totalFrames - idx*c.chunkFrames
	}
	if n < 0 {
		n = 0
	}
	return n
}

func (c *Chunked) chunkAt(idx int) [][]int32 {
	chunk, ok := c.chunks[idx]
	if !ok {
		n := c.chunkLen(idx)
		chunk = make([][]int32, c.channels)
		for i := range chunk {
			chunk[i] = make([]int32, n)
		}
		c.chunks[idx] = chunk
	}
	return chunk
}

func (c *Chunked) AddData(start int, data [][]int32, cutoffs []int) {
	if c.err != nil {
		return
	}
	srcOffset := 0
	if start < 0 {
		srcOffset = -start
		start = 0
	}

	for ci, ch := range data {
		if ci >= c.channels || srcOffset >= len(ch) {
			continue
		}
		cutoff := len(ch)
		if ci < len(cutoffs) {
			cutoff = cutoffs[ci]
		}
		n := clipLength(start, c.totalFrames, len(ch)-srcOffset, cutoff-srcOffset)
		if n <= 0 {
			continue
		}

		written := 0
		for written < n {
			frame := start + written
			idx := c.chunkIndex(frame)
			chunk := c.chunkAt(idx)
			offsetInChunk := frame - idx*c.chunkFrames
			room := len(chunk[ci]) - offsetInChunk
			if room <= 0 {
				break
			}
			take := n - written
			if take > room {
				take = room
			}
			addSaturating(chunk[ci][offsetInChunk:offsetInChunk+take], ch[srcOffset+written:srcOffset+written+take])
			written += take
		}
	}

	if err := c.flushBefore(c.chunkIndex(start)); err != nil {
		c.err = err
	}
}

// flushBefore sequentially writes and drops every chunk with index < idx,
// zero-filling any that were never instantiated.
func (c *Chunked) flushBefore(idx int) error {
	for c.nextToFlush < idx {
		chunk := c.chunkAt(c.nextToFlush)
		if err := c.writeChunk(chunk); err != nil {
			return err
		}
		delete(c.chunks, c.nextToFlush)
		c.nextToFlush++
	}
	return nil
}

func (c *Chunked) writeChunk(chunk [][]int32) error {
	n := 0
	if len(chunk) > 0 {
		n = len(chunk[0])
	}
	interleaved := make([]int32, c.channels)
	for i := 0; i < n; i++ {
		for ci := range chunk {
			interleaved[ci] = chunk[ci][i]
		}
		if err := c.writer.writeFrames(interleaved); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
		}
	}
	return nil
}

func (c *Chunked) Save() error {
	if c.err != nil {
		return c.err
	}
	lastIdx := 0
	if c.totalFrames > 0 {
		lastIdx = c.chunkIndex(c.totalFrames-1) + 1
	}
	if err := c.flushBefore(lastIdx); err != nil {
		return err
	}
	return c.writer.finish()
}
