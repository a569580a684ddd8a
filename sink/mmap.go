package sink

import (
	"fmt"
	"io"
	"os"

	"codeberg.org/go-mmap/mmap"

	"github.com/sampleforge-dev/sampleforge/errs"
)

// Mapped is the memory-mapped output variant referenced in spec.md §4.4:
// "An alternative back-end maps the WAV data region directly into
// memory." Unlike Chunked, the whole data region is visible at once; there
// is no flush step, only an eventual unmap/close. The file's final size is
// known up front (channels * totalFrames * bytesPerSample), so the header's
// size fields are patched right after it is written, in NewMapped, rather
// than at Save.
type Mapped struct {
	f              *os.File
	region         *mmap.File
	channels       int
	totalFrames    int
	bytesPerSample int
	dataOffset     int64
}

// NewMapped truncates f to its final size, writes the RIFF header, and
// maps the data region for direct additive writes.
func NewMapped(f *os.File, channels, totalFrames, frameRate, bytesPerSample int) (*Mapped, error) {
	w, err := newRIFFWriter(f, channels, frameRate, bytesPerSample)
	if err != nil {
		return nil, err
	}
	dataOffset, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}

	dataBytes := int64(totalFrames) * int64(channels) * int64(bytesPerSample)
	if err := f.Truncate(dataOffset + dataBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	if err := w.finishAt(dataOffset + dataBytes); err != nil {
		return nil, err
	}

	region, err := mmap.OpenFile(f, mmap.Read|mmap.Write)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}

	return &Mapped{
		f: f, region: region, channels: channels, totalFrames: totalFrames,
		bytesPerSample: bytesPerSample, dataOffset: dataOffset,
	}, nil
}

func (m *Mapped) frameOffset(frame int) int64 {
	return m.dataOffset + int64(frame)*int64(m.channels)*int64(m.bytesPerSample)
}

func (m *Mapped) AddData(start int, data [][]int32, cutoffs []int) {
	srcOffset := 0
	if start < 0 {
		srcOffset = -start
		start = 0
	}
	buf := m.region.Bytes()

	for c, ch := range data {
		if c >= m.channels || srcOffset >= len(ch) {
			continue
		}
		cutoff := len(ch)
		if c < len(cutoffs) {
			cutoff = cutoffs[c]
		}
		n := clipLength(start, m.totalFrames, len(ch)-srcOffset, cutoff-srcOffset)
		for i := 0; i < n; i++ {
			frame := start + i
			byteOff := m.frameOffset(frame) + int64(c*m.bytesPerSample)
			existing := readSample(buf, byteOff, m.bytesPerSample)
			sum := saturatingAddInt32(existing, ch[srcOffset+i])
			writeSample(buf, byteOff, m.bytesPerSample, sum)
		}
	}
}

// Save flushes and releases the mapping; the file itself already has its
// final size and header, so there is nothing left to finalize.
func (m *Mapped) Save() error {
	if err := m.region.Sync(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	if err := m.region.Close(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	return nil
}

func readSample(buf []byte, off int64, width int) int32 {
	switch width {
	case 1:
		return int32(buf[off]) - 128
	case 2:
		return int32(int16(uint16(buf[off]) | uint16(buf[off+1])<<8))
	case 3:
		v := uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16
		if v&0x800000 != 0 {
			v |= 0xff000000
		}
		return int32(v)
	default:
		return int32(uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24)
	}
}

func writeSample(buf []byte, off int64, width int, v int32) {
	switch width {
	case 1:
		buf[off] = byte(v + 128)
	case 2:
		u := uint16(int16(v))
		buf[off] = byte(u)
		buf[off+1] = byte(u >> 8)
	case 3:
		u := uint32(v)
		buf[off] = byte(u)
		buf[off+1] = byte(u >> 8)
		buf[off+2] = byte(u >> 16)
	default:
		u := uint32(v)
		buf[off] = byte(u)
		buf[off+1] = byte(u >> 8)
		buf[off+2] = byte(u >> 16)
		buf[off+3] = byte(u >> 24)
	}
}
