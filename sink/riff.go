package sink

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sampleforge-dev/sampleforge/errs"
)

const wavFormatPCM = 1

// riffWriter writes, and later patches, a RIFF/WAVE PCM header. Grounded
// on the teacher's cmd/modwav/wav/wav.go, generalized from a fixed
// 16-bit-stereo writer to an arbitrary channel count and integer sample
// width (this repo's sink needs header-patch control a decoder library
// like go-audio/wav doesn't expose for incremental/chunked writes).
type riffWriter struct {
	ws             io.WriteSeeker
	channels       int
	bytesPerSample int
}

func newRIFFWriter(ws io.WriteSeeker, channels, frameRate, bytesPerSample int) (*riffWriter, error) {
	w := &riffWriter{ws: ws, channels: channels, bytesPerSample: bytesPerSample}
	if err := w.writeHeader(frameRate); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	return w, nil
}

func (w *riffWriter) writeHeader(frameRate int) error {
	if err := w.writeChunkHeader("RIFF", 0); err != nil {
		return err
	}
	if _, err := w.ws.Write([]byte("WAVE")); err != nil {
		return err
	}
	if err := w.writeChunkHeader("fmt ", 16); err != nil {
		return err
	}

	blockAlign := uint16(w.channels * w.bytesPerSample)
	format := struct {
		AudioFormat   uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}{
		AudioFormat:   wavFormatPCM,
		Channels:      uint16(w.channels),
		SampleRate:    uint32(frameRate),
		ByteRate:      uint32(frameRate) * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: uint16(w.bytesPerSample * 8),
	}
	if err := binary.Write(w.ws, binary.LittleEndian, format); err != nil {
		return err
	}

	return w.writeChunkHeader("data", 0)
}

func (w *riffWriter) writeChunkHeader(id string, size int) error {
	if _, err := w.ws.Write([]byte(id)); err != nil {
		return err
	}
	return binary.Write(w.ws, binary.LittleEndian, int32(size))
}

// writeFrames writes one block of channel-interleaved frames at the
// writer's configured bit depth. 8-bit WAV PCM is unsigned, per the RIFF
// spec; every other width stays signed.
func (w *riffWriter) writeFrames(interleaved []int32) error {
	switch w.bytesPerSample {
	case 1:
		buf := make([]byte, len(interleaved))
		for i, v := range interleaved {
			buf[i] = byte(v + 128)
		}
		_, err := w.ws.Write(buf)
		return err
	case 2:
		buf := make([]int16, len(interleaved))
		for i, v := range interleaved {
			buf[i] = int16(v)
		}
		return binary.Write(w.ws, binary.LittleEndian, buf)
	case 3:
		buf := make([]byte, len(interleaved)*3)
		for i, v := range interleaved {
			buf[i*3] = byte(v)
			buf[i*3+1] = byte(v >> 8)
			buf[i*3+2] = byte(v >> 16)
		}
		_, err := w.ws.Write(buf)
		return err
	default:
		return binary.Write(w.ws, binary.LittleEndian, interleaved)
	}
}

// finish patches the RIFF and data chunk sizes now that the total byte
// length is known, following the teacher's Writer.Finish.
func (w *riffWriter) finish() error {
	total, err := w.ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	return w.finishAt(total)
}

// finishAt patches the RIFF and data chunk sizes as if total bytes had
// been written, without relying on the writer's current seek position.
// The memory-mapped sink knows its final size up front and uses this
// directly instead of writing through to the true end of file first.
func (w *riffWriter) finishAt(total int64) error {
	if _, err := w.ws.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	if err := binary.Write(w.ws, binary.LittleEndian, int32(total-8)); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	if _, err := w.ws.Seek(40, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	if err := binary.Write(w.ws, binary.LittleEndian, int32(total-44)); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	if _, err := w.ws.Seek(total, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrOutputIOError, err)
	}
	return nil
}
