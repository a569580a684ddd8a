// Package errs holds the error taxonomy shared by every sampleforge package.
//
// User-actionable failures are sentinel errors wrapped with fmt.Errorf so
// callers can still errors.Is against them; ErrInternalInconsistency is the
// one taxonomy member that should never surface in normal operation, so
// hitting it is treated as a bug rather than bad input.
package errs

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidArgument covers negative render thresholds and non-positive
	// MIDI speed. It is not used for other bad values: an out-of-range pan
	// is reported as a *ConfigSyntaxError, a non-positive bin size as
	// ErrInvalidSample from spectral.Analyze, and volume is not range-checked.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidSample covers unreadable WAVs, unsupported bit depths,
	// empty sample buffers, and spectra that stay all-zero after repeated
	// bin-size halving.
	ErrInvalidSample = errors.New("invalid sample")

	// ErrUnsupportedMIDI covers type-2 MIDI files and structurally broken
	// MIDI streams.
	ErrUnsupportedMIDI = errors.New("unsupported MIDI")

	// ErrOutputIOError covers I/O failures in the output sink.
	ErrOutputIOError = errors.New("output I/O error")

	// ErrInternalInconsistency marks an invariant violation. Reaching this
	// is a bug in sampleforge, not a user error.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)

// ConfigSyntaxError reports a parse failure in a soundfont config file. It
// carries enough context (line number, raw text, description) for a human
// to find and fix the offending line.
type ConfigSyntaxError struct {
	Line    int // zero-based line number
	RawLine string
	Message string
}

func (e *ConfigSyntaxError) Error() string {
	return "config syntax error on line " + strconv.Itoa(e.Line+1) + ": " + e.Message + "\n" + e.RawLine
}
