package spectral

import "github.com/sampleforge-dev/sampleforge/pcm"

// FundamentalOf analyzes sample at binsize and stores the result on
// sample.Fundamental, returning it. This is the entry point the CLI and
// the soundfont loader use; repeated calls re-analyze (Sample itself does
// not cache the FFT, matching package pcm's "leaf, no knowledge of
// spectral" layering from SPEC_FULL.md).
func FundamentalOf(sample *pcm.Sample, binsize int) (float64, error) {
	fft, err := Analyze(sample, binsize)
	if err != nil {
		return 0, err
	}
	f := fft.Fundamental()
	sample.Fundamental = f
	return f, nil
}
