// Package spectral estimates a pcm.Sample's fundamental frequency by
// averaging magnitude spectra across fixed-size windows. It is the Go
// analogue of the teacher's byte-parsing packages (mod.go, s3m.go): a
// leaf consumer of pcm.Sample that never calls back into it.
package spectral

import (
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/sampleforge-dev/sampleforge/errs"
	"github.com/sampleforge-dev/sampleforge/pcm"
)

// minBinSize is the smallest bin size halving is allowed to reach before
// analysis is declared a failure.
const minBinSize = 2

// FFT is an averaged magnitude spectrum over a Sample.
type FFT struct {
	Avg     []float64 // length binsize/2
	Spacing float64    // Hz per bin, F/binsize
	BinSize int
}

// Analyze computes the averaged magnitude spectrum of sample at the
// requested bin size, halving and retrying on an all-zero result per
// spec.md's §4.1 failure policy.
func Analyze(sample *pcm.Sample, binsize int) (*FFT, error) {
	if sample.Length == 0 {
		return nil, errs.ErrInvalidSample
	}
	if binsize%2 != 0 {
		binsize++
	}
	for binsize >= minBinSize {
		avg, ok, err := sumMagnitudes(sample, binsize)
		if err != nil {
			return nil, err
		}
		if ok {
			return &FFT{
				Avg:     avg,
				Spacing: float64(sample.FrameRate) / float64(binsize),
				BinSize: binsize,
			}, nil
		}
		binsize /= 2
	}
	return nil, errs.ErrInvalidSample
}

// sumMagnitudes computes the magnitude-sum accumulator for one bin size: it
// splits every channel into contiguous full windows of length binsize,
// FFTs each, and sums the magnitudes of the first binsize/2 bins. ok is
// false when the accumulator is identically zero (the sample is silent at
// this resolution).
func sumMagnitudes(sample *pcm.Sample, binsize int) (avg []float64, ok bool, err error) {
	plan, err := algofft.NewPlanReal64(binsize)
	if err != nil {
		return nil, false, err
	}

	nbins := binsize / 2
	acc := make([]float64, nbins)
	spectrum := make([]complex128, binsize/2+1)
	window := make([]float64, binsize)

	for c := 0; c < sample.Channels; c++ {
		channel := sample.Data[c]
		for start := 0; start+binsize <= len(channel); start += binsize {
			for i := 0; i < binsize; i++ {
				window[i] = float64(channel[start+i])
			}
			if err := plan.Forward(spectrum, window); err != nil {
				return nil, false, err
			}
			for k := 0; k < nbins; k++ {
				acc[k] += cmplx.Abs(spectrum[k])
			}
		}
	}

	for _, v := range acc {
		if v != 0 {
			return acc, true, nil
		}
	}
	return acc, false, nil
}

// Fundamental returns the dominant spectral peak of f, excluding the DC
// bin, centered on the bin (argmax + 0.5) * spacing.
func (f *FFT) Fundamental() float64 {
	if len(f.Avg) < 2 {
		return f.Spacing / 2
	}
	best := 1
	for i := 2; i < len(f.Avg); i++ {
		if f.Avg[i] > f.Avg[best] {
			best = i
		}
	}
	return float64(best)*f.Spacing + f.Spacing/2
}
