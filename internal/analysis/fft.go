package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT returns the discrete Fourier transform of a real series of any
// length.
func FFT(data []float64) []complex128 {
	return fft.FFTReal(data)
}

// PowerSpectrum returns the magnitude of each frequency bin up to Nyquist,
// after removing the mean so bin 0 carries no offset.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	f := FFT(centered)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantPeriod returns the period, in the units of times, of the
// strongest non-zero frequency in values, and that bin's magnitude. times
// must be evenly spaced. A flat or too-short series returns 0, 0.
func DominantPeriod(times, values []float64) (float64, float64) {
	n := min(len(times), len(values))
	if n < 4 {
		return 0, 0
	}
	dt := (times[n-1] - times[0]) / float64(n-1)
	if dt <= 0 {
		return 0, 0
	}

	ps := PowerSpectrum(values[:n])
	best, power := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > power {
			best, power = k, ps[k]
		}
	}
	if best == 0 || power < 1e-9 {
		return 0, 0
	}
	// Bin k of a length-n transform is k/(n·dt) Hz.
	return float64(n) * dt / float64(best), power
}
