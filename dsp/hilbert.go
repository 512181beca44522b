// Package dsp implements the signal processing primitives used to recover
// APT audio and its AM envelope.
package dsp

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Processor exposes the package primitives as a method set.
type Processor struct{}

func (Processor) HilbertEnvelope(signal []float64) []float64 {
	return HilbertEnvelope(signal)
}

func (Processor) MedianFilter(signal []float64, window int) []float64 {
	return MedianFilter(signal, window)
}

// Analytic computes the analytic signal of a real sequence by zeroing the
// negative half of its spectrum. The whole sequence is transformed at once.
func Analytic(signal []float64) []complex128 {
	n := len(signal)
	if n == 0 {
		return []complex128{}
	}

	spectrum := fft.FFTReal(signal)

	// DC and, for even lengths, nyquist are kept as is. Positive frequencies
	// are doubled and negative frequencies removed.
	for k := 1; k < n; k++ {
		switch {
		case k < (n+1)>>1:
			spectrum[k] *= 2
		case n&1 == 0 && k == n>>1:
		default:
			spectrum[k] = 0
		}
	}

	return fft.IFFT(spectrum)
}

// HilbertEnvelope returns the instantaneous amplitude of signal.
func HilbertEnvelope(signal []float64) []float64 {
	analytic := Analytic(signal)

	env := make([]float64, len(analytic))
	for idx, v := range analytic {
		env[idx] = cmplx.Abs(v)
	}

	return env
}
