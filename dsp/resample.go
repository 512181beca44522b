package dsp

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Resample changes the length of signal to num samples using the Fourier
// method: the spectrum is truncated or zero-padded and transformed back. The
// signal is assumed periodic.
func Resample(signal []float64, num int) []float64 {
	n := len(signal)
	if n == 0 || num <= 0 {
		return []float64{}
	}
	if n == num {
		out := make([]float64, n)
		copy(out, signal)
		return out
	}

	x := fft.FFTReal(signal)

	m := n
	if num < m {
		m = num
	}

	// Positive half of the shared band, nyquist of the shorter length included.
	y := make([]complex128, num)
	nyq := m>>1 + 1
	for k := 0; k < nyq && k < num; k++ {
		y[k] = x[k]
	}

	// The nyquist bin of an even band is split between positive and negative
	// frequencies. Going down it folds back, going up it halves.
	if m&1 == 0 {
		if num < n {
			y[m>>1] *= 2
		} else {
			y[m>>1] *= 0.5
		}
	}

	// Mirror to keep the output real.
	for k := 1; k < (num+1)>>1; k++ {
		y[num-k] = cmplx.Conj(y[k])
	}
	if num&1 == 0 {
		y[num>>1] = complex(real(y[num>>1]), 0)
	}

	z := fft.IFFT(y)

	scale := float64(num) / float64(n)
	out := make([]float64, num)
	for idx, v := range z {
		out[idx] = real(v) * scale
	}

	return out
}

// ResampleRate resamples signal from one rate to another.
func ResampleRate(signal []float64, from, to int) []float64 {
	num := int(float64(len(signal)) * float64(to) / float64(from))
	return Resample(signal, num)
}
