package dsp

import "fmt"

// MedianFilter returns the median of each window centered on every sample.
// Samples outside the signal are treated as zero. Window must be odd.
func MedianFilter(signal []float64, window int) []float64 {
	if window <= 0 || window&1 == 0 {
		panic(fmt.Errorf("median window must be odd and positive: %d", window))
	}

	half := window >> 1
	out := make([]float64, len(signal))
	buf := make([]float64, window)

	for idx := range signal {
		for w := range buf {
			j := idx - half + w
			if j < 0 || j >= len(signal) {
				buf[w] = 0
			} else {
				buf[w] = signal[j]
			}
		}

		// Insertion sort, windows are tiny.
		for i := 1; i < len(buf); i++ {
			for j := i; j > 0 && buf[j] < buf[j-1]; j-- {
				buf[j], buf[j-1] = buf[j-1], buf[j]
			}
		}

		out[idx] = buf[half]
	}

	return out
}
