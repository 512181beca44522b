package apt

// A SignalProcessor provides the primitives envelope extraction is built on.
type SignalProcessor interface {
	// HilbertEnvelope returns the magnitude of the analytic signal.
	HilbertEnvelope(signal []float64) []float64
	// MedianFilter returns the running median over an odd window.
	MedianFilter(signal []float64, window int) []float64
}

// Demodulate extracts the AM envelope of samples and decimates it to one value
// per pixel. Samples must be at SampleRate, any remainder short of a whole
// pixel is dropped.
func Demodulate(proc SignalProcessor, samples []float64) []float64 {
	env := proc.HilbertEnvelope(samples)

	// Impulsive noise is removed without smearing sync edges.
	filtered := proc.MedianFilter(env, MedianWindow)

	return Decimate(filtered, Oversample)
}

// Decimate keeps the middle element of each group of factor samples.
func Decimate(signal []float64, factor int) []float64 {
	mid := factor >> 1
	out := make([]float64, len(signal)/factor)
	for idx := range out {
		out[idx] = signal[idx*factor+mid]
	}
	return out
}
