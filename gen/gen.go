// Package gen synthesizes APT audio and rtl-sdr IQ for testing and
// benchmarking.
package gen

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	SampleRate = 20800
	Oversample = 5
	LineLength = 2080
	Subcarrier = 2400
)

// SyncA returns seven cycles of the 1040 Hz sync A square wave followed by
// seven black pixels.
func SyncA() []byte {
	sync := make([]byte, 0, 35)
	for i := 0; i < 7; i++ {
		sync = append(sync, 0, 128, 255, 128)
	}
	return append(sync, make([]byte, 7)...)
}

// NewLine returns a line starting with sync A followed by image pixels,
// cropped or zero padded to LineLength.
func NewLine(image []byte) []byte {
	line := make([]byte, LineLength)
	n := copy(line, SyncA())
	copy(line[n:], image)
	return line
}

// Ramp returns n pixels rising linearly from lower to upper.
func Ramp(n int, lower, upper byte) []byte {
	ramp := make([]byte, n)
	for idx := range ramp {
		ramp[idx] = lower + byte(idx*int(upper-lower)/n)
	}
	return ramp
}

// Repeat concatenates count copies of line.
func Repeat(line []byte, count int) []byte {
	pixels := make([]byte, 0, len(line)*count)
	for i := 0; i < count; i++ {
		pixels = append(pixels, line...)
	}
	return pixels
}

// Upsample holds each pixel for factor samples.
func Upsample(pixels []byte, factor int) []float64 {
	signal := make([]float64, len(pixels)*factor)

	for idx, p := range pixels {
		offset := idx * factor
		for i := 0; i < factor; i++ {
			signal[offset+i] = float64(p)
		}
	}

	return signal
}

// Modulate amplitude modulates the subcarrier with pixels, each pixel held
// for Oversample samples at SampleRate. Pixel 255 has amplitude gain.
func Modulate(pixels []byte, gain float64) []float64 {
	signal := Upsample(pixels, Oversample)

	for idx := range signal {
		carrier := math.Sin(2 * math.Pi * float64(idx) * Subcarrier / SampleRate)
		signal[idx] *= carrier * gain / 255
	}

	return signal
}

// Noise returns n samples of gaussian white noise.
func Noise(n int, stddev float64, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))

	noise := make([]float64, n)
	for idx := range noise {
		noise[idx] = r.NormFloat64() * stddev
	}

	return noise
}

// CmplxOscillatorU8 returns interleaved uint8 IQ samples of a complex tone
// at freq, the format rtl_tcp streams.
func CmplxOscillatorU8(samples int, freq float64, samplerate float64) []uint8 {
	signal := make([]uint8, samples<<1)

	for idx := 0; idx < samples; idx++ {
		s, c := math.Sincos(2 * math.Pi * float64(idx) * freq / samplerate)
		signal[idx<<1] = uint8(c*127.5 + 127.5)
		signal[idx<<1+1] = uint8(s*127.5 + 127.5)
	}

	return signal
}

// FMModulateU8 frequency modulates audio in [-1, 1] onto a carrier with the
// given deviation. Each audio sample is held for factor IQ samples.
func FMModulateU8(audio []float64, factor int, deviation, samplerate float64) []uint8 {
	signal := make([]uint8, len(audio)*factor<<1)

	var phase float64
	for idx := 0; idx < len(audio)*factor; idx++ {
		phase += 2 * math.Pi * deviation * audio[idx/factor] / samplerate
		s, c := math.Sincos(phase)
		signal[idx<<1] = uint8(c*127.5 + 127.5)
		signal[idx<<1+1] = uint8(s*127.5 + 127.5)
	}

	return signal
}

func F64toU8(f64 []float64, u8 []byte) {
	if len(f64) != len(u8) {
		panic(fmt.Errorf("arrays must have same dimensions: %d != %d", len(f64), len(u8)))
	}

	for idx, val := range f64 {
		u8[idx] = uint8(val*127.5 + 127.5)
	}
}
