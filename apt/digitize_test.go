package apt

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"golang.org/x/xerrors"
)

func TestDigitizeRange(t *testing.T) {
	signal := make([]float64, 101)
	for idx := range signal {
		signal[idx] = float64(idx)
	}

	data, err := Digitize(signal, 0, 100)
	if err != nil {
		t.Fatalf("%+v\n", err)
	}

	if data[0] != 0 || data[100] != 255 {
		t.Fatalf("Expected 0 and 255 at the extremes got %d and %d\n", data[0], data[100])
	}
	// 255 * 50 / 100 = 127.5 rounds to even.
	if data[50] != 128 {
		t.Fatalf("Expected 128 at midpoint got %d\n", data[50])
	}
}

func TestDigitizeBounded(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	signal := make([]float64, 10000)
	for idx := range signal {
		signal[idx] = r.NormFloat64()
	}
	signal[10] = 1e300
	signal[20] = -1e300
	signal[30] = math.Inf(1)
	signal[40] = math.Inf(-1)
	signal[50] = math.NaN()
	signal[60] = math.MaxFloat64

	data, err := Digitize(signal, LowPercentile, HighPercentile)
	if err != nil {
		t.Fatalf("%+v\n", err)
	}

	if data[10] != 255 || data[30] != 255 || data[60] != 255 {
		t.Fatalf("Expected high outliers clamped to 255 got %d %d %d\n", data[10], data[30], data[60])
	}
	if data[20] != 0 || data[40] != 0 || data[50] != 0 {
		t.Fatalf("Expected low outliers clamped to 0 got %d %d %d\n", data[20], data[40], data[50])
	}
}

func TestDigitizeMonotonic(t *testing.T) {
	r := rand.New(rand.NewSource(2))

	signal := make([]float64, 5000)
	for idx := range signal {
		signal[idx] = r.ExpFloat64() * 1000
	}

	data, err := Digitize(signal, LowPercentile, HighPercentile)
	if err != nil {
		t.Fatalf("%+v\n", err)
	}

	order := make([]int, len(signal))
	for idx := range order {
		order[idx] = idx
	}
	sort.Slice(order, func(i, j int) bool {
		return signal[order[i]] < signal[order[j]]
	})

	for idx := 1; idx < len(order); idx++ {
		if data[order[idx]] < data[order[idx-1]] {
			t.Fatalf("Inversion: %f -> %d, %f -> %d\n",
				signal[order[idx-1]], data[order[idx-1]],
				signal[order[idx]], data[order[idx]],
			)
		}
	}
}

func TestDigitizeConstant(t *testing.T) {
	for _, signal := range [][]float64{
		make([]float64, SampleRate),
		{3, 3, 3, 3},
		{},
		{math.NaN(), math.Inf(1)},
	} {
		_, err := Digitize(signal, LowPercentile, HighPercentile)

		var invalid *InvalidSignalError
		if !xerrors.As(err, &invalid) {
			t.Fatalf("Expected *InvalidSignalError for %v got %v\n", signal[:min(len(signal), 4)], err)
		}
	}
}

func TestDigitizePercentiles(t *testing.T) {
	for _, p := range [][2]float64{{-1, 50}, {50, 50}, {60, 40}, {0, 101}} {
		_, err := Digitize([]float64{1, 2, 3}, p[0], p[1])
		if err == nil {
			t.Fatalf("Expected error for percentiles %v\n", p)
		}
	}
}

func TestPercentilesLinear(t *testing.T) {
	ramp := func(n int) []float64 {
		signal := make([]float64, n)
		for idx := range signal {
			signal[idx] = float64(idx)
		}
		return signal
	}

	for _, tc := range []struct {
		signal    []float64
		low, high float64
		lo, hi    float64
	}{
		{ramp(10), 50, 100, 4.5, 9},
		{ramp(10), 0, 25, 0, 2.25},
		{ramp(200), LowPercentile, HighPercentile, 0.995, 198.005},
		{ramp(101), 0, 100, 0, 100},
		{[]float64{7}, 0, 100, 7, 7},
		{[]float64{3, 1, math.NaN(), 2}, 50, 75, 2, 2.5},
	} {
		lo, hi, err := Percentiles(tc.signal, tc.low, tc.high)
		if err != nil {
			t.Fatalf("%+v\n", err)
		}
		if math.Abs(lo-tc.lo) > 1e-9 || math.Abs(hi-tc.hi) > 1e-9 {
			t.Fatalf("Percentiles %g/%g of %d samples: expected %g/%g got %g/%g\n",
				tc.low, tc.high, len(tc.signal), tc.lo, tc.hi, lo, hi,
			)
		}
	}
}
