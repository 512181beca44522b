package apt

import (
	"math"
	"sort"

	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/stat"
)

// Percentiles computes the given percentiles (0-100) over the finite values of
// signal.
func Percentiles(signal []float64, low, high float64) (lo, hi float64, err error) {
	if !(0 <= low && low < high && high <= 100) {
		return 0, 0, xerrors.Errorf("invalid percentiles: low=%g high=%g", low, high)
	}

	sorted := make([]float64, 0, len(signal))
	for _, v := range signal {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return 0, 0, &InvalidSignalError{Reason: "no finite samples"}
	}
	sort.Float64s(sorted)

	lo = stat.Quantile(linearRank(low/100, len(sorted)), stat.LinInterp, sorted, nil)
	hi = stat.Quantile(linearRank(high/100, len(sorted)), stat.LinInterp, sorted, nil)

	return lo, hi, nil
}

// linearRank maps p onto stat.LinInterp's n*p interpolation so the result
// interpolates at (n-1)*p instead, which puts the 0th and 100th percentiles on
// the extremes and the 50th on the midpoint of an even-length sample.
func linearRank(p float64, n int) float64 {
	return math.Min(1, ((float64(n)-1)*p+1)/float64(n))
}

// Digitize contrast stretches signal so the low percentile maps to 0 and the
// high percentile to 255. Values outside the range are clamped.
func Digitize(signal []float64, low, high float64) ([]byte, error) {
	lo, hi, err := Percentiles(signal, low, high)
	if err != nil {
		return nil, err
	}

	delta := hi - lo
	if !(delta > 0) || math.IsInf(delta, 0) {
		return nil, &InvalidSignalError{Low: lo, High: hi, Reason: "empty percentile range"}
	}

	data := make([]byte, len(signal))
	for idx, v := range signal {
		data[idx] = quantize(255 * (v - lo) / delta)
	}

	return data, nil
}

func quantize(v float64) byte {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(math.RoundToEven(v))
}
