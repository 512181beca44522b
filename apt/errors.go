package apt

import (
	"fmt"

	"golang.org/x/xerrors"
)

// ErrUnsupportedSampleRate is matched by every SampleRateError.
var ErrUnsupportedSampleRate = xerrors.New("unsupported sample rate")

// ErrNoSync is returned when framing finds no usable row boundaries.
var ErrNoSync = xerrors.New("no sync detected")

// SampleRateError reports input at a rate the decoder can't work with.
type SampleRateError struct {
	Rate int
	Want int
}

func (e *SampleRateError) Error() string {
	return fmt.Sprintf("unsupported sample rate: %d Hz, expected %d Hz", e.Rate, e.Want)
}

func (e *SampleRateError) Is(target error) bool {
	return target == ErrUnsupportedSampleRate
}

// InvalidSignalError is returned when the digitization range collapses.
type InvalidSignalError struct {
	Low, High float64
	Reason    string
}

func (e *InvalidSignalError) Error() string {
	return fmt.Sprintf("invalid signal: %s (low=%g high=%g)", e.Reason, e.Low, e.High)
}

// TruncatedRowError reports a row running past the end of the signal.
type TruncatedRowError struct {
	Row        int
	Start, End int
	Len        int
}

func (e *TruncatedRowError) Error() string {
	return fmt.Sprintf("truncated row %d: [%d:%d] exceeds signal length %d", e.Row, e.Start, e.End, e.Len)
}
