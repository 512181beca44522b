// RTLAPT - A NOAA APT decoder for recorded and rtl-sdr captured audio.
// Copyright (C) 2026 Douglas Hall
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package apt

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Peak is a candidate sync position and its correlation with the template.
type Peak struct {
	Position int
	Score    float64
}

func (p Peak) String() string {
	return fmt.Sprintf("{Position:%d Score:%.0f}", p.Position, p.Score)
}

// Center shifts 8-bit intensities down by mid-gray so correlation is signed.
func Center(data []byte) []float64 {
	centered := make([]float64, len(data))
	for idx, v := range data {
		centered[idx] = float64(v) - MidGray
	}
	return centered
}

// Correlate computes the dot product of template with signal at every
// position i in [0, len(signal)-len(template)). Positions are split into
// disjoint chunks computed concurrently, output order is by position.
func Correlate(template, signal []float64) []float64 {
	n := len(signal) - len(template)
	if n <= 0 {
		return nil
	}

	corr := make([]float64, n)

	workers := runtime.GOMAXPROCS(0)
	chunk := (n + workers - 1) / workers

	wg := new(sync.WaitGroup)
	for lower := 0; lower < n; lower += chunk {
		upper := lower + chunk
		if upper > n {
			upper = n
		}

		wg.Add(1)
		go func(lower, upper int) {
			defer wg.Done()
			for i := lower; i < upper; i++ {
				corr[i] = floats.Dot(template, signal[i:i+len(template)])
			}
		}(lower, upper)
	}
	wg.Wait()

	return corr
}

// FramerState is the state of the greedy peak picker.
type FramerState int

const (
	NoOpenPeak FramerState = iota
	PeakOpen
)

func (s FramerState) String() string {
	switch s {
	case NoOpenPeak:
		return "NoOpenPeak"
	case PeakOpen:
		return "PeakOpen"
	}
	return "FramerState(" + strconv.Itoa(int(s)) + ")"
}

// Transition is the outcome of a single framer step.
type Transition int

const (
	// The open peak was finalized and a new one opened at the current position.
	Finalized Transition = iota
	// The open peak was replaced in place by a stronger correlation.
	Replaced
	// The open peak was kept.
	Kept
	// A peak was opened after a flush.
	Opened
)

func (t Transition) String() string {
	switch t {
	case Finalized:
		return "Finalized"
	case Replaced:
		return "Replaced"
	case Kept:
		return "Kept"
	case Opened:
		return "Opened"
	}
	return "Transition(" + strconv.Itoa(int(t)) + ")"
}

// Framer picks at most one peak per MinDistance window in a single forward
// pass. Within a window the strongest correlation wins. It starts with a
// sentinel peak at (0, 0) which is never emitted, even if replaced.
type Framer struct {
	MinDistance int

	state    FramerState
	open     Peak
	sentinel bool
	peaks    []Peak
}

// NewFramer returns a framer holding the open sentinel peak.
func NewFramer(minDistance int) *Framer {
	return &Framer{
		MinDistance: minDistance,
		state:       PeakOpen,
		sentinel:    true,
	}
}

// State returns the current state and open peak, if any.
func (f *Framer) State() (FramerState, Peak) {
	return f.state, f.open
}

// Step feeds the correlation score at position pos. Positions must be
// strictly increasing.
func (f *Framer) Step(pos int, score float64) Transition {
	if f.state == NoOpenPeak {
		f.state = PeakOpen
		f.open = Peak{pos, score}
		return Opened
	}

	if pos-f.open.Position > f.MinDistance {
		f.finalize()
		f.state = PeakOpen
		f.open = Peak{pos, score}
		return Finalized
	}

	if score > f.open.Score {
		f.open = Peak{pos, score}
		return Replaced
	}

	return Kept
}

// Flush finalizes the open peak and returns all finalized peaks, the
// sentinel excluded.
func (f *Framer) Flush() []Peak {
	if f.state == PeakOpen {
		f.finalize()
	}
	return f.peaks
}

func (f *Framer) finalize() {
	if !f.sentinel {
		f.peaks = append(f.peaks, f.open)
	}
	f.sentinel = false
	f.state = NoOpenPeak
	f.open = Peak{}
}

// FindSync locates sync A pulses in digitized and returns the row
// boundaries. Fewer than two boundaries frame no row and yield ErrNoSync.
func FindSync(digitized []byte) ([]Peak, error) {
	template := Center(SyncTemplate())
	corr := Correlate(template, Center(digitized))

	f := NewFramer(MinPeakDistance)
	for pos, score := range corr {
		f.Step(pos, score)
	}

	peaks := f.Flush()
	if len(peaks) < 2 {
		return peaks, ErrNoSync
	}

	return peaks, nil
}
