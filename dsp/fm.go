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

package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
)

// IQ Lookup Table
type IQLUT []float64

// Pre-computes normalized values with most common DC offset for rtl-sdr
// dongles.
func NewIQLUT() (lut IQLUT) {
	lut = make([]float64, 0x100)
	for idx := range lut {
		lut[idx] = (float64(idx) - 127.5) / 127.5
	}
	return
}

// Converts interleaved uint8 IQ samples to complex values.
func (lut IQLUT) Execute(input []byte, output []complex128) {
	i := 0
	for idx := range output {
		output[idx] = complex(lut[input[i]], lut[input[i+1]])
		i += 2
	}
}

// ComplexDecimator averages non-overlapping groups of Factor samples. Partial
// groups are carried over to the next call.
type ComplexDecimator struct {
	Factor int

	acc   complex128
	count int
}

// Execute appends decimated samples of input to output.
func (d *ComplexDecimator) Execute(input, output []complex128) []complex128 {
	scale := complex(1/float64(d.Factor), 0)
	for _, v := range input {
		d.acc += v
		d.count++
		if d.count == d.Factor {
			output = append(output, d.acc*scale)
			d.acc, d.count = 0, 0
		}
	}
	return output
}

// RealDecimator averages non-overlapping groups of Factor samples. Partial
// groups are carried over to the next call.
type RealDecimator struct {
	Factor int

	acc   float64
	count int
}

// Execute appends decimated samples of input to output.
func (d *RealDecimator) Execute(input, output []float64) []float64 {
	scale := 1 / float64(d.Factor)
	for _, v := range input {
		d.acc += v
		d.count++
		if d.count == d.Factor {
			output = append(output, d.acc*scale)
			d.acc, d.count = 0, 0
		}
	}
	return output
}

// Discriminator is a polar FM discriminator. Output is the phase difference
// between consecutive samples normalized to [-1, 1].
type Discriminator struct {
	prev complex128
}

func (d *Discriminator) Execute(input []complex128, output []float64) {
	for idx, v := range input {
		output[idx] = cmplx.Phase(v*cmplx.Conj(d.prev)) / math.Pi
		d.prev = v
	}
}

// FMDemodulator turns uint8 IQ blocks into FM demodulated audio: the IQ
// stream is decimated, discriminated and decimated again.
type FMDemodulator struct {
	lut   IQLUT
	iq    ComplexDecimator
	disc  Discriminator
	audio RealDecimator

	cmplxBuf []complex128
	decimBuf []complex128
	discBuf  []float64
}

// NewFMDemodulator returns a demodulator reducing the IQ rate by
// iqDecimation and the discriminator output by audioDecimation.
func NewFMDemodulator(iqDecimation, audioDecimation int) *FMDemodulator {
	if iqDecimation <= 0 || audioDecimation <= 0 {
		panic(fmt.Errorf("decimation must be positive: %d, %d", iqDecimation, audioDecimation))
	}

	return &FMDemodulator{
		lut:   NewIQLUT(),
		iq:    ComplexDecimator{Factor: iqDecimation},
		audio: RealDecimator{Factor: audioDecimation},
	}
}

// Execute demodulates a block of interleaved IQ bytes and appends the audio
// samples to output.
func (fm *FMDemodulator) Execute(block []byte, output []float64) []float64 {
	n := len(block) >> 1
	if cap(fm.cmplxBuf) < n {
		fm.cmplxBuf = make([]complex128, n)
	}
	cmplxBuf := fm.cmplxBuf[:n]

	fm.lut.Execute(block, cmplxBuf)
	fm.decimBuf = fm.iq.Execute(cmplxBuf, fm.decimBuf[:0])

	if cap(fm.discBuf) < len(fm.decimBuf) {
		fm.discBuf = make([]float64, len(fm.decimBuf))
	}
	discBuf := fm.discBuf[:len(fm.decimBuf)]
	fm.disc.Execute(fm.decimBuf, discBuf)

	return fm.audio.Execute(discBuf, output)
}
