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
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/bemasher/rtlapt/dsp"
)

// Config specifies the tunable parts of decoding, everything else is fixed by
// the protocol.
type Config struct {
	LowPercentile, HighPercentile float64
	Truncate                      TruncatePolicy
}

// NewConfig returns the default configuration.
func NewConfig() Config {
	return Config{
		LowPercentile:  LowPercentile,
		HighPercentile: HighPercentile,
		Truncate:       Drop,
	}
}

// Decoder turns a whole recording into an image.
type Decoder struct {
	Cfg  Config
	Proc SignalProcessor
}

func NewDecoder(cfg Config) Decoder {
	return Decoder{
		Cfg:  cfg,
		Proc: dsp.Processor{},
	}
}

func (d Decoder) Log() {
	log.Println("SampleRate:", SampleRate)
	log.Println("PixelRate:", PixelRate)
	log.Println("LineLength:", LineLength)
	log.Println("MinPeakDistance:", MinPeakDistance)
	log.Println("MedianWindow:", MedianWindow)
	log.Printf("Percentiles: %g/%g\n", d.Cfg.LowPercentile, d.Cfg.HighPercentile)
	log.Println("Truncate:", d.Cfg.Truncate)
}

// Decode runs the pipeline over samples recorded at rate, which must be
// SampleRate. Any failing stage aborts the decode.
func (d Decoder) Decode(samples []float64, rate int) (*Image, error) {
	if rate != SampleRate {
		return nil, &SampleRateError{Rate: rate, Want: SampleRate}
	}

	samples = Truncate(samples, rate)
	log.WithFields(log.Fields{
		"samples": len(samples),
		"seconds": len(samples) / rate,
	}).Debug("truncated to whole seconds")

	start := time.Now()
	signal := Demodulate(d.Proc, samples)
	log.WithField("elapsed", time.Since(start)).Debug("demodulated")

	digitized, err := Digitize(signal, d.Cfg.LowPercentile, d.Cfg.HighPercentile)
	if err != nil {
		return nil, xerrors.Errorf("digitize: %w", err)
	}

	start = time.Now()
	boundaries, err := FindSync(digitized)
	if err != nil {
		return nil, xerrors.Errorf("sync: %w", err)
	}
	log.WithFields(log.Fields{
		"peaks":   len(boundaries),
		"elapsed": time.Since(start),
	}).Debug("framed")

	img, err := Assemble(digitized, boundaries, d.Cfg.Truncate)
	if err != nil {
		return nil, xerrors.Errorf("assemble: %w", err)
	}
	if img.Truncated > 0 {
		log.WithFields(log.Fields{
			"rows":   img.Truncated,
			"policy": d.Cfg.Truncate,
		}).Warn("rows ran past the end of the signal")
	}

	return img, nil
}
