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

// Package apt reconstructs NOAA Automatic Picture Transmission images from
// AM demodulated audio. The recording is processed as a whole: envelope
// extraction, digitization, sync framing and row assembly.
package apt

// Protocol constants of the APT broadcast.
const (
	// Audio sample rate the decoder operates at.
	SampleRate = 20800

	// Audio samples per pixel, the demodulator oversamples the pixel clock.
	Oversample = 5

	// Pixel rate after decimation.
	PixelRate = SampleRate / Oversample

	// Pixels per image line, two lines per second.
	LineLength = 2080

	// Minimum distance in pixels between accepted sync peaks. Slightly less
	// than a line to tolerate doppler compression.
	MinPeakDistance = 2000

	// Median filter window applied to the envelope.
	MedianWindow = 5

	// Subcarrier frequency of the AM modulated image.
	Subcarrier = 2400

	// Default contrast stretch percentiles.
	LowPercentile  = 0.5
	HighPercentile = 99.5

	// Mid-gray level subtracted before correlation.
	MidGray = 128
)

// Length of the sync A template in pixels.
const SyncLength = 35

// SyncTemplate returns the sync A frame: seven impulses followed by black.
// Some lines show about 8 black pixels before image data, so the template
// ends after 7.
func SyncTemplate() []byte {
	tmpl := make([]byte, 0, SyncLength)
	for i := 0; i < 7; i++ {
		tmpl = append(tmpl, 0, 128, 255, 128)
	}
	for i := 0; i < 7; i++ {
		tmpl = append(tmpl, 0)
	}
	return tmpl
}

// Truncate drops trailing samples so the recording covers a whole number of
// seconds at the given rate.
func Truncate(samples []float64, rate int) []float64 {
	if rate <= 0 {
		return samples[:0]
	}
	return samples[:rate*(len(samples)/rate)]
}
