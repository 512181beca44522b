/*
RTLAPT decodes NOAA Automatic Picture Transmission images from recorded audio,
or from a pass captured with an rtl-sdr through rtl_tcp.

Usage:

	rtlapt [flags] input.wav [output.png]
	rtlapt -duration=15m [flags] [output.png]

The recording is decoded as a whole once it is available: the AM envelope of
the 2400 Hz subcarrier is extracted with a Hilbert transform, median filtered
and decimated to one sample per pixel, contrast stretched to 8 bits, and
sliced into 2080 pixel rows starting at each sync A pulse.

Command-line Flags:

	-audiofile=""

Writes the 20800 Hz audio being decoded to a 16-bit wav file. Recordings at
other rates are resampled before decoding, this keeps the resampled copy.

	-config=""

Reads flag values from a yaml mapping of flag names to values:

	plow: 1
	phigh: 99
	truncate: pad
	centerfreq: 137.9125M

Flags given on the command line or through the environment take precedence.

	-duration=0

Captures from rtl_tcp for the given time instead of reading a file, ex.
15m. The pass is decoded when the capture ends or is interrupted.

	-format="plain"

Sets the sync report format written to stdout: plain, csv, json, xml or
none. Each row is reported with the position and correlation score of its sync
pulse and the distance from the previous row's sync:

	{Row:   0 Position:    2080 Score:  341280 Spacing:    0}

	-plow=0.5
	-phigh=99.5

Percentiles of the demodulated signal mapped to black and white. Values
outside are clamped.

	-quiet=false

Omits state information logged on startup.

	-samplefile="/dev/null"

Dumps the raw IQ stream while capturing. Samples are interleaved in-phase and
quadrature unsigned bytes, unmodified output from the dongle.

	-truncate="drop"

Decides what happens to a row running past the end of the pass: drop omits
it, pad fills it with black and strict fails the decode.

Every flag may also be set through an environment variable named RTLAPT_
followed by the upper case flag name, ex. RTLAPT_FORMAT=csv.

When capturing, the center frequency defaults to NOAA 19 at 137.1 MHz and the
sample rate to 1.04 MHz. Sample rates must be a multiple of 41.6 kHz.
*/
package main
