// Package audio reads and writes the WAV recordings APT passes are stored in
// and conforms them to the decoder's sample rate.
package audio

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/youpy/go-wav"

	"github.com/bemasher/rtlapt/apt"
	"github.com/bemasher/rtlapt/dsp"
)

// MinSampleRate is the lowest rate still holding the upper AM sideband of the
// subcarrier.
const MinSampleRate = 2 * (apt.Subcarrier + apt.LineLength)

// Samples is a mono recording at full scale: PCM and float input alike span
// [-1, 1).
type Samples struct {
	Rate int
	Data []float64
}

// Read decodes a WAV file, mixing multiple channels down to mono.
func Read(filename string) (s Samples, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return s, errors.Wrap(err, "open audio")
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads 8, 16, 24 or 32-bit PCM or 32-bit IEEE float WAV data from r.
func Decode(r interface {
	io.Reader
	io.ReaderAt
}) (s Samples, err error) {
	reader := wav.NewReader(r)

	format, err := reader.Format()
	if err != nil {
		return s, errors.Wrap(err, "read wav format")
	}

	switch format.AudioFormat {
	case wav.AudioFormatPCM:
		switch format.BitsPerSample {
		case 8, 16, 24, 32:
		default:
			return s, errors.Errorf("unsupported pcm sample width: %d", format.BitsPerSample)
		}
	case wav.AudioFormatIEEEFloat:
		if format.BitsPerSample != 32 {
			return s, errors.Errorf("unsupported float sample width: %d", format.BitsPerSample)
		}
	default:
		return s, errors.Errorf("unsupported wav encoding: %d", format.AudioFormat)
	}

	if format.NumChannels == 0 {
		return s, errors.New("wav has no channels")
	}
	if int(format.BlockAlign) != int(format.NumChannels)*int(format.BitsPerSample)/8 {
		return s, errors.Errorf("invalid block align: %d", format.BlockAlign)
	}

	// 8-bit PCM is unsigned.
	var offset float64
	if format.AudioFormat == wav.AudioFormatPCM && format.BitsPerSample == 8 {
		offset = 1
	}

	s.Rate = int(format.SampleRate)

	// wav.Sample holds at most two channels, wider frames are decoded here.
	if format.NumChannels > 2 {
		s.Data, err = readFrames(reader, format, offset)
	} else {
		s.Data, err = readSamples(reader, format, offset)
	}
	if err != nil {
		return s, err
	}

	log.WithFields(log.Fields{
		"rate":     s.Rate,
		"encoding": format.AudioFormat,
		"channels": format.NumChannels,
		"bits":     format.BitsPerSample,
		"samples":  len(s.Data),
	}).Debug("read audio")

	return s, nil
}

func readSamples(reader *wav.Reader, format *wav.WavFormat, offset float64) ([]float64, error) {
	var data []float64
	channels := uint(format.NumChannels)

	for {
		samples, err := reader.ReadSamples()
		for _, sample := range samples {
			var sum float64
			for ch := uint(0); ch < channels; ch++ {
				sum += reader.FloatValue(sample, ch) - offset
			}
			data = append(data, sum/float64(channels))
		}

		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return data, errors.Wrap(err, "read wav samples")
		}
	}
}

func readFrames(reader *wav.Reader, format *wav.WavFormat, offset float64) ([]float64, error) {
	var data []float64
	channels := int(format.NumChannels)
	width := int(format.BitsPerSample) / 8
	frame := int(format.BlockAlign)

	buf := make([]byte, 2048*frame)
	for {
		n, err := io.ReadFull(reader, buf)
		for pos := 0; pos+frame <= n; pos += frame {
			var sum float64
			for ch := 0; ch < channels; ch++ {
				b := buf[pos+ch*width : pos+(ch+1)*width]
				sum += sampleValue(format.AudioFormat, b) - offset
			}
			data = append(data, sum/float64(channels))
		}

		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return data, nil
		}
		if err != nil {
			return data, errors.Wrap(err, "read wav frames")
		}
	}
}

// sampleValue decodes one little-endian sample at full scale.
func sampleValue(encoding uint16, b []byte) float64 {
	if encoding == wav.AudioFormatIEEEFloat {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}

	if len(b) == 1 {
		return float64(b[0]) / 128
	}

	var v uint32
	for idx := len(b) - 1; idx >= 0; idx-- {
		v = v<<8 | uint32(b[idx])
	}
	shift := 32 - 8*uint(len(b))

	return float64(int32(v<<shift)>>shift) / float64(uint32(1)<<(8*uint(len(b))-1))
}

// Write encodes samples as 16-bit mono PCM, clipping to full scale.
func Write(filename string, s Samples) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create audio")
	}
	defer f.Close()

	if err := Encode(f, s); err != nil {
		return err
	}

	return errors.Wrap(f.Close(), "close audio")
}

// Encode writes samples to w as 16-bit mono PCM.
func Encode(w io.Writer, s Samples) error {
	writer := wav.NewWriter(w, uint32(len(s.Data)), 1, uint32(s.Rate), 16)

	samples := make([]wav.Sample, len(s.Data))
	for idx, v := range s.Data {
		v = math.Round(v * math.MaxInt16)
		v = math.Max(math.MinInt16, math.Min(math.MaxInt16, v))
		samples[idx].Values[0] = int(v)
	}

	return errors.Wrap(writer.WriteSamples(samples), "write wav samples")
}

// Conform resamples s to apt.SampleRate. Rates below MinSampleRate can't be
// reconciled and fail with an apt.SampleRateError.
func Conform(s Samples) (Samples, error) {
	if s.Rate == apt.SampleRate {
		return s, nil
	}

	if s.Rate < MinSampleRate {
		return s, &apt.SampleRateError{Rate: s.Rate, Want: apt.SampleRate}
	}

	log.WithFields(log.Fields{
		"from": s.Rate,
		"to":   apt.SampleRate,
	}).Info("resampling")

	return Samples{
		Rate: apt.SampleRate,
		Data: dsp.ResampleRate(s.Data, s.Rate, apt.SampleRate),
	}, nil
}
