package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/youpy/go-wav"
	"golang.org/x/xerrors"

	"github.com/bemasher/rtlapt/apt"
)

func TestEncodeDecode(t *testing.T) {
	in := Samples{Rate: apt.SampleRate, Data: []float64{0, 0.5, -0.5, 1, -1, 2, -2}}

	buf := new(bytes.Buffer)
	if err := Encode(buf, in); err != nil {
		t.Fatalf("%+v\n", err)
	}

	out, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("%+v\n", err)
	}

	if out.Rate != in.Rate {
		t.Fatalf("Expected rate %d got %d\n", in.Rate, out.Rate)
	}

	const fullScale = 1 << 15
	expt := []float64{0, 0.5, -0.5, 32767.0 / fullScale, -32767.0 / fullScale, 32767.0 / fullScale, -1}
	checkSamples(t, out.Data, expt, 0)
}

// buildWAV lays out a canonical RIFF/WAVE file around payload.
func buildWAV(format wav.WavFormat, payload []byte) *bytes.Reader {
	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(4+8+16+8+len(payload)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, format)
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)

	return bytes.NewReader(buf.Bytes())
}

func newFormat(encoding, channels, bits uint16) wav.WavFormat {
	blockAlign := channels * bits / 8
	return wav.WavFormat{
		AudioFormat:   encoding,
		NumChannels:   channels,
		SampleRate:    apt.SampleRate,
		ByteRate:      apt.SampleRate * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: bits,
	}
}

func littleEndian(t *testing.T, data interface{}) []byte {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, data); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func checkSamples(t *testing.T, got, expt []float64, tol float64) {
	t.Helper()

	if len(got) != len(expt) {
		t.Fatalf("Expected %d samples got %d\n", len(expt), len(got))
	}
	for idx := range expt {
		if math.Abs(got[idx]-expt[idx]) > tol {
			t.Fatalf("Sample %d: expected %f got %f\n", idx, expt[idx], got[idx])
		}
	}
}

func TestDecodeFloat(t *testing.T) {
	payload := littleEndian(t, []float32{0, 0.5, -0.25, 1, -1})

	out, err := Decode(buildWAV(newFormat(wav.AudioFormatIEEEFloat, 1, 32), payload))
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	if out.Rate != apt.SampleRate {
		t.Fatalf("Expected rate %d got %d\n", apt.SampleRate, out.Rate)
	}

	checkSamples(t, out.Data, []float64{0, 0.5, -0.25, 1, -1}, 0)
}

func TestDecodeFloatStereo(t *testing.T) {
	payload := littleEndian(t, []float32{0.5, -0.5, 1, 0.5})

	out, err := Decode(buildWAV(newFormat(wav.AudioFormatIEEEFloat, 2, 32), payload))
	if err != nil {
		t.Fatalf("%+v\n", err)
	}

	checkSamples(t, out.Data, []float64{0, 0.75}, 0)
}

func TestDecodeUnsigned8(t *testing.T) {
	payload := []byte{255, 1, 192, 192, 128, 128}

	out, err := Decode(buildWAV(newFormat(wav.AudioFormatPCM, 2, 8), payload))
	if err != nil {
		t.Fatalf("%+v\n", err)
	}

	checkSamples(t, out.Data, []float64{0, 0.5, 0}, 1e-12)
}

func TestDecodeMultichannel(t *testing.T) {
	t.Run("PCM16", func(t *testing.T) {
		payload := littleEndian(t, []int16{
			16384, 16384, -16384, 0,
			-32768, -32768, -32768, -32768,
		})

		out, err := Decode(buildWAV(newFormat(wav.AudioFormatPCM, 4, 16), payload))
		if err != nil {
			t.Fatalf("%+v\n", err)
		}

		checkSamples(t, out.Data, []float64{0.125, -1}, 1e-12)
	})

	t.Run("PCM24", func(t *testing.T) {
		// 0x400000 is half scale, 0xC00000 is negative half scale.
		payload := []byte{
			0x00, 0x00, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0xC0, 0x00, 0x00, 0xC0, 0x00, 0x00, 0xC0,
		}

		out, err := Decode(buildWAV(newFormat(wav.AudioFormatPCM, 3, 24), payload))
		if err != nil {
			t.Fatalf("%+v\n", err)
		}

		checkSamples(t, out.Data, []float64{0.5 / 3, -0.5}, 1e-12)
	})

	t.Run("Float", func(t *testing.T) {
		payload := littleEndian(t, []float32{
			0.25, 0.25, 0.25, 0.25, 0.25, 0.25,
			1, -1, 1, -1, 1, -1,
		})

		out, err := Decode(buildWAV(newFormat(wav.AudioFormatIEEEFloat, 6, 32), payload))
		if err != nil {
			t.Fatalf("%+v\n", err)
		}

		checkSamples(t, out.Data, []float64{0.25, 0}, 1e-12)
	})

	t.Run("Unsigned8", func(t *testing.T) {
		payload := []byte{192, 192, 192, 64, 64, 64}

		out, err := Decode(buildWAV(newFormat(wav.AudioFormatPCM, 3, 8), payload))
		if err != nil {
			t.Fatalf("%+v\n", err)
		}

		checkSamples(t, out.Data, []float64{0.5, -0.5}, 1e-12)
	})
}

func TestDecodeUnsupported(t *testing.T) {
	for _, format := range []wav.WavFormat{
		newFormat(wav.AudioFormatIEEEFloat, 1, 64),
		newFormat(wav.AudioFormatALaw, 1, 8),
		newFormat(wav.AudioFormatPCM, 1, 12),
		newFormat(wav.AudioFormatPCM, 0, 16),
	} {
		_, err := Decode(buildWAV(format, make([]byte, 16)))
		if err == nil {
			t.Fatalf("Expected error for format %+v\n", format)
		}
	}
}

func TestConformPassthrough(t *testing.T) {
	in := Samples{Rate: apt.SampleRate, Data: make([]float64, 100)}
	out, err := Conform(in)
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	if len(out.Data) != len(in.Data) {
		t.Fatalf("Expected %d samples got %d\n", len(in.Data), len(out.Data))
	}
}

func TestConformResample(t *testing.T) {
	in := Samples{Rate: 11025, Data: make([]float64, 11025*2)}
	for idx := range in.Data {
		in.Data[idx] = math.Sin(2 * math.Pi * 441 * float64(idx) / 11025)
	}

	out, err := Conform(in)
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	if out.Rate != apt.SampleRate {
		t.Fatalf("Expected rate %d got %d\n", apt.SampleRate, out.Rate)
	}
	if len(out.Data) != apt.SampleRate*2 {
		t.Fatalf("Expected %d samples got %d\n", apt.SampleRate*2, len(out.Data))
	}

	for idx, v := range out.Data {
		expt := math.Sin(2 * math.Pi * 441 * float64(idx) / apt.SampleRate)
		if math.Abs(v-expt) > 1e-6 {
			t.Fatalf("Sample %d: expected %f got %f\n", idx, expt, v)
		}
	}
}

func TestConformUnsupported(t *testing.T) {
	for _, rate := range []int{0, -1, 8000} {
		_, err := Conform(Samples{Rate: rate, Data: make([]float64, 10)})

		if !xerrors.Is(err, apt.ErrUnsupportedSampleRate) {
			t.Fatalf("Rate %d: expected unsupported sample rate got %v\n", rate, err)
		}

		var rateErr *apt.SampleRateError
		if !xerrors.As(err, &rateErr) || rateErr.Rate != rate {
			t.Fatalf("Rate %d: expected *SampleRateError got %#v\n", rate, err)
		}
	}
}
