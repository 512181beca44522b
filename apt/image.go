package apt

import (
	"image"
	"strings"

	"golang.org/x/xerrors"
)

// TruncatePolicy decides what happens to a row running past the end of the
// digitized signal.
type TruncatePolicy int

const (
	// Drop omits the row.
	Drop TruncatePolicy = iota
	// Pad fills the missing tail with black.
	Pad
	// Strict fails the decode with a TruncatedRowError.
	Strict
)

func (p TruncatePolicy) String() string {
	switch p {
	case Drop:
		return "drop"
	case Pad:
		return "pad"
	case Strict:
		return "strict"
	}
	return "unknown"
}

// ParseTruncatePolicy parses drop, pad or strict.
func ParseTruncatePolicy(s string) (TruncatePolicy, error) {
	switch strings.ToLower(s) {
	case "drop":
		return Drop, nil
	case "pad":
		return Pad, nil
	case "strict":
		return Strict, nil
	}
	return Drop, xerrors.Errorf("invalid truncate policy: %q", s)
}

// Image is a row-major 8-bit pixel matrix, every row LineLength wide.
type Image struct {
	Width, Height int
	Pix           []byte

	// Sync peak each row starts at.
	Lines []Peak

	// Number of rows dropped or padded for running past the signal.
	Truncated int
}

// Row returns row y of the image.
func (img *Image) Row(y int) []byte {
	return img.Pix[y*img.Width : (y+1)*img.Width]
}

// Gray wraps the pixel matrix as a grayscale image without copying.
func (img *Image) Gray() *image.Gray {
	return &image.Gray{
		Pix:    img.Pix,
		Stride: img.Width,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// Assemble slices a LineLength row from digitized at each boundary that has a
// successor and stacks them. The successor only decides that the row exists,
// width is always LineLength.
func Assemble(digitized []byte, boundaries []Peak, policy TruncatePolicy) (*Image, error) {
	img := &Image{Width: LineLength}

	for k := 0; k+1 < len(boundaries); k++ {
		start := boundaries[k].Position
		end := start + LineLength

		if end > len(digitized) {
			switch policy {
			case Strict:
				return nil, &TruncatedRowError{Row: k, Start: start, End: end, Len: len(digitized)}
			case Pad:
				img.Truncated++
				row := make([]byte, LineLength)
				copy(row, digitized[start:])
				img.Pix = append(img.Pix, row...)
				img.Lines = append(img.Lines, boundaries[k])
				img.Height++
			default:
				img.Truncated++
			}
			continue
		}

		img.Pix = append(img.Pix, digitized[start:end]...)
		img.Lines = append(img.Lines, boundaries[k])
		img.Height++
	}

	if img.Height == 0 {
		return img, ErrNoSync
	}

	return img, nil
}
