package csv

import (
	"encoding/csv"
	"io"

	"golang.org/x/xerrors"
)

// Produces a list of fields making up a record.
type Recorder interface {
	Record() []string
}

// Produces the column names of a record, written once before the first.
type Headerer interface {
	Header() []string
}

// An Encoder writes CSV records to an output stream.
type Encoder struct {
	w      *csv.Writer
	header bool
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: csv.NewWriter(w)}
}

// Encode writes a CSV record representing v to the stream followed by a
// newline character. Value given must implement the Recorder interface. If it
// also implements Headerer, the header is written before the first record.
func (enc *Encoder) Encode(v interface{}) error {
	r, ok := v.(Recorder)
	if !ok {
		return xerrors.Errorf("csv: %T does not implement Recorder", v)
	}

	if h, ok := v.(Headerer); ok && !enc.header {
		if err := enc.w.Write(h.Header()); err != nil {
			return xerrors.Errorf("csv header: %w", err)
		}
		enc.header = true
	}

	if err := enc.w.Write(r.Record()); err != nil {
		return xerrors.Errorf("csv record: %w", err)
	}
	enc.w.Flush()

	return enc.w.Error()
}
