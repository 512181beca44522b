package csv

import (
	"bytes"
	"testing"
)

func TestRecorderNil(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	if err := enc.Encode(nil); err == nil {
		t.Fatalf("Expected error encoding nil\n")
	}
}

type Msg struct{}

func (m Msg) Record() []string {
	return []string{"1", "2"}
}

func TestRecorder(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	if err := enc.Encode(Msg{}); err != nil {
		t.Fatalf("%+v\n", err)
	}

	if buf.String() != "1,2\n" {
		t.Fatalf("Expected %q got %q\n", "1,2\n", buf.String())
	}
}

type HeaderMsg struct {
	Msg
}

func (m HeaderMsg) Header() []string {
	return []string{"a", "b"}
}

func TestHeaderOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	for i := 0; i < 2; i++ {
		if err := enc.Encode(HeaderMsg{}); err != nil {
			t.Fatalf("%+v\n", err)
		}
	}

	expt := "a,b\n1,2\n1,2\n"
	if buf.String() != expt {
		t.Fatalf("Expected %q got %q\n", expt, buf.String())
	}
}

type NonRecorder struct{}

func TestNonRecorder(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	if err := enc.Encode(NonRecorder{}); err == nil {
		t.Fatalf("Expected error encoding %T\n", NonRecorder{})
	}
}
