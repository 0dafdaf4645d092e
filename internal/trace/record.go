// Package trace records coordinator activity to a CBOR stream.
//
// A trace holds one Record per completed paint and per canvas resize, in the
// order they happened. Traces are written by a Recorder and read back with a
// Reader, which is how -dump-trace prints them.
package trace

import (
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Kind identifies what a Record describes.
type Kind uint8

const (
	// KindRender is a completed paint of rows [Start, End].
	KindRender Kind = iota + 1

	// KindCanvasResize is a canvas size change to Width x Height pixels.
	KindCanvasResize
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRender:
		return "render"
	case KindCanvasResize:
		return "canvas-resize"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Record is one trace entry. Integer keys keep the stream compact.
type Record struct {
	Seq    uint64    `cbor:"1,keyasint"`
	Time   time.Time `cbor:"2,keyasint"`
	Kind   Kind      `cbor:"3,keyasint"`
	Start  int       `cbor:"4,keyasint,omitempty"`
	End    int       `cbor:"5,keyasint,omitempty"`
	Width  int       `cbor:"6,keyasint,omitempty"`
	Height int       `cbor:"7,keyasint,omitempty"`
}

// String formats the record for dumps.
func (r Record) String() string {
	ts := r.Time.Format("15:04:05.000000")
	switch r.Kind {
	case KindRender:
		return fmt.Sprintf("%6d %s render rows=[%d,%d]", r.Seq, ts, r.Start, r.End)
	case KindCanvasResize:
		return fmt.Sprintf("%6d %s canvas-resize %dx%d", r.Seq, ts, r.Width, r.Height)
	default:
		return fmt.Sprintf("%6d %s %s", r.Seq, ts, r.Kind)
	}
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: creating CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("trace: creating CBOR decoder mode: %v", err))
	}
}

// Encode returns the CBOR encoding of r.
func Encode(r Record) ([]byte, error) {
	return encMode.Marshal(r)
}

// Decode parses one CBOR-encoded record.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := decMode.Unmarshal(data, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func newEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

func newDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
