package trace

import (
	"errors"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Reader streams Records from a trace.
type Reader struct {
	decoder *cbor.Decoder
	closer  io.Closer
}

// NewReader reads records from rd.
func NewReader(rd io.Reader) *Reader {
	r := &Reader{decoder: newDecoder(rd)}
	if c, ok := rd.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// Open opens the trace file at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(f), nil
}

// Next returns the next record, or io.EOF at the end of the stream.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.decoder.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, err
	}
	return rec, nil
}

// ReadAll returns every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Dump writes every record of rd to w, one per line.
func Dump(w io.Writer, rd io.Reader) (int, error) {
	r := NewReader(rd)
	n := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if _, err := io.WriteString(w, rec.String()+"\n"); err != nil {
			return n, err
		}
		n++
	}
}
