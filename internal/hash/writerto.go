package hash

import (
	"bytes"
	"encoding/binary"
	"io"
)

// WriterToWithDomain is a value that can write itself to a Hash under its own domain.
//
// Two types with the same encoding must use different domains.
type WriterToWithDomain interface {
	io.WriterTo

	// Domain names the type. It is written before the value.
	Domain() string
}

// writeWithDomain writes len(domain) ‖ domain ‖ len(data) ‖ data, with 64-bit big-endian lengths.
// The lengths make the encoding of a sequence of values unambiguous.
func writeWithDomain(w io.Writer, object WriterToWithDomain) error {
	var data bytes.Buffer
	if _, err := object.WriteTo(&data); err != nil {
		return err
	}
	domain := object.Domain()
	var frame [8]byte
	binary.BigEndian.PutUint64(frame[:], uint64(len(domain)))
	if _, err := w.Write(frame[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, domain); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(frame[:], uint64(data.Len()))
	if _, err := w.Write(frame[:]); err != nil {
		return err
	}
	_, err := data.WriteTo(w)
	return err
}

// BytesWithDomain tags raw bytes with a domain.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

func (b BytesWithDomain) Domain() string {
	return b.TheDomain
}
