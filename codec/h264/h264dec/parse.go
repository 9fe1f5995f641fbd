/*
NAME
  parse.go

DESCRIPTION
  parse.go provides parsing processes for syntax elements of different
  descriptors specified in 7.2 of ITU-T H.264.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
  mrmod <mcmoranbjr@gmail.com>
*/

package h264dec

import (
	"github.com/pkg/errors"

	"github.com/ausocean/nal/codec/h264/h264dec/bits"
)

// fieldReader provides methods for reading bool and int fields from a
// bits.BitReader with a sticky error that may be checked after a series of
// parsing read calls. The first failed read is wrapped with the name of the
// syntax element being read, and no further reads are performed.
type fieldReader struct {
	e  error
	br *bits.BitReader
}

// newFieldReader returns a new fieldReader.
func newFieldReader(br *bits.BitReader) *fieldReader {
	return &fieldReader{br: br}
}

// readBits returns the value of the n bit syntax element name, i.e. a
// syntax element of u(n) descriptor.
func (r *fieldReader) readBits(name string, n int) uint64 {
	if r.e != nil {
		return 0
	}
	b, err := r.br.ReadBits(n)
	if err != nil {
		r.e = errors.Wrapf(err, "could not read %s", name)
	}
	return b
}

// readFlag returns the single bit syntax element name as a bool.
func (r *fieldReader) readFlag(name string) bool {
	return r.readBits(name, 1) == 1
}

// readUe parses a syntax element of ue(v) descriptor, i.e. an unsigned integer
// Exp-Golomb-coded element using method as specified in section 9.1 of ITU-T
// H.264. The read does not happen if the fieldReader has a non-nil error.
func (r *fieldReader) readUe(name string) uint32 {
	if r.e != nil {
		return 0
	}
	v, err := r.br.ReadUe()
	if err != nil {
		r.e = errors.Wrapf(err, "could not read %s", name)
	}
	return v
}

// readSe parses a syntax element with descriptor se(v), i.e. a signed integer
// Exp-Golomb-coded syntax element, using the method described in sections
// 9.1 and 9.1.1. The read does not happen if the fieldReader has a non-nil
// error.
func (r *fieldReader) readSe(name string) int32 {
	if r.e != nil {
		return 0
	}
	v, err := r.br.ReadSe()
	if err != nil {
		r.e = errors.Wrapf(err, "could not read %s", name)
	}
	return v
}

// err returns the fieldReader's error e.
func (r *fieldReader) err() error {
	return r.e
}
