/*
DESCRIPTION
  bitreader.go provides a bit reader implementation that reads fixed-width
  fields and Exp-Golomb codes from an immutable byte slice.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides a bit reader implementation that can read or peek
// bits, and Exp-Golomb coded integers, from a byte slice.
package bits

import (
	mbits "math/bits"

	"github.com/pkg/errors"
)

// Errors returned by BitReader reads. Once a read has failed the reader
// position must not be relied upon.
var (
	ErrInsufficientBits   = errors.New("insufficient bits remaining")
	ErrMalformedExpGolomb = errors.New("exp-golomb prefix exceeds 32 bits")
	ErrNoSetBit           = errors.New("no set bit in buffer")
	errBadBitCount        = errors.New("bit count must be in range 0 to 64")
)

// maxLeadingZeros is the longest Exp-Golomb prefix whose value fits in a
// uint32.
const maxLeadingZeros = 31

// BitReader is a forward-only bit reader over a byte slice. The slice is
// never modified.
type BitReader struct {
	buf []byte
	off int // Bit offset of the next unread bit.
}

// NewBitReader returns a new BitReader positioned at the first bit of buf.
func NewBitReader(buf []byte) *BitReader {
	return &BitReader{buf: buf}
}

// ReadBits reads n bits from the source and returns them the least-significant
// part of a uint64.
// For example, with a source as []byte{0x8f,0xe3} (1000 1111, 1110 0011), we
// would get the following results for consequtive reads with n values:
// n = 4, res = 0x8 (1000)
// n = 2, res = 0x3 (0011)
// n = 4, res = 0xf (1111)
// n = 6, res = 0x23 (0010 0011)
func (br *BitReader) ReadBits(n int) (uint64, error) {
	v, err := br.PeekBits(n)
	if err != nil {
		return 0, err
	}
	br.off += n
	return v, nil
}

// PeekBits provides the next n bits returning them in the least-significant
// part of a uint64, without advancing through the source.
// For example, with a source as []byte{0x8f,0xe3} (1000 1111, 1110 0011), we
// would get the following results for consequtive peeks with n values:
// n = 4, res = 0x8 (1000)
// n = 8, res = 0x8f (1000 1111)
// n = 16, res = 0x8fe3 (1000 1111, 1110 0011)
func (br *BitReader) PeekBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		return 0, errBadBitCount
	}
	if n > br.RemainingBits() {
		return 0, ErrInsufficientBits
	}

	var v uint64
	for off := br.off; n > 0; {
		// Take as many bits as we need, or as are left, from the current byte.
		avail := 8 - off&7
		take := avail
		if n < take {
			take = n
		}
		b := uint64(br.buf[off>>3]) >> uint(avail-take) & (1<<uint(take) - 1)
		v = v<<uint(take) | b
		off += take
		n -= take
	}
	return v, nil
}

// ReadUe reads an unsigned integer Exp-Golomb-coded element, i.e. a syntax
// element of ue(v) descriptor as specified in section 9.1 of ITU-T H.264.
// The code is leadingZeroBits zeros, a one, and then leadingZeroBits suffix
// bits, giving 2^leadingZeroBits - 1 + suffix.
func (br *BitReader) ReadUe() (uint32, error) {
	nZeros := 0
	for {
		b, err := br.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		nZeros++
		if nZeros > maxLeadingZeros {
			return 0, ErrMalformedExpGolomb
		}
	}

	rem, err := br.ReadBits(nZeros)
	if err != nil {
		return 0, err
	}
	return uint32(1<<uint(nZeros) - 1 + rem), nil
}

// ReadSe reads a signed integer Exp-Golomb-coded element, i.e. a syntax
// element of se(v) descriptor as specified in sections 9.1 and 9.1.1 of
// ITU-T H.264. Successive code numbers map to 0, 1, -1, 2, -2 and so on.
func (br *BitReader) ReadSe() (int32, error) {
	k, err := br.ReadUe()
	if err != nil {
		return 0, err
	}
	if k&1 == 1 {
		return int32((uint64(k) + 1) / 2), nil
	}
	return -int32(k / 2), nil
}

// ByteAligned returns true if the reader position is at the start of a byte,
// and false otherwise.
func (br *BitReader) ByteAligned() bool {
	return br.off&7 == 0
}

// Off returns the current offset from the starting bit of the current byte.
func (br *BitReader) Off() int {
	return br.off & 7
}

// Offset returns the byte index and the bit offset within that byte of the
// next unread bit.
func (br *BitReader) Offset() (byteOff, bitOff int) {
	return br.off >> 3, br.off & 7
}

// BytesRead returns the number of bytes that have been read from, including
// a partially read byte.
func (br *BitReader) BytesRead() int {
	return (br.off + 7) >> 3
}

// RemainingBits returns the number of unread bits.
func (br *BitReader) RemainingBits() int {
	return len(br.buf)*8 - br.off
}

// LastSetBit returns the position of the last (least significant, right-most)
// bit equal to 1 in the whole buffer, regardless of the reader position. The
// bit offset is counted from the most significant bit of the byte.
func (br *BitReader) LastSetBit() (byteOff, bitOff int, err error) {
	for i := len(br.buf) - 1; i >= 0; i-- {
		if br.buf[i] == 0 {
			continue
		}
		return i, 7 - mbits.TrailingZeros8(br.buf[i]), nil
	}
	return 0, 0, ErrNoSetBit
}
