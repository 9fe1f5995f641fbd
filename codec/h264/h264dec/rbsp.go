/*
DESCRIPTION
  rbsp.go provides emulation prevention removal and insertion for NAL unit
  payloads, and the RBSP alignment syntax functions of section 7.2 of
  ITU-T H.264.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import (
	"github.com/pkg/errors"

	"github.com/ausocean/nal/codec/h264/h264dec/bits"
)

// emulationPreventionThreeByte is inserted by encoders after two zero bytes
// so that the payload cannot emulate a start code.
const emulationPreventionThreeByte = 0x03

// ErrMalformedTrailingBits is returned when rbsp_trailing_bits does not
// consist of a one stop bit followed by zero alignment bits.
var ErrMalformedTrailingBits = errors.New("malformed rbsp trailing bits")

// UnescapeRBSP returns the raw byte sequence payload of the NAL unit payload
// b, i.e. b with every emulation_prevention_three_byte removed. The returned
// slice never shares storage with b.
func UnescapeRBSP(b []byte) []byte {
	rbsp := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		// len(b)-i is the number of bytes left including b[i].
		if len(b)-i >= 3 && b[i] == 0x00 && b[i+1] == 0x00 && b[i+2] == emulationPreventionThreeByte {
			rbsp = append(rbsp, b[i], b[i+1])
			i += 3
			continue
		}
		rbsp = append(rbsp, b[i])
		i++
	}
	return rbsp
}

// EscapeRBSP is the inverse of UnescapeRBSP. An
// emulation_prevention_three_byte is inserted wherever two zero bytes are
// followed by a byte in the range 0x00 to 0x03.
func EscapeRBSP(rbsp []byte) []byte {
	b := make([]byte, 0, len(rbsp)+len(rbsp)/2)
	var zeros int
	for _, v := range rbsp {
		if zeros == 2 && v <= emulationPreventionThreeByte {
			b = append(b, emulationPreventionThreeByte)
			zeros = 0
		}
		b = append(b, v)
		if v == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return b
}

// byteAligned returns true if the next bit to be read by br is the first bit
// of a byte, as specified by byte_aligned() in section 7.2.
func byteAligned(br *bits.BitReader) bool {
	return br.ByteAligned()
}

// moreRBSPData implements more_rbsp_data() from section 7.2. The last bit
// equal to 1 in the RBSP is the rbsp_stop_one_bit; there is more data if that
// bit lies after the current position of br.
func moreRBSPData(br *bits.BitReader) bool {
	if br.RemainingBits() == 0 {
		return false
	}

	stopByte, stopBit, err := br.LastSetBit()
	if err != nil {
		return false
	}

	curByte, curBit := br.Offset()
	return stopByte > curByte || (stopByte == curByte && stopBit > curBit)
}

// rbspTrailingBits reads the rbsp_trailing_bits() syntax structure specified
// in section 7.3.2.11, i.e. a stop bit equal to 1 followed by zero bits up to
// the next byte boundary.
func rbspTrailingBits(br *bits.BitReader) error {
	b, err := br.ReadBits(1)
	if err != nil {
		return errors.Wrap(ErrMalformedTrailingBits, "could not read rbsp_stop_one_bit")
	}
	if b != 1 {
		return errors.Wrap(ErrMalformedTrailingBits, "rbsp_stop_one_bit not equal to 1")
	}

	for !byteAligned(br) {
		b, err = br.ReadBits(1)
		if err != nil {
			return errors.Wrap(ErrMalformedTrailingBits, "could not read rbsp_alignment_zero_bit")
		}
		if b != 0 {
			return errors.Wrap(ErrMalformedTrailingBits, "rbsp_alignment_zero_bit not equal to 0")
		}
	}
	return nil
}
