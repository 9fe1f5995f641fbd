/*
DESCRIPTION
  nalunit.go provides the NAL unit type table and the NAL unit header.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
  mrmod <mcmoranbjr@gmail.com>
*/

package h264dec

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ausocean/nal/codec/h264/h264dec/bits"
)

// NALType is a nal_unit_type as defined in Table 7-1 of ITU-T H.264.
type NALType uint8

// NAL unit types.
const (
	NALTypeUnspecified NALType = iota
	NALTypeNonIDR
	NALTypeDataPartitionA
	NALTypeDataPartitionB
	NALTypeDataPartitionC
	NALTypeIDR
	NALTypeSEI
	NALTypeSPS
	NALTypePPS
	NALTypeAccessUnitDelimiter
	NALTypeEndOfSequence
	NALTypeEndOfStream
	NALTypeFillerData
	NALTypeReserved13
	NALTypeReserved14
	NALTypeReserved15
	NALTypeReserved16
	NALTypeReserved17
	NALTypeReserved18
	NALTypeReserved19
	NALTypeReserved20
	NALTypeReserved21
	NALTypeReserved22
	NALTypeReserved23
	NALTypeUnspecified24
	NALTypeUnspecified25
	NALTypeUnspecified26
	NALTypeUnspecified27
	NALTypeUnspecified28
	NALTypeUnspecified29
	NALTypeUnspecified30
	NALTypeUnspecified31
)

// IsReserved returns true if t is reserved for future use by Table 7-1.
func (t NALType) IsReserved() bool {
	switch t {
	case NALTypeReserved13, NALTypeReserved14, NALTypeReserved15,
		NALTypeReserved16, NALTypeReserved17, NALTypeReserved18,
		NALTypeReserved19, NALTypeReserved20, NALTypeReserved21,
		NALTypeReserved22, NALTypeReserved23:
		return true
	default:
		return false
	}
}

// IsUnspecified returns true if t is left unspecified by Table 7-1, i.e.
// available for application use.
func (t NALType) IsUnspecified() bool {
	switch t {
	case NALTypeUnspecified, NALTypeUnspecified24, NALTypeUnspecified25,
		NALTypeUnspecified26, NALTypeUnspecified27, NALTypeUnspecified28,
		NALTypeUnspecified29, NALTypeUnspecified30, NALTypeUnspecified31:
		return true
	default:
		return false
	}
}

func (t NALType) String() string {
	switch t {
	case NALTypeNonIDR:
		return "NonIDR"
	case NALTypeDataPartitionA:
		return "DataPartitionA"
	case NALTypeDataPartitionB:
		return "DataPartitionB"
	case NALTypeDataPartitionC:
		return "DataPartitionC"
	case NALTypeIDR:
		return "IDR"
	case NALTypeSEI:
		return "SEI"
	case NALTypeSPS:
		return "SPS"
	case NALTypePPS:
		return "PPS"
	case NALTypeAccessUnitDelimiter:
		return "AccessUnitDelimiter"
	case NALTypeEndOfSequence:
		return "EndOfSequence"
	case NALTypeEndOfStream:
		return "EndOfStream"
	case NALTypeFillerData:
		return "FillerData"
	}
	switch {
	case t.IsReserved():
		return fmt.Sprintf("Reserved(%d)", uint8(t))
	case t.IsUnspecified():
		return fmt.Sprintf("Unspecified(%d)", uint8(t))
	default:
		return fmt.Sprintf("Invalid(%d)", uint8(t))
	}
}

// NALUnit describes a network abstraction layer unit, as defined in section
// 7.3.1 of ITU-T H.264.
// Field semantics are defined in section 7.4.1.
type NALUnit struct {
	// forbidden_zero_bit, always 0.
	ForbiddenZeroBit uint8

	// nal_ref_idc, if not 0 indicates content of NAL contains a sequence parameter
	// set, a sequence parameter set extension, a subset sequence parameter set,
	// a picture parameter set, a slice of a reference picture, a slice data
	// partition of a reference picture, or a prefix NAL preceding a slice of
	// a reference picture.
	RefIdc uint8

	// nal_unit_type, specifies the type of RBSP data contained in the NAL as
	// defined in Table 7-1.
	Type NALType

	// rbsp_byte, the raw byte sequence payload data for the NAL with
	// emulation prevention bytes removed.
	RBSP []byte
}

var errForbiddenBit = errors.New("forbidden_zero_bit is set")

// NewNALUnit parses a network abstraction layer unit from b, which must hold
// exactly one NAL unit without a start code prefix, following the syntax
// structure specified in section 7.3.1, and returns as a new NALUnit.
func NewNALUnit(b []byte) (*NALUnit, error) {
	br := bits.NewBitReader(b)
	r := newFieldReader(br)

	n := &NALUnit{
		ForbiddenZeroBit: uint8(r.readBits("forbidden_zero_bit", 1)),
		RefIdc:           uint8(r.readBits("nal_ref_idc", 2)),
		Type:             NALType(r.readBits("nal_unit_type", 5)),
	}
	if r.err() != nil {
		return nil, r.err()
	}
	if n.ForbiddenZeroBit != 0 {
		return nil, errForbiddenBit
	}

	n.RBSP = UnescapeRBSP(b[br.BytesRead():])
	return n, nil
}
