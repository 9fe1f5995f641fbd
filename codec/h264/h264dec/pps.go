/*
DESCRIPTION
  pps.go provides parsing of the picture parameter set RBSP syntax structure
  specified in section 7.3.2.2 of ITU-T H.264.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
  mrmod <mcmoranbjr@gmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package h264dec provides parsing of H.264 NAL units and the syntax
// structures they carry.
package h264dec

import (
	"math"

	"github.com/pkg/errors"

	"github.com/ausocean/nal/codec/h264/h264dec/bits"
)

// Slice group map types, see section 7.4.2.2.
const (
	SliceGroupMapInterleaved = iota
	SliceGroupMapDispersed
	SliceGroupMapForegroundLeftover
	SliceGroupMapBoxOut
	SliceGroupMapRasterScan
	SliceGroupMapWipe
	SliceGroupMapExplicit
)

// SliceGroupMap holds the slice group map syntax elements that follow
// slice_group_map_type in a PPS. Which implementation is present depends on
// slice_group_map_type; a nil SliceGroupMap means that no map syntax was
// present, either because num_slice_groups_minus1 is 0 or because the map
// type carries no additional syntax.
type SliceGroupMap interface {
	sliceGroupMap()
}

// RunLengthMap holds the syntax for slice_group_map_type 0.
type RunLengthMap struct {
	RunLengthMinus1 []uint32
}

// ForegroundBoxMap holds the syntax for slice_group_map_type 2.
type ForegroundBoxMap struct {
	TopLeft     []uint32
	BottomRight []uint32
}

// ChangingMap holds the syntax for slice_group_map_types 3, 4 and 5.
type ChangingMap struct {
	ChangeDirection  bool
	ChangeRateMinus1 uint32
}

// ExplicitMap holds the syntax for slice_group_map_type 6.
type ExplicitMap struct {
	PicSizeInMapUnitsMinus1 uint32
	SliceGroupID            []uint32
}

func (*RunLengthMap) sliceGroupMap()     {}
func (*ForegroundBoxMap) sliceGroupMap() {}
func (*ChangingMap) sliceGroupMap()      {}
func (*ExplicitMap) sliceGroupMap()      {}

// PPS describes a picture parameter set as defined by section 7.3.2.2 of ITU-T
// H.264. Field semantics are given in section 7.4.2.2.
type PPS struct {
	// pic_parameter_set_id and seq_parameter_set_id.
	ID, SPSID uint32

	// entropy_coding_mode_flag, selects CABAC when true and CAVLC otherwise.
	EntropyCodingMode bool

	// pic_order_present_flag (bottom_field_pic_order_in_frame_present_flag in
	// later editions).
	PicOrderPresent bool

	NumSliceGroupsMinus1 uint32

	// slice_group_map_type, only meaningful if NumSliceGroupsMinus1 > 0.
	SliceGroupMapType uint32

	// SliceGroupMap is one of *RunLengthMap, *ForegroundBoxMap, *ChangingMap
	// or *ExplicitMap, or nil.
	SliceGroupMap SliceGroupMap

	NumRefIdxL0DefaultActiveMinus1 uint32
	NumRefIdxL1DefaultActiveMinus1 uint32

	WeightedPred      bool
	WeightedBipredIdc uint8

	PicInitQpMinus26    int32
	PicInitQsMinus26    int32
	ChromaQpIndexOffset int32

	DeblockingFilterControlPresent bool
	ConstrainedIntraPred           bool
	RedundantPicCntPresent         bool
}

// ParsePPS removes emulation prevention bytes from the PPS NAL unit payload
// b, which must not include the NAL unit header, and parses the resulting
// RBSP. See NewPPS.
func ParsePPS(b []byte, opts ...Option) (*PPS, error) {
	return NewPPS(bits.NewBitReader(UnescapeRBSP(b)), opts...)
}

// NewPPS parses a picture parameter set from br, which must be reading an
// RBSP, following the syntax structure of section 7.3.2.2. If any syntax
// element cannot be read, a nil PPS is returned with the error.
//
// A malformed rbsp_trailing_bits structure does not fail the parse unless
// the StrictTrailingBits option is used. Syntax elements following
// redundant_pic_cnt_present_flag (transform_8x8_mode_flag onwards) are not
// parsed, so in strict mode a PPS carrying them is rejected.
func NewPPS(br *bits.BitReader, opts ...Option) (*PPS, error) {
	c, err := newParseConfig(opts)
	if err != nil {
		return nil, err
	}

	pps := &PPS{}
	r := newFieldReader(br)

	pps.ID = r.readUe("pic_parameter_set_id")
	pps.SPSID = r.readUe("seq_parameter_set_id")
	pps.EntropyCodingMode = r.readFlag("entropy_coding_mode_flag")
	pps.PicOrderPresent = r.readFlag("pic_order_present_flag")
	pps.NumSliceGroupsMinus1 = r.readUe("num_slice_groups_minus1")
	if r.err() != nil {
		return nil, r.err()
	}

	if pps.NumSliceGroupsMinus1 > 0 {
		pps.SliceGroupMapType = r.readUe("slice_group_map_type")
		if r.err() != nil {
			return nil, r.err()
		}
		c.debug("reading slice group map", "num_slice_groups_minus1", pps.NumSliceGroupsMinus1, "slice_group_map_type", pps.SliceGroupMapType)

		pps.SliceGroupMap, err = readSliceGroupMap(r, pps)
		if err != nil {
			return nil, err
		}
	}

	pps.NumRefIdxL0DefaultActiveMinus1 = r.readUe("num_ref_idx_l0_active_minus1")
	pps.NumRefIdxL1DefaultActiveMinus1 = r.readUe("num_ref_idx_l1_active_minus1")
	pps.WeightedPred = r.readFlag("weighted_pred_flag")
	pps.WeightedBipredIdc = uint8(r.readBits("weighted_bipred_idc", 2))
	pps.PicInitQpMinus26 = r.readSe("pic_init_qp_minus26")
	pps.PicInitQsMinus26 = r.readSe("pic_init_qs_minus26")
	pps.ChromaQpIndexOffset = r.readSe("chroma_qp_index_offset")
	pps.DeblockingFilterControlPresent = r.readFlag("deblocking_filter_control_present_flag")
	pps.ConstrainedIntraPred = r.readFlag("constrained_intra_pred_flag")
	pps.RedundantPicCntPresent = r.readFlag("redundant_pic_cnt_present_flag")
	if r.err() != nil {
		return nil, r.err()
	}

	if moreRBSPData(br) {
		c.debug("pps has unparsed data before trailing bits", "remaining bits", br.RemainingBits())
	}

	err = rbspTrailingBits(br)
	if err != nil {
		if c.strict {
			return nil, err
		}
		c.debug("ignoring malformed trailing bits", "error", err.Error())
	}

	c.debug("parsed pps", "id", pps.ID, "sps id", pps.SPSID)
	return pps, nil
}

// readSliceGroupMap reads the slice group map syntax selected by
// pps.SliceGroupMapType. The loops are bounded by num_slice_groups_minus1.
func readSliceGroupMap(r *fieldReader, pps *PPS) (SliceGroupMap, error) {
	switch pps.SliceGroupMapType {
	case SliceGroupMapInterleaved:
		m := &RunLengthMap{}
		for i := uint32(0); i < pps.NumSliceGroupsMinus1; i++ {
			v := r.readUe("run_length_minus1")
			if r.err() != nil {
				return nil, errors.Wrapf(r.err(), "slice group %d", i)
			}
			m.RunLengthMinus1 = append(m.RunLengthMinus1, v)
		}
		return m, nil

	case SliceGroupMapForegroundLeftover:
		m := &ForegroundBoxMap{}
		for i := uint32(0); i < pps.NumSliceGroupsMinus1; i++ {
			topLeft := r.readUe("top_left")
			bottomRight := r.readUe("bottom_right")
			if r.err() != nil {
				return nil, errors.Wrapf(r.err(), "slice group %d", i)
			}
			m.TopLeft = append(m.TopLeft, topLeft)
			m.BottomRight = append(m.BottomRight, bottomRight)
		}
		return m, nil

	case SliceGroupMapBoxOut, SliceGroupMapRasterScan, SliceGroupMapWipe:
		m := &ChangingMap{
			ChangeDirection:  r.readFlag("slice_group_change_direction_flag"),
			ChangeRateMinus1: r.readUe("slice_group_change_rate_minus1"),
		}
		if r.err() != nil {
			return nil, r.err()
		}
		return m, nil

	case SliceGroupMapExplicit:
		m := &ExplicitMap{PicSizeInMapUnitsMinus1: r.readUe("pic_size_in_map_units_minus1")}
		id := r.readBits("slice_group_id", pps.SliceGroupIDLen())
		if r.err() != nil {
			return nil, r.err()
		}
		m.SliceGroupID = []uint32{uint32(id)}
		return m, nil

	default:
		return nil, nil
	}
}

// SliceGroupIDLen returns the length in bits of the slice_group_id syntax
// element, Ceil(Log2(num_slice_groups_minus1 + 1)), as given in section
// 7.4.2.2.
func (p *PPS) SliceGroupIDLen() int {
	return int(math.Ceil(math.Log2(float64(p.NumSliceGroupsMinus1) + 1)))
}

// RunLengthMinus1 returns run_length_minus1, or nil if the PPS does not have
// a RunLengthMap.
func (p *PPS) RunLengthMinus1() []uint32 {
	if m, ok := p.SliceGroupMap.(*RunLengthMap); ok {
		return m.RunLengthMinus1
	}
	return nil
}

// TopLeft returns top_left, or nil if the PPS does not have a
// ForegroundBoxMap.
func (p *PPS) TopLeft() []uint32 {
	if m, ok := p.SliceGroupMap.(*ForegroundBoxMap); ok {
		return m.TopLeft
	}
	return nil
}

// BottomRight returns bottom_right, or nil if the PPS does not have a
// ForegroundBoxMap.
func (p *PPS) BottomRight() []uint32 {
	if m, ok := p.SliceGroupMap.(*ForegroundBoxMap); ok {
		return m.BottomRight
	}
	return nil
}

// SliceGroupID returns slice_group_id, or nil if the PPS does not have an
// ExplicitMap.
func (p *PPS) SliceGroupID() []uint32 {
	if m, ok := p.SliceGroupMap.(*ExplicitMap); ok {
		return m.SliceGroupID
	}
	return nil
}
