/*
DESCRIPTION
  dump.go provides human readable rendering of parsed syntax structures.

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
	"fmt"
	"io"
	"strings"
)

// Dumper is implemented by syntax structures that can render themselves as
// an indented tree of "key: value" lines. An indent of -1 renders the whole
// structure on a single line.
type Dumper interface {
	Dump(w io.Writer, indent int) error
}

// dumper writes key value pairs at an indent level, keeping the first write
// error.
type dumper struct {
	w      io.Writer
	indent int
	err    error
}

func (d *dumper) printf(format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// newline starts a new line at the current indent level, or writes a space
// if indenting is disabled.
func (d *dumper) newline() {
	if d.indent == -1 {
		d.printf(" ")
		return
	}
	d.printf("\n%s", strings.Repeat("  ", d.indent))
}

func (d *dumper) open(name string) {
	d.printf("%s {", name)
	if d.indent != -1 {
		d.indent++
	}
}

func (d *dumper) close() {
	if d.indent != -1 {
		d.indent--
	}
	d.newline()
	d.printf("}")
}

func (d *dumper) field(key string, v interface{}) {
	d.newline()
	d.printf("%s: %v", key, v)
}

func (d *dumper) list(key string, vals []uint32) {
	d.newline()
	d.printf("%s {", key)
	for _, v := range vals {
		d.printf(" %d", v)
	}
	d.printf(" }")
}

// b2i renders flags the way they appear in the bitstream.
func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Dump writes p to w as a tree of syntax element names and values.
func (p *PPS) Dump(w io.Writer, indent int) error {
	d := &dumper{w: w, indent: indent}
	d.open("pps")
	d.field("pic_parameter_set_id", p.ID)
	d.field("seq_parameter_set_id", p.SPSID)
	d.field("entropy_coding_mode_flag", b2i(p.EntropyCodingMode))
	d.field("pic_order_present_flag", b2i(p.PicOrderPresent))
	d.field("num_slice_groups_minus1", p.NumSliceGroupsMinus1)

	if p.NumSliceGroupsMinus1 > 0 {
		d.field("slice_group_map_type", p.SliceGroupMapType)
		switch m := p.SliceGroupMap.(type) {
		case *RunLengthMap:
			d.list("run_length_minus1", m.RunLengthMinus1)
		case *ForegroundBoxMap:
			d.list("top_left", m.TopLeft)
			d.list("bottom_right", m.BottomRight)
		case *ChangingMap:
			d.field("slice_group_change_direction_flag", b2i(m.ChangeDirection))
			d.field("slice_group_change_rate_minus1", m.ChangeRateMinus1)
		case *ExplicitMap:
			d.field("pic_size_in_map_units_minus1", m.PicSizeInMapUnitsMinus1)
			d.list("slice_group_id", m.SliceGroupID)
		}
	}

	d.field("num_ref_idx_l0_active_minus1", p.NumRefIdxL0DefaultActiveMinus1)
	d.field("num_ref_idx_l1_active_minus1", p.NumRefIdxL1DefaultActiveMinus1)
	d.field("weighted_pred_flag", b2i(p.WeightedPred))
	d.field("weighted_bipred_idc", p.WeightedBipredIdc)
	d.field("pic_init_qp_minus26", p.PicInitQpMinus26)
	d.field("pic_init_qs_minus26", p.PicInitQsMinus26)
	d.field("chroma_qp_index_offset", p.ChromaQpIndexOffset)
	d.field("deblocking_filter_control_present_flag", b2i(p.DeblockingFilterControlPresent))
	d.field("constrained_intra_pred_flag", b2i(p.ConstrainedIntraPred))
	d.field("redundant_pic_cnt_present_flag", b2i(p.RedundantPicCntPresent))
	d.close()
	return d.err
}

// String returns the single line dump of p.
func (p *PPS) String() string {
	var sb strings.Builder
	p.Dump(&sb, -1)
	return sb.String()
}
