/*
DESCRIPTION
  parse_test.go provides testing for functionality found in parse.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264

import (
	"bytes"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ausocean/nal/codec/h264/h264dec"
)

func TestExtractPPS(t *testing.T) {
	stream := bytes.Join([][]byte{
		{},
		{0x67, 0x42, 0x00, 0x1e}, // SPS, skipped.
		{0x68, 0xce, 0x38, 0x80}, // PPS with every field 0.
		{0x68, 0x00, 0x80},       // PPS that runs out of bits.
		{0x68, 0x53, 0x8e, 0x20}, // PPS with pic_parameter_set_id 1.
		{0x09, 0xf0},             // Access unit delimiter, skipped.
		{0xe8, 0xce, 0x38, 0x80}, // Forbidden bit set.
	}, []byte{0x00, 0x00, 0x00, 0x01})

	ppss, err := ExtractPPS(stream, (*logging.TestLogger)(t))
	require.NoError(t, err)
	require.Len(t, ppss, 2)
	require.Equal(t, &h264dec.PPS{}, ppss[0])
	require.Equal(t, &h264dec.PPS{ID: 1}, ppss[1])
}

func TestExtractPPSStrict(t *testing.T) {
	stream := bytes.Join([][]byte{
		{},
		{0x68, 0xce, 0x38},       // PPS without trailing bits.
		{0x68, 0xce, 0x38, 0x80}, // PPS with trailing bits.
	}, []byte{0x00, 0x00, 0x01})

	ppss, err := ExtractPPS(stream, (*logging.TestLogger)(t))
	require.NoError(t, err)
	require.Len(t, ppss, 2)

	ppss, err = ExtractPPS(stream, (*logging.TestLogger)(t), h264dec.StrictTrailingBits())
	require.NoError(t, err)
	require.Len(t, ppss, 1)
}
