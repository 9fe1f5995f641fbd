/*
DESCRIPTION
  parse.go provides extraction of picture parameter sets from an H.264 byte
  stream held in memory.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package h264 provides functionality for handling H.264 byte streams, and
// the extraction of parameter sets from them.
package h264

import (
	"github.com/ausocean/utils/logging"
	mch264 "github.com/bluenviron/mediacommon/v2/pkg/codecs/h264"
	"github.com/pkg/errors"

	"github.com/ausocean/nal/codec/h264/h264dec"
	"github.com/ausocean/nal/codec/h264/h264dec/bits"
)

// ExtractPPS splits the Annex B byte stream b into NAL units and parses each
// picture parameter set found. NAL units that cannot be interpreted are
// logged and skipped, so an error is only returned if b cannot be split.
func ExtractPPS(b []byte, log logging.Logger, opts ...h264dec.Option) ([]*h264dec.PPS, error) {
	var au mch264.AnnexB
	err := au.Unmarshal(b)
	if err != nil {
		return nil, errors.Wrap(err, "could not split byte stream")
	}
	log.Debug("split byte stream", "nal units", len(au))

	var ppss []*h264dec.PPS
	for i, nalu := range au {
		n, err := h264dec.NewNALUnit(nalu)
		if err != nil {
			log.Warning("skipping nal unit with bad header", "index", i, "error", err.Error())
			continue
		}
		if n.Type != h264dec.NALTypePPS {
			log.Debug("skipping nal unit", "index", i, "type", n.Type.String())
			continue
		}

		pps, err := h264dec.NewPPS(bits.NewBitReader(n.RBSP), opts...)
		if err != nil {
			log.Warning("could not parse pps", "index", i, "error", err.Error())
			continue
		}
		ppss = append(ppss, pps)
	}
	return ppss, nil
}
