/*
DESCRIPTION
  rbsp_test.go provides testing for functionality found in rbsp.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package h264dec

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h264"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/ausocean/nal/codec/h264/h264dec/bits"
)

func TestUnescapeRBSP(t *testing.T) {
	tests := []struct {
		in   []byte
		want []byte
	}{
		{in: []byte{}, want: []byte{}},
		{in: []byte{0x00}, want: []byte{0x00}},
		{in: []byte{0x00, 0x00}, want: []byte{0x00, 0x00}},
		{in: []byte{0x00, 0x03}, want: []byte{0x00, 0x03}},
		{in: []byte{0x00, 0x00, 0x03}, want: []byte{0x00, 0x00}},
		{in: []byte{0x00, 0x00, 0x03, 0x01}, want: []byte{0x00, 0x00, 0x01}},
		{in: []byte{0x00, 0x00, 0x00, 0x03}, want: []byte{0x00, 0x00, 0x00}},
		{in: []byte{0x00, 0x00, 0x03, 0x00, 0x00, 0x03}, want: []byte{0x00, 0x00, 0x00, 0x00}},
		{in: []byte{0x68, 0xce, 0x00, 0x00, 0x03, 0x03, 0x80}, want: []byte{0x68, 0xce, 0x00, 0x00, 0x03, 0x80}},
		{in: []byte{0x01, 0x00, 0x00, 0x02}, want: []byte{0x01, 0x00, 0x00, 0x02}},
	}

	for i, test := range tests {
		in := append([]byte(nil), test.in...)
		got := UnescapeRBSP(in)
		if !bytes.Equal(got, test.want) {
			t.Errorf("did not get expected result for test: %d.\nGot: %#v\nWant: %#v", i, got, test.want)
		}
		if !bytes.Equal(in, test.in) {
			t.Errorf("input mutated for test: %d", i)
		}
	}
}

func TestUnescapeRBSPIndependentStorage(t *testing.T) {
	in := []byte{0x01, 0x02, 0x03}
	got := UnescapeRBSP(in)
	got[0] = 0xff
	if in[0] != 0x01 {
		t.Errorf("output shares storage with input")
	}
}

func TestUnescapeRBSPNoEscapes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; {
		in := randomPayload(rng, rng.Intn(64))
		if bytes.Contains(in, []byte{0x00, 0x00, 0x03}) {
			continue
		}
		i++
		got := UnescapeRBSP(in)
		if !bytes.Equal(got, in) {
			t.Fatalf("payload without escapes was changed.\nGot: %#v\nWant: %#v", got, in)
		}
	}
}

func TestEscapeRBSPRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		rbsp := randomPayload(rng, rng.Intn(64))
		escaped := EscapeRBSP(rbsp)

		for _, sc := range [][]byte{{0, 0, 0}, {0, 0, 1}, {0, 0, 2}} {
			if bytes.Contains(escaped, sc) {
				t.Fatalf("escaped payload %#v contains %#v", escaped, sc)
			}
		}

		got := UnescapeRBSP(escaped)
		if diff := cmp.Diff(rbsp, got); diff != "" {
			t.Fatalf("round trip mismatch for %#v (-want +got):\n%s", rbsp, diff)
		}

		ref := h264.EmulationPreventionRemove(escaped)
		if !bytes.Equal(got, ref) {
			t.Fatalf("mismatch with reference for %#v.\nGot: %#v\nReference: %#v", escaped, got, ref)
		}
	}
}

func TestEscapeRBSP(t *testing.T) {
	tests := []struct {
		in   []byte
		want []byte
	}{
		{in: []byte{0x00, 0x00, 0x00}, want: []byte{0x00, 0x00, 0x03, 0x00}},
		{in: []byte{0x00, 0x00, 0x03}, want: []byte{0x00, 0x00, 0x03, 0x03}},
		{in: []byte{0x00, 0x00, 0x04}, want: []byte{0x00, 0x00, 0x04}},
		{in: []byte{0x00, 0x00}, want: []byte{0x00, 0x00}},
		{in: []byte{0x00, 0x00, 0x00, 0x00, 0x01}, want: []byte{0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x01}},
	}

	for i, test := range tests {
		got := EscapeRBSP(test.in)
		if !bytes.Equal(got, test.want) {
			t.Errorf("did not get expected result for test: %d.\nGot: %#v\nWant: %#v", i, got, test.want)
		}
	}
}

func TestMoreRBSPData(t *testing.T) {
	tests := []struct {
		in   string
		skip int // Number of bits to read before the check.
		want bool
	}{
		{in: "00000100", want: true},
		{in: "10000100", want: true},
		{in: "10000000", want: false},
		{in: "10000000 00000000", want: false},
		{in: "10000000 00000000 00000000 00000001", want: true},
		{in: "00000000", want: false},
		{in: "", want: false},
		{in: "11010000", skip: 2, want: true},
		{in: "11010000", skip: 3, want: false},
		{in: "11010000", skip: 4, want: false},
		{in: "11111111 10000000", skip: 8, want: false},
		{in: "11111111 11000000", skip: 8, want: true},
	}

	for i, test := range tests {
		b, err := binToSlice(test.in)
		if err != nil {
			t.Fatalf("unexpected binToSlice error: %v for test: %d", err, i)
		}

		br := bits.NewBitReader(b)
		if _, err := br.ReadBits(test.skip); err != nil {
			t.Fatalf("unexpected error skipping bits: %v for test: %d", err, i)
		}

		got := moreRBSPData(br)
		if got != test.want {
			t.Errorf("unexpected result for test: %d\nGot: %v\nWant: %v\n", i, got, test.want)
		}
	}
}

func TestRBSPTrailingBits(t *testing.T) {
	tests := []struct {
		in      string
		skip    int
		wantErr bool
	}{
		{in: "10000000"},
		{in: "11110000", skip: 3},
		{in: "00000001", skip: 7},
		{in: "11111111 10000000", skip: 8},
		{in: "00000000", wantErr: true},
		{in: "11000000", wantErr: true},
		{in: "10000001", wantErr: true},
		{in: "11111111", skip: 8, wantErr: true},
		{in: "", wantErr: true},
	}

	for i, test := range tests {
		b, err := binToSlice(test.in)
		if err != nil {
			t.Fatalf("unexpected binToSlice error: %v for test: %d", err, i)
		}

		br := bits.NewBitReader(b)
		if _, err := br.ReadBits(test.skip); err != nil {
			t.Fatalf("unexpected error skipping bits: %v for test: %d", err, i)
		}

		err = rbspTrailingBits(br)
		if (err != nil) != test.wantErr {
			t.Errorf("unexpected error: %v for test: %d", err, i)
		}
		if err != nil && !errors.Is(err, ErrMalformedTrailingBits) {
			t.Errorf("error not ErrMalformedTrailingBits: %v for test: %d", err, i)
		}
		if err == nil && !byteAligned(br) {
			t.Errorf("reader not byte aligned after trailing bits for test: %d", i)
		}
	}
}

// randomPayload returns n random bytes drawn mostly from small values so
// that zero runs and emulation prevention patterns are common.
func randomPayload(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		if rng.Intn(4) == 0 {
			b[i] = byte(rng.Intn(256))
			continue
		}
		b[i] = byte(rng.Intn(4))
	}
	return b
}
