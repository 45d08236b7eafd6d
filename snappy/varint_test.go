package snappy

import (
	"bytes"
	"testing"
)

func TestUvarintRoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 0x7f, 0x80, 0x3fff, 0x4000, 65536, 1<<28 - 1, 1 << 28, 0xffffffff} {
		b := appendUvarint(nil, uint64(v))
		got, n := decodeUvarint32(b)
		if n != len(b) || got != v {
			t.Errorf("%#x: encoded as %x, decoded %#x using %d bytes", v, b, got, n)
		}
	}
}

func TestUvarintEncoding(t *testing.T) {
	testCases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{64, []byte{0x40}},
		{300, []byte{0xac, 0x02}},
		{65536, []byte{0x80, 0x80, 0x04}},
		{0xffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, tc := range testCases {
		if got := appendUvarint(nil, tc.v); !bytes.Equal(got, tc.want) {
			t.Errorf("appendUvarint(%d) = %x, want %x", tc.v, got, tc.want)
		}
	}
}

func TestUvarintInvalid(t *testing.T) {
	testCases := map[string][]byte{
		"empty":                  {},
		"truncated":              {0x80},
		"truncated after four":   {0xff, 0xff, 0xff, 0xff},
		"overflows 32 bits":      {0xff, 0xff, 0xff, 0xff, 0x1f},
		"more than five bytes":   {0x80, 0x80, 0x80, 0x80, 0x80, 0x00},
		"high bits in last byte": {0x80, 0x80, 0x80, 0x80, 0x10},
	}
	for name, b := range testCases {
		t.Run(name, func(t *testing.T) {
			if v, n := decodeUvarint32(b); n != 0 {
				t.Fatalf("decoded %#x using %d bytes, want failure", v, n)
			}
		})
	}
}
