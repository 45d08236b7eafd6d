package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/andybalholm/snappyblock/snappy"
)

func TestRunRoundTrip(t *testing.T) {
	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200))

	for _, framed := range []bool{false, true} {
		var compressed bytes.Buffer
		if err := run(options{framed: framed}, bytes.NewReader(data), &compressed); err != nil {
			t.Fatalf("framed=%v: compress: %v", framed, err)
		}
		if compressed.Len() >= len(data) {
			t.Errorf("framed=%v: compressed %d bytes to %d", framed, len(data), compressed.Len())
		}

		var decompressed bytes.Buffer
		if err := run(options{decompress: true, framed: framed}, &compressed, &decompressed); err != nil {
			t.Fatalf("framed=%v: decompress: %v", framed, err)
		}
		if !bytes.Equal(decompressed.Bytes(), data) {
			t.Fatalf("framed=%v: decompressed output doesn't match", framed)
		}
	}
}

func TestRunMaxLen(t *testing.T) {
	compressed := snappy.Encode(nil, bytes.Repeat([]byte{'a'}, 1000))

	var out bytes.Buffer
	err := run(options{decompress: true, maxLen: 999}, bytes.NewReader(compressed), &out)
	if !errors.Is(err, snappy.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("wrote %d bytes after a failure", out.Len())
	}

	out.Reset()
	if err := run(options{decompress: true, maxLen: 1000}, bytes.NewReader(compressed), &out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 1000 {
		t.Fatalf("got %d bytes, want 1000", out.Len())
	}
}

func TestRunTrace(t *testing.T) {
	var out bytes.Buffer
	if err := run(options{trace: true}, strings.NewReader("abcdefgh"+strings.Repeat("abcdefgh", 4)+"0123456789abcdef"), &out); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "abcdefgh<32,8>0123456789abcdef\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
