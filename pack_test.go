package pack

import "testing"

func TestTextEncoder(t *testing.T) {
	src := []byte("abcdabcdabcdX")
	matches := []Match{
		{Unmatched: 4, Length: 8, Distance: 4},
		{Unmatched: 1},
	}
	if n := Covered(matches); n != len(src) {
		t.Fatalf("Covered = %d, want %d", n, len(src))
	}

	got := string(TextEncoder{}.Encode(nil, src, matches, false))
	if want := "abcd<8,4>X"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	got = string(TextEncoder{}.Encode(nil, src, matches[:1], true))
	if want := "abcd<8,4>X\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// literalFinder reports every block as a single unmatched run.
type literalFinder struct {
	blocks int
}

func (f *literalFinder) FindMatches(dst []Match, src []byte) []Match {
	f.blocks++
	return append(dst, Match{Unmatched: len(src)})
}

func (f *literalFinder) Reset() { f.blocks = 0 }

func TestCompressorBlocks(t *testing.T) {
	f := new(literalFinder)
	c := &Compressor{
		MatchFinder: f,
		Encoder:     TextEncoder{},
		BlockSize:   4,
	}

	got := string(c.Append([]byte(">"), []byte("0123456789")))
	if want := ">0123456789\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if f.blocks != 3 {
		t.Fatalf("FindMatches called %d times, want 3", f.blocks)
	}

	if got := c.Append(nil, nil); len(got) != 0 {
		t.Fatalf("empty input produced %q", got)
	}

	c.Reset()
	if f.blocks != 0 {
		t.Fatal("Reset didn't reach the MatchFinder")
	}
}
