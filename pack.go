// Package pack defines the intermediate representation shared by the pieces
// of an LZ77-style compressor.
//
// Compression is split into two steps:
//   - Something that looks for repeated sequences of bytes (a MatchFinder)
//   - An encoder for the compressed data format (an Encoder)
//
// The snappy subpackage provides both halves for the Snappy block format.
package pack

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// a new stream.
	Reset()
}

// An Encoder encodes the data in its final format.
type Encoder interface {
	// Encode appends the encoded format of src to dst, using the match
	// information from matches.
	Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte

	// Reset clears any internal state, preparing the Encoder to be used with
	// a new stream.
	Reset()
}

// Covered returns the number of source bytes described by matches.
func Covered(matches []Match) int {
	n := 0
	for _, m := range matches {
		n += m.Unmatched + m.Length
	}
	return n
}
