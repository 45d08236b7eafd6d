package pack

// A Compressor runs a MatchFinder and an Encoder over an in-memory buffer,
// one block at a time.
type Compressor struct {
	MatchFinder MatchFinder
	Encoder     Encoder

	// BlockSize is the maximum number of bytes passed to the MatchFinder at
	// once.
	BlockSize int

	matches []Match
}

// Append splits src into blocks of at most BlockSize bytes, encodes each of
// them, and appends the results to dst. An empty src produces no blocks.
func (c *Compressor) Append(dst, src []byte) []byte {
	if c.BlockSize <= 0 {
		panic("pack: BlockSize must be positive")
	}
	for len(src) > 0 {
		block := src[:min(len(src), c.BlockSize)]
		src = src[len(block):]
		c.matches = c.MatchFinder.FindMatches(c.matches[:0], block)
		dst = c.Encoder.Encode(dst, block, c.matches, len(src) == 0)
	}
	return dst
}

// Reset clears the state of the MatchFinder and Encoder, preparing them for
// a new stream.
func (c *Compressor) Reset() {
	c.MatchFinder.Reset()
	c.Encoder.Reset()
}
