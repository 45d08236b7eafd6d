package snappy

import (
	"sync"

	pack "github.com/andybalholm/snappyblock"
)

const (
	tagLiteral = 0x00
	tagCopy1   = 0x01
	tagCopy2   = 0x02
	tagCopy4   = 0x03
)

// MaxEncodedLen returns the maximum length of a snappy block, given its
// uncompressed length.
func MaxEncodedLen(srcLen int) int {
	return 32 + srcLen + srcLen/6
}

// A BlockEncoder implements the pack.Encoder interface, writing the literal
// and copy elements of the Snappy block format. It does not write the length
// header; Compressor does that once for the whole stream.
type BlockEncoder struct{}

var _ pack.Encoder = BlockEncoder{}

func (BlockEncoder) Reset() {}

func (BlockEncoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = appendLiteral(dst, src[pos:pos+m.Unmatched])
			pos += m.Unmatched
		}
		if m.Length > 0 {
			dst = appendCopy(dst, m.Length, m.Distance)
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = appendLiteral(dst, src[pos:])
	}
	return dst
}

// appendLiteral appends a literal element for lit, which must be between 1
// and 65536 bytes long.
func appendLiteral(dst, lit []byte) []byte {
	n := len(lit) - 1
	switch {
	case n < 60:
		dst = append(dst, byte(n)<<2|tagLiteral)
	case n < 1<<8:
		dst = append(dst, 60<<2|tagLiteral, byte(n))
	default:
		dst = append(dst, 61<<2|tagLiteral, byte(n), byte(n>>8))
	}
	return append(dst, lit...)
}

// appendCopy appends copy elements for a match of the given length at the
// given offset, which must be between 1 and 65535.
func appendCopy(dst []byte, length, offset int) []byte {
	// The maximum length for a single tagCopy1 or tagCopy2 op is 64 bytes. The
	// threshold for this loop is a little higher (at 68 = 64 + 4), and the
	// length emitted down below is a little lower (at 60 = 64 - 4), because
	// it's shorter to encode a length 67 copy as a length 60 tagCopy2 followed
	// by a length 7 tagCopy1 (which encodes as 3+2 bytes) than to encode it as
	// a length 64 tagCopy2 followed by a length 3 tagCopy2 (which encodes as
	// 3+3 bytes). The magic 4 in the 64±4 is because the minimum length for a
	// tagCopy1 op is 4 bytes.
	for length >= 68 {
		// Emit a length 64 copy, encoded as 3 bytes.
		dst = append(dst,
			63<<2|tagCopy2,
			byte(offset),
			byte(offset>>8),
		)
		length -= 64
	}
	if length > 64 {
		// Emit a length 60 copy, encoded as 3 bytes.
		dst = append(dst,
			59<<2|tagCopy2,
			byte(offset),
			byte(offset>>8),
		)
		length -= 60
	}
	if length >= 12 || offset >= 2048 || length < 4 {
		// Emit the remaining copy, encoded as 3 bytes.
		return append(dst,
			byte(length-1)<<2|tagCopy2,
			byte(offset),
			byte(offset>>8),
		)
	}
	// Emit the remaining copy, encoded as 2 bytes.
	return append(dst,
		byte(offset>>8)<<5|byte(length-4)<<2|tagCopy1,
		byte(offset),
	)
}

// A Compressor produces Snappy blocks. It owns the match finder's hash
// table, which it reuses from one call to the next, so a Compressor must not
// be used by more than one goroutine at a time. The zero value is ready to
// use; a Compressor must not be copied after first use.
type Compressor struct {
	mf     MatchFinder
	blocks pack.Compressor
	framed pack.Compressor
}

func (c *Compressor) init() {
	if c.blocks.MatchFinder != nil {
		return
	}
	c.blocks = pack.Compressor{
		MatchFinder: &c.mf,
		Encoder:     BlockEncoder{},
		BlockSize:   MaxBlockSize,
	}
	c.framed = pack.Compressor{
		MatchFinder: &c.mf,
		Encoder:     &FrameEncoder{},
		BlockSize:   maxUncompressedChunkLen,
	}
}

// Encode returns the encoded form of src. The returned slice may be a
// sub-slice of dst if dst was large enough to hold the entire encoded block.
//
// Encode panics with ErrTooLarge if len(src) does not fit in 32 bits.
func (c *Compressor) Encode(dst, src []byte) []byte {
	if uint64(len(src)) > 0xffffffff {
		panic(ErrTooLarge)
	}
	c.init()
	if n := MaxEncodedLen(len(src)); cap(dst) < n {
		dst = make([]byte, 0, n)
	} else {
		dst = dst[:0]
	}
	dst = appendUvarint(dst, uint64(len(src)))
	return c.blocks.Append(dst, src)
}

// AppendFramed appends src to dst in the Snappy framing format: a stream
// identifier followed by one chunk per block.
func (c *Compressor) AppendFramed(dst, src []byte) []byte {
	c.init()
	if len(src) == 0 {
		return append(dst, magicChunk...)
	}
	c.framed.Encoder.Reset()
	return c.framed.Append(dst, src)
}

var compressorPool = sync.Pool{
	New: func() any {
		return new(Compressor)
	},
}

// Encode returns the encoded form of src. The returned slice may be a
// sub-slice of dst if dst was large enough to hold the entire encoded block.
// Encode is safe for concurrent use; each call borrows its own Compressor.
func Encode(dst, src []byte) []byte {
	c := compressorPool.Get().(*Compressor)
	dst = c.Encode(dst, src)
	compressorPool.Put(c)
	return dst
}

// EncodeFramed returns src in the Snappy framing format.
func EncodeFramed(src []byte) []byte {
	c := compressorPool.Get().(*Compressor)
	dst := c.AppendFramed(nil, src)
	compressorPool.Put(c)
	return dst
}
