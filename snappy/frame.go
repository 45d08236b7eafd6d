package snappy

import (
	"encoding/binary"
	"hash/crc32"

	pack "github.com/andybalholm/snappyblock"
)

// The framing format is described in
// https://github.com/google/snappy/blob/master/framing_format.txt

const (
	chunkTypeCompressedData   = 0x00
	chunkTypeUncompressedData = 0x01
	chunkTypeStreamIdentifier = 0xff
)

const (
	checksumSize    = 4
	chunkHeaderSize = 4
	magicBody       = "sNaPpY"
	magicChunk      = "\xff\x06\x00\x00" + magicBody

	// "the uncompressed data in a chunk must be no longer than 65536 bytes".
	maxUncompressedChunkLen = 65536
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// crc implements the checksum specified in section 3 of the framing format.
func crc(b []byte) uint32 {
	c := crc32.Update(0, crcTable, b)
	return uint32(c>>15|c<<17) + 0xa282ead8
}

// A FrameEncoder implements the pack.Encoder interface, writing in the Snappy
// framing format. Each block becomes one chunk, so blocks must not be longer
// than 65536 bytes.
type FrameEncoder struct {
	wroteHeader bool
}

var _ pack.Encoder = (*FrameEncoder)(nil)

func (e *FrameEncoder) Reset() {
	e.wroteHeader = false
}

func (e *FrameEncoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	if len(src) > maxUncompressedChunkLen {
		panic("block too large")
	}

	if !e.wroteHeader {
		dst = append(dst, magicChunk...)
		e.wroteHeader = true
	}

	start := len(dst)
	checksum := crc(src)

	dst = append(dst,
		chunkTypeCompressedData,
		0, 0, 0, // placeholder for chunk length
	)
	dst = binary.LittleEndian.AppendUint32(dst, checksum)
	dataStart := len(dst)

	dst = appendUvarint(dst, uint64(len(src)))
	dst = BlockEncoder{}.Encode(dst, src, matches, lastBlock)

	dataLen := len(dst) - dataStart
	if dataLen >= len(src)-len(src)/8 {
		// The compression isn't saving even 12.5%.
		// Just do an uncompressed chunk.
		dst = append(dst[:dataStart], src...)
		dst[start] = chunkTypeUncompressedData
		dataLen = len(src)
	}

	chunkLen := dataLen + checksumSize
	dst[start+1] = byte(chunkLen)
	dst[start+2] = byte(chunkLen >> 8)
	dst[start+3] = byte(chunkLen >> 16)

	return dst
}

// DecodeFrame decodes the chunk at the start of a framed stream. It returns
// the chunk's uncompressed data, which is empty for stream identifier,
// padding and other skippable chunks, and the number of bytes of src the
// chunk occupied. The returned slice uses dst's storage if it is large
// enough.
//
// Compressed payloads are passed to Decode and checksums are verified.
// Reserved unskippable chunk types give ErrUnsupported.
func DecodeFrame(dst, src []byte) ([]byte, int, error) {
	if len(src) < chunkHeaderSize {
		return nil, 0, ErrCorrupt
	}
	chunkType := src[0]
	chunkLen := int(src[1]) | int(src[2])<<8 | int(src[3])<<16
	n := chunkHeaderSize + chunkLen
	if n > len(src) {
		return nil, 0, ErrCorrupt
	}
	body := src[chunkHeaderSize:n]

	switch chunkType {
	case chunkTypeStreamIdentifier:
		if string(body) != magicBody {
			return nil, 0, ErrCorrupt
		}
		return dst[:0], n, nil

	case chunkTypeCompressedData, chunkTypeUncompressedData:
		if len(body) < checksumSize {
			return nil, 0, ErrCorrupt
		}
		checksum := binary.LittleEndian.Uint32(body)
		body = body[checksumSize:]

		var out []byte
		if chunkType == chunkTypeCompressedData {
			var err error
			out, err = DecodeLimit(dst, body, maxUncompressedChunkLen)
			if err != nil {
				return nil, 0, err
			}
		} else {
			if len(body) > maxUncompressedChunkLen {
				return nil, 0, ErrCorrupt
			}
			out = append(dst[:0], body...)
		}
		if crc(out) != checksum {
			return nil, 0, ErrCorrupt
		}
		return out, n, nil
	}

	if chunkType <= 0x7f {
		// Section 4.5: reserved unskippable chunks.
		return nil, 0, ErrUnsupported
	}
	// Section 4.4 padding and 4.6 reserved skippable chunks.
	return dst[:0], n, nil
}

// DecodeFramed decodes an entire framed stream, which must begin with a
// stream identifier.
func DecodeFramed(src []byte) ([]byte, error) {
	if len(src) < len(magicChunk) || string(src[:len(magicChunk)]) != magicChunk {
		return nil, ErrCorrupt
	}
	var out, buf []byte
	for len(src) > 0 {
		chunk, n, err := DecodeFrame(buf, src)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		buf = chunk
		src = src[n:]
	}
	return out, nil
}
