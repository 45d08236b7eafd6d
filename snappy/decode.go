package snappy

import (
	"encoding/binary"
	"fmt"
)

const maxInt = int(^uint(0) >> 1)

// DecodedLen returns the length of the decoded block.
func DecodedLen(src []byte) (int, error) {
	v, _, err := decodedLen(src)
	return v, err
}

// decodedLen returns the length of the decoded block and the number of bytes
// that the length header occupied.
func decodedLen(src []byte) (blockLen, headerLen int, err error) {
	v, n := decodeUvarint32(src)
	if n == 0 {
		return 0, 0, ErrInvalidHeader
	}
	if uint64(v) > uint64(maxInt) {
		return 0, 0, ErrTooLarge
	}
	return int(v), n, nil
}

// Decode returns the decoded form of src. The returned slice may be a
// sub-slice of dst if dst was large enough to hold the entire decoded block.
// Otherwise, a newly allocated slice will be returned.
//
// The dst and src must not overlap. It is valid to pass a nil dst.
func Decode(dst, src []byte) ([]byte, error) {
	return DecodeLimit(dst, src, maxInt)
}

// DecodeLimit is like Decode, but it returns an error wrapping ErrTooLarge,
// without allocating anything, if the header declares more than maxLen
// bytes.
func DecodeLimit(dst, src []byte, maxLen int) ([]byte, error) {
	dLen, s, err := decodedLen(src)
	if err != nil {
		return nil, err
	}
	if dLen > maxLen {
		return nil, fmt.Errorf("%w: header declares %d bytes, limit is %d", ErrTooLarge, dLen, maxLen)
	}
	if cap(dst) >= dLen {
		dst = dst[:dLen]
	} else {
		dst = make([]byte, dLen)
	}
	if err := decode(dst, src[s:]); err != nil {
		return nil, err
	}
	return dst, nil
}

// decode writes the decoding of src to dst. It returns ErrCorrupt unless src
// is a well-formed sequence of elements that produces exactly len(dst) bytes.
func decode(dst, src []byte) error {
	var d, s, offset, length int
	for s < len(src) {
		switch src[s] & 0x03 {
		case tagLiteral:
			x := uint32(src[s] >> 2)
			switch {
			case x < 60:
				s++
			case x == 60:
				s += 2
				if uint(s) > uint(len(src)) {
					return ErrCorrupt
				}
				x = uint32(src[s-1])
			case x == 61:
				s += 3
				if uint(s) > uint(len(src)) {
					return ErrCorrupt
				}
				x = uint32(src[s-2]) | uint32(src[s-1])<<8
			case x == 62:
				s += 4
				if uint(s) > uint(len(src)) {
					return ErrCorrupt
				}
				x = uint32(src[s-3]) | uint32(src[s-2])<<8 | uint32(src[s-1])<<16
			case x == 63:
				s += 5
				if uint(s) > uint(len(src)) {
					return ErrCorrupt
				}
				x = binary.LittleEndian.Uint32(src[s-4:])
			}
			length = int(x) + 1
			if length <= 0 {
				// x+1 overflowed int on a 32-bit platform.
				return ErrCorrupt
			}
			if length > len(dst)-d || length > len(src)-s {
				return ErrCorrupt
			}
			copy(dst[d:], src[s:s+length])
			d += length
			s += length
			continue

		case tagCopy1:
			s += 2
			if uint(s) > uint(len(src)) {
				return ErrCorrupt
			}
			length = 4 + int(src[s-2])>>2&0x7
			offset = int(uint32(src[s-2])&0xe0<<3 | uint32(src[s-1]))

		case tagCopy2:
			s += 3
			if uint(s) > uint(len(src)) {
				return ErrCorrupt
			}
			length = 1 + int(src[s-3])>>2
			offset = int(uint32(src[s-2]) | uint32(src[s-1])<<8)

		case tagCopy4:
			s += 5
			if uint(s) > uint(len(src)) {
				return ErrCorrupt
			}
			length = 1 + int(src[s-5])>>2
			offset = int(binary.LittleEndian.Uint32(src[s-4:]))
		}

		if offset <= 0 || d < offset || length > len(dst)-d {
			return ErrCorrupt
		}
		if offset >= length {
			copy(dst[d:d+length], dst[d-offset:])
			d += length
			continue
		}
		// The source and destination overlap, so the copy must go forward
		// one byte at a time.
		for end := d + length; d != end; d++ {
			dst[d] = dst[d-offset]
		}
	}
	if d != len(dst) {
		return ErrCorrupt
	}
	return nil
}
