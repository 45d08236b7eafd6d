package snappy

// appendUvarint appends x to dst in varint format.
func appendUvarint(dst []byte, x uint64) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}

// decodeUvarint32 decodes the varint at the start of src. It returns the
// value and the number of bytes read. n is 0 if src ends before the varint
// does, or if the value does not fit in 32 bits.
//
// binary.Uvarint is not used here because it accepts up to 10 bytes and
// 64-bit values; the stream header is limited to 5 bytes and 32 bits.
func decodeUvarint32(src []byte) (v uint32, n int) {
	var shift uint
	for i := 0; i < len(src) && shift < 32; i++ {
		c := src[i]
		val := uint32(c & 0x7f)
		if val<<shift>>shift != val {
			return 0, 0
		}
		v |= val << shift
		if c < 0x80 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, 0
}
