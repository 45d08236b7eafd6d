package snappy

import "errors"

var (
	// ErrInvalidHeader reports that the leading uncompressed-length varint
	// is truncated or does not fit in 32 bits.
	ErrInvalidHeader = errors.New("snappy: invalid length header")
	// ErrTooLarge reports that the declared uncompressed length exceeds the
	// caller's limit.
	ErrTooLarge = errors.New("snappy: decoded block is too large")
	// ErrCorrupt reports that the opcode stream is invalid.
	ErrCorrupt = errors.New("snappy: corrupt input")
	// ErrUnsupported reports that a framed stream contains a chunk type this
	// package does not understand.
	ErrUnsupported = errors.New("snappy: unsupported input")
)
