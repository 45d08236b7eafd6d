package snappy

import (
	"encoding/binary"
	"math/bits"

	pack "github.com/andybalholm/snappyblock"
)

const inputMargin = 16 - 1

const minNonLiteralBlockSize = 1 + 1 + inputMargin

const (
	// MaxBlockSize is the largest block FindMatches accepts. Longer inputs
	// are split into blocks of this size, each compressed independently.
	MaxBlockSize = 65536

	maxTableBits = 14
)

// MatchFinder is an implementation of the pack.MatchFinder interface based
// on the algorithm used by snappy.
//
// The hash table is kept between calls to avoid reallocating it, so a
// MatchFinder must not be used by more than one goroutine at a time. The zero
// value is ready to use.
type MatchFinder struct {
	table []uint16
}

var _ pack.MatchFinder = (*MatchFinder)(nil)

// Reset clears the hash table. FindMatches does this at the start of every
// block anyway, since blocks never refer to each other.
func (q *MatchFinder) Reset() {
	clear(q.table)
}

// resetTable prepares a cleared hash table for a block of n bytes and returns
// it along with the shift for hash. The table has 2^k entries, where k is the
// largest value in [1, maxTableBits] with 2^k <= n.
func (q *MatchFinder) resetTable(n int) ([]uint16, uint32) {
	tableBits := 1
	for tableBits < maxTableBits && 1<<(tableBits+1) <= n {
		tableBits++
	}
	size := 1 << tableBits
	if cap(q.table) < size {
		q.table = make([]uint16, size)
	} else {
		q.table = q.table[:size]
		clear(q.table)
	}
	return q.table, uint32(32 - tableBits)
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
// src must not be longer than MaxBlockSize bytes. Distances never reach
// outside src.
func (q *MatchFinder) FindMatches(dst []pack.Match, src []byte) []pack.Match {
	if len(src) > MaxBlockSize {
		panic("block too long")
	}
	if len(src) < minNonLiteralBlockSize {
		if len(src) > 0 {
			dst = append(dst, pack.Match{
				Unmatched: len(src),
			})
		}
		return dst
	}

	table, shift := q.resetTable(len(src))
	// mask is redundant, but helps the compiler eliminate bounds checks.
	mask := uint32(len(table) - 1)

	// sLimit is when to stop looking for offset/length copies. The inputMargin
	// keeps every 4- and 8-byte load below inside src.
	sLimit := len(src) - inputMargin

	// nextEmit is where in src the next literal should start from.
	nextEmit := 0

	// The encoded form must start with a literal, as there are no previous
	// bytes to copy, so we start looking for hash matches at s == 1.
	s := 1
	nextHash := hash(load32(src, s), shift)

	for {
		// Heuristic match skipping: after 32 misses in a row, only look at
		// every other byte; after 32 more, every third byte, and so on. A
		// match goes straight back to looking at every byte. Incompressible
		// input is therefore abandoned quickly instead of being hashed at
		// every position.
		skip := 32

		nextS := s
		candidate := 0
		for {
			s = nextS
			bytesBetweenHashLookups := skip >> 5
			nextS = s + bytesBetweenHashLookups
			skip++
			if nextS > sLimit {
				goto emitRemainder
			}
			// The table starts out zeroed, so candidate may be a
			// position that was never stored. The comparison below
			// rejects it unless the bytes really match.
			candidate = int(table[nextHash&mask])
			table[nextHash&mask] = uint16(s)
			nextHash = hash(load32(src, nextS), shift)
			if load32(src, s) == load32(src, candidate) {
				break
			}
		}

		// A 4-byte match has been found. src[nextEmit:s] is unmatched.
		// Record the match, then see if another match starts right where
		// it ends. Repeat until there is no match immediately after the
		// last one.
		for {
			// Invariant: we have a 4-byte match at s.
			base := s

			s = extendMatch(src, candidate+4, s+4)

			dst = append(dst, pack.Match{
				Unmatched: base - nextEmit,
				Length:    s - base,
				Distance:  base - candidate,
			})
			nextEmit = s
			if s >= sLimit {
				goto emitRemainder
			}

			// Insert s-1 and s into the table, and check whether s
			// starts another match. One 8-byte load covers all three
			// hash calculations.
			x := binary.LittleEndian.Uint64(src[s-1:])
			prevHash := hash(uint32(x>>0), shift)
			table[prevHash&mask] = uint16(s - 1)
			currHash := hash(uint32(x>>8), shift)
			candidate = int(table[currHash&mask])
			table[currHash&mask] = uint16(s)
			if uint32(x>>8) != load32(src, candidate) {
				nextHash = hash(uint32(x>>16), shift)
				s++
				break
			}
		}
	}

emitRemainder:
	if nextEmit < len(src) {
		dst = append(dst, pack.Match{
			Unmatched: len(src) - nextEmit,
		})
	}
	return dst
}

func load32(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[i:])
}

func hash(u, shift uint32) uint32 {
	return (u * 0x1e35a7bd) >> shift
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	// Compare 8 bytes at a time while there is room. On a mismatch, the
	// lowest set bit of the XOR is in the first differing byte.
	for j+8 < len(src) {
		iBytes := binary.LittleEndian.Uint64(src[i:])
		jBytes := binary.LittleEndian.Uint64(src[j:])
		if iBytes != jBytes {
			return j + bits.TrailingZeros64(iBytes^jBytes)>>3
		}
		i, j = i+8, j+8
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
