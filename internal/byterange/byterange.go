// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package byterange provides a non-owning, bounds-checked window over a
// contiguous byte buffer, in the spirit of the bytestring package this is
// adapted from, generalized to support peeking without advancing, taking
// and dropping sub-ranges, and big-endian-reversed views for database keys
// that must sort lexicographically.
package byterange

import "fmt"

// Range is a half-open view [0, len(Range)) over bytes it does not own.
// Copying a Range copies the window, not the underlying storage.
type Range []byte

// Size returns the number of bytes remaining in the range.
func (r Range) Size() int {
	return len(r)
}

// Empty reports whether the range has no bytes remaining.
func (r Range) Empty() bool {
	return len(r) == 0
}

// Take returns a new range over the first n bytes. It panics if n exceeds
// the range's size; out-of-range access is a programmer error, not a
// recoverable condition.
func (r Range) Take(n int) Range {
	if n < 0 || n > len(r) {
		panic(fmt.Sprintf("byterange: Take(%d) exceeds size %d", n, len(r)))
	}
	return r[:n:n]
}

// Drop returns a new range over the bytes past the first n.
func (r Range) Drop(n int) Range {
	if n < 0 || n > len(r) {
		panic(fmt.Sprintf("byterange: Drop(%d) exceeds size %d", n, len(r)))
	}
	return r[n:]
}

// Reverse returns a new range holding the bytes in reverse order. Used to
// turn a wire-order hash into display/big-endian order, and vice versa.
func (r Range) Reverse() Range {
	out := make(Range, len(r))
	for i, b := range r {
		out[len(r)-1-i] = b
	}
	return out
}

// Equal reports whether two ranges hold identical bytes.
func (r Range) Equal(other Range) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

func (r Range) mustHave(n int) {
	if n > len(r) {
		panic(fmt.Sprintf("byterange: need %d bytes, have %d", n, len(r)))
	}
}

// PeekUint8 returns the byte at offset off without advancing the range.
func (r Range) PeekUint8(off int) uint8 {
	r.mustHave(off + 1)
	return r[off]
}

// PeekUint16 returns the little-endian uint16 at offset off.
func (r Range) PeekUint16(off int) uint16 {
	r.mustHave(off + 2)
	return uint16(r[off]) | uint16(r[off+1])<<8
}

// PeekUint32 returns the little-endian uint32 at offset off.
func (r Range) PeekUint32(off int) uint32 {
	r.mustHave(off + 4)
	return uint32(r[off]) | uint32(r[off+1])<<8 | uint32(r[off+2])<<16 | uint32(r[off+3])<<24
}

// PeekUint64 returns the little-endian uint64 at offset off.
func (r Range) PeekUint64(off int) uint64 {
	r.mustHave(off + 8)
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(r[off+i])
	}
	return v
}

// PeekInt32 returns the little-endian, signed int32 at offset off.
func (r Range) PeekInt32(off int) int32 {
	return int32(r.PeekUint32(off))
}

// ReadUint8 reads and advances past a single byte.
func (r *Range) ReadUint8() uint8 {
	v := r.PeekUint8(0)
	*r = r.Drop(1)
	return v
}

// ReadUint16 reads and advances past a little-endian uint16.
func (r *Range) ReadUint16() uint16 {
	v := r.PeekUint16(0)
	*r = r.Drop(2)
	return v
}

// ReadUint32 reads and advances past a little-endian uint32.
func (r *Range) ReadUint32() uint32 {
	v := r.PeekUint32(0)
	*r = r.Drop(4)
	return v
}

// ReadUint64 reads and advances past a little-endian uint64.
func (r *Range) ReadUint64() uint64 {
	v := r.PeekUint64(0)
	*r = r.Drop(8)
	return v
}

// ReadInt32 reads and advances past a little-endian, signed int32.
func (r *Range) ReadInt32() int32 {
	return int32(r.ReadUint32())
}

// ReadBytes reads and advances past the next n bytes, returning them as a
// sub-range (not a copy).
func (r *Range) ReadBytes(n int) Range {
	v := r.Take(n)
	*r = r.Drop(n)
	return v
}

// CompactSizeWidth returns the number of bytes a compact-size-encoded value
// occupies on the wire, given its decoded value: 1 for values below 0xfd, 3
// for values that fit a uint16, 5 for uint32, 9 for uint64.
func CompactSizeWidth(v uint64) int {
	switch {
	case v < 0xfd:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// ReadCompactSize reads Bitcoin's compact-size (varint) integer encoding
// and advances past it. The first byte selects the width: values below
// 0xfd encode directly; 0xfd/0xfe/0xff flag a following u16/u32/u64.
func (r *Range) ReadCompactSize() uint64 {
	first := r.ReadUint8()
	switch {
	case first < 0xfd:
		return uint64(first)
	case first == 0xfd:
		return uint64(r.ReadUint16())
	case first == 0xfe:
		return uint64(r.ReadUint32())
	default:
		return r.ReadUint64()
	}
}

// PutUint32LE appends a little-endian uint32 to dst.
func PutUint32LE(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// PutUint32BE appends a big-endian uint32 to dst, used for database keys
// that must sort lexicographically by numeric value (e.g. height prefixes).
func PutUint32BE(dst []byte, v uint32) []byte {
	return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// PutUint64LE appends a little-endian uint64 to dst.
func PutUint64LE(dst []byte, v uint64) []byte {
	return append(dst,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}
