// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package block deserializes raw, framed blocks: the 80-byte fixed header,
// the lazy transaction iterator over the body, and the Proof-of-Work target
// check used both to discard garbage between frames and to validate
// candidates.
package block

import (
	"github.com/pkg/errors"

	"github.com/rawblock/blockdat/hash32"
	"github.com/rawblock/blockdat/internal/byterange"
	"github.com/rawblock/blockdat/internal/hashoracle"
)

// HeaderSize is the fixed, on-wire size of a block header: version(4) +
// prevHash(32) + merkleRoot(32) + timestamp(4) + bits(4) + nonce(4).
const HeaderSize = 80

// Header is an 80-byte contiguous region with fields at fixed offsets, all
// little-endian. It borrows its bytes from the surrounding frame and must
// not outlive the buffer that frame was carved from.
type Header struct {
	raw        byterange.Range
	cachedHash hash32.T
	hashCached bool
}

// NewHeader wraps a byte range as a Header. It panics if raw is not
// exactly HeaderSize bytes, a programmer error (the framer is responsible
// for slicing an exact 80-byte window before constructing a Header).
func NewHeader(raw byterange.Range) Header {
	if raw.Size() != HeaderSize {
		panic(errors.Errorf("block: header must be %d bytes, got %d", HeaderSize, raw.Size()))
	}
	return Header{raw: raw}
}

// Version returns the block version number.
func (h Header) Version() int32 {
	return h.raw.PeekInt32(0)
}

// PrevHash returns the previous block's hash in wire (little-endian) order.
func (h Header) PrevHash() hash32.T {
	return hash32.FromSlice(h.raw.Take(36).Drop(4))
}

// MerkleRoot returns the merkle root in wire order.
func (h Header) MerkleRoot() hash32.T {
	return hash32.FromSlice(h.raw.Take(68).Drop(36))
}

// Timestamp returns the block's Unix time.
func (h Header) Timestamp() uint32 {
	return h.raw.PeekUint32(68)
}

// Bits returns the compact-encoded PoW target.
func (h Header) Bits() uint32 {
	return h.raw.PeekUint32(72)
}

// Nonce returns the block's nonce field.
func (h Header) Nonce() uint32 {
	return h.raw.PeekUint32(76)
}

// Bytes returns the raw 80-byte header extent.
func (h Header) Bytes() byterange.Range {
	return h.raw
}

// Hash returns double_sha256(header) in wire (little-endian) byte order.
// The result is memoized on first call.
func (h *Header) Hash() hash32.T {
	if !h.hashCached {
		h.cachedHash = hashoracle.DoubleSHA256(h.raw)
		h.hashCached = true
	}
	return h.cachedHash
}

// DisplayHash returns the block hash in the conventional big-endian
// display order (the reverse of the wire order).
func (h *Header) DisplayHash() hash32.T {
	return hash32.Reverse(h.Hash())
}
