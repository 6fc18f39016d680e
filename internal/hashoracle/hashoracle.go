// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package hashoracle is the black-box hash primitive layer: SHA-256,
// double-SHA-256, SHA-1, RIPEMD-160 and the composite HASH160. Every
// function here is deterministic and stateless between calls, as required
// by callers that memoize or cache by hash value (see block.Block.Hash and
// bestchain.ChainNode).
package hashoracle

import (
	"crypto/sha1" //nolint:gosec // required by the wire format, not for security
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required by the wire format

	"github.com/rawblock/blockdat/hash160"
	"github.com/rawblock/blockdat/hash32"
)

// SHA256 returns the SHA-256 digest of data.
func SHA256(data []byte) hash32.T {
	return sha256.Sum256(data)
}

// DoubleSHA256 returns SHA-256(SHA-256(data)), the hash used for block and
// transaction identifiers.
func DoubleSHA256(data []byte) hash32.T {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// SHA1 returns the SHA-1 digest of data as a hash160.T, used by the
// script-index sink to fingerprint scripts.
func SHA1(data []byte) hash160.T {
	return sha1.Sum(data)
}

// RIPEMD160 returns the RIPEMD-160 digest of data.
func RIPEMD160(data []byte) hash160.T {
	h := ripemd160.New()
	h.Write(data) //nolint:errcheck // hash.Hash.Write never errors
	var out hash160.T
	copy(out[:], h.Sum(nil))
	return out
}

// HASH160 returns RIPEMD160(SHA256(data)), Bitcoin's standard
// pubkey/script hash.
func HASH160(data []byte) hash160.T {
	digest := sha256.Sum256(data)
	return RIPEMD160(digest[:])
}
