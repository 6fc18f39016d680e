// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package hash160 mirrors hash32 for the 20-byte hashes produced by SHA-1
// and RIPEMD-160/HASH160, used by the script and script-index sinks.
package hash160

import (
	"bytes"
	"encoding/hex"
	"errors"
)

// T is a 20-byte hash value, such as a script hash or a pubkey hash.
type T [20]byte

// Nil is the unset/undefined hash160 value.
var Nil = T{}

// FromSlice converts a slice to a hash160; panics via runtime array
// conversion semantics if arg is shorter than 20 bytes.
func FromSlice(arg []byte) T {
	return T(arg)
}

// ToSlice converts a hash160 to a byte slice.
func ToSlice(arg T) []byte {
	return arg[:]
}

// Reverse returns the hash with bytes in reverse order.
func Reverse(arg T) T {
	r := T{}
	for i := 0; i < 20; i++ {
		r[i] = arg[20-1-i]
	}
	return r
}

// Less orders two hash160 values by their byte representation.
func Less(a, b T) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func Decode(s string) (T, error) {
	r := T{}
	hash, err := hex.DecodeString(s)
	if err != nil {
		return r, err
	}
	if len(hash) != 20 {
		return r, errors.New("DecodeHexHash: length is not 20 bytes")
	}
	return T(hash), nil
}

func Encode(arg T) string {
	return hex.EncodeToString(ToSlice(arg))
}
