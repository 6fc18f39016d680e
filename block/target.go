// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package block

import "bytes"

// Target expands a block's compact-encoded bits field into the full
// 256-bit big-endian Proof-of-Work target: mantissa * 256^(exponent-3),
// where exponent is the top byte of bits and mantissa is the low 23 bits.
//
// The mantissa's sign bit (0x00800000) is masked off rather than treated
// as negative, so only the remaining 23 bits are expanded. A zero
// exponent or a zero (masked) mantissa expands to a zero target.
func Target(bits uint32) [32]byte {
	exponent := int(bits >> 24)
	mantissa := bits & 0x007fffff

	var target [32]byte
	if exponent == 0 || mantissa == 0 {
		return target
	}

	mantissaBytes := [3]byte{byte(mantissa >> 16), byte(mantissa >> 8), byte(mantissa)}
	offset := 32 - exponent
	for i, b := range mantissaBytes {
		pos := offset + i
		if pos < 0 || pos >= len(target) {
			continue
		}
		target[pos] = b
	}
	return target
}

// Verify reports whether a header's hash, in big-endian display order,
// does not exceed the target its bits field encodes: the Proof-of-Work
// condition.
func Verify(h *Header) bool {
	target := Target(h.Bits())
	display := h.DisplayHash()
	return bytes.Compare(display[:], target[:]) <= 0
}
