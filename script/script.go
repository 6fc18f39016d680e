// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package script

import (
	"fmt"
	"strings"

	"github.com/rawblock/blockdat/internal/byterange"
)

// pushDataLength reads the length of a push-data opcode's payload, given
// the opcode byte already consumed from cur: direct literal length below
// OpPushData1, or an explicit little-endian width field for
// OpPushData1/2/4.
func pushDataLength(opcode byte, cur *byterange.Range) (int, error) {
	switch {
	case opcode < OpPushData1:
		return int(opcode), nil
	case opcode == OpPushData1:
		if cur.Size() < 1 {
			return 0, fmt.Errorf("script: truncated OP_PUSHDATA1 length")
		}
		return int(cur.ReadUint8()), nil
	case opcode == OpPushData2:
		if cur.Size() < 2 {
			return 0, fmt.Errorf("script: truncated OP_PUSHDATA2 length")
		}
		return int(cur.ReadUint16()), nil
	case opcode == OpPushData4:
		if cur.Size() < 4 {
			return 0, fmt.Errorf("script: truncated OP_PUSHDATA4 length")
		}
		return int(cur.ReadUint32()), nil
	default:
		return 0, fmt.Errorf("script: opcode %#x is not a push-data opcode", opcode)
	}
}

// ASM renders a script's disassembly: each push-data instruction as its
// hex-encoded payload, each other opcode by its mnemonic, space-separated.
// A push whose declared length overruns the remaining script renders the
// whole result as the literal string "<ERROR>", matching the reference
// disassembler's failure mode instead of returning a Go error, so sinks
// can always print something.
func ASM(s byterange.Range) string {
	var sb strings.Builder
	cur := s

	for !cur.Empty() {
		opcode := cur.ReadUint8()

		if opcode > OpZero && opcode <= OpPushDataMax {
			length, err := pushDataLength(opcode, &cur)
			if err != nil || length > cur.Size() {
				return "<ERROR>"
			}
			data := cur.ReadBytes(length)
			sb.WriteString(fmt.Sprintf("%x ", []byte(data)))
			continue
		}

		sb.WriteString(Name(opcode))
		sb.WriteByte(' ')
	}
	return strings.TrimRight(sb.String(), " ")
}
