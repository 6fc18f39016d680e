// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package sinks

import (
	"github.com/rawblock/blockdat/block"
	"github.com/rawblock/blockdat/internal/byterange"
)

// compactSize appends a Bitcoin compact-size encoding of n to buf.
func compactSize(buf []byte, n int) []byte {
	v := uint64(n)
	switch {
	case v < 0xfd:
		return append(buf, byte(v))
	case v <= 0xffff:
		return append(buf, 0xfd, byte(v), byte(v>>8))
	default:
		return append(append(buf, 0xfe), byterange.PutUint32LE(nil, uint32(v))...)
	}
}

// buildCoinbaseTx builds a minimal one-input, one-output legacy
// transaction shaped like a coinbase: prev hash all zero, prev vout
// 0xffffffff.
func buildCoinbaseTx(inputScript, outputScript []byte) []byte {
	var buf []byte
	buf = append(buf, 0x01, 0x00, 0x00, 0x00) // version 1
	buf = append(buf, 0x01)                   // 1 input
	buf = append(buf, make([]byte, 32)...)    // prev hash zero
	buf = append(buf, 0xff, 0xff, 0xff, 0xff) // prev vout
	buf = compactSize(buf, len(inputScript))
	buf = append(buf, inputScript...)
	buf = append(buf, 0xff, 0xff, 0xff, 0xff) // sequence
	buf = append(buf, 0x01)                   // 1 output
	buf = append(buf, 0x00, 0xf2, 0x05, 0x2a, 0x01, 0x00, 0x00, 0x00)
	buf = compactSize(buf, len(outputScript))
	buf = append(buf, outputScript...)
	buf = append(buf, 0, 0, 0, 0) // locktime
	return buf
}

// buildSegwitTx builds a one-input, one-output segwit transaction whose
// input has an empty script and the given witness stack.
func buildSegwitTx(witnessStack [][]byte, outputScript []byte) []byte {
	var buf []byte
	buf = append(buf, 0x02, 0x00, 0x00, 0x00) // version 2
	buf = append(buf, 0x00, 0x01)             // segwit marker, flag
	buf = append(buf, 0x01)                   // 1 input
	buf = append(buf, make([]byte, 32)...)    // prev hash
	buf = append(buf, 0x00, 0x00, 0x00, 0x00) // prev vout
	buf = append(buf, 0x00)                   // empty script
	buf = append(buf, 0xff, 0xff, 0xff, 0xff) // sequence
	buf = append(buf, 0x01)                   // 1 output
	buf = append(buf, 0x00, 0xf2, 0x05, 0x2a, 0x01, 0x00, 0x00, 0x00)
	buf = compactSize(buf, len(outputScript))
	buf = append(buf, outputScript...)
	buf = compactSize(buf, len(witnessStack)) // witness item count
	for _, item := range witnessStack {
		buf = compactSize(buf, len(item))
		buf = append(buf, item...)
	}
	buf = append(buf, 0, 0, 0, 0) // locktime
	return buf
}

func sampleHeaderBytes() []byte {
	raw := make([]byte, block.HeaderSize)
	raw[0] = 0x01
	raw[72], raw[73], raw[74], raw[75] = 0xff, 0xff, 0x00, 0x1d
	return raw
}

// buildBlock assembles a header plus a body of the given raw
// transactions, with a leading compact-size transaction count.
func buildBlock(txs ...[]byte) block.Block {
	var body []byte
	body = append(body, byte(len(txs)))
	for _, tx := range txs {
		body = append(body, tx...)
	}
	header := block.NewHeader(byterange.Range(sampleHeaderBytes()))
	return block.NewBlock(header, byterange.Range(body))
}
