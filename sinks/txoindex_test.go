// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package sinks

import (
	"bytes"
	"testing"
)

func TestTxoIndexRecordShape(t *testing.T) {
	blk := buildBlock(buildCoinbaseTx([]byte{0x51}, []byte{0x51}))

	it, err := blk.Transactions()
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	tx, err := it.Front()
	if err != nil {
		t.Fatalf("Front: %v", err)
	}
	wantHash := tx.Hash()
	wantValue := tx.Outputs[0].Value

	var buf bytes.Buffer
	idx := NewTxoIndex(&buf)
	if err := idx.Consume(0, &blk); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := buf.Bytes()
	if len(got) != 44 {
		t.Fatalf("got %d bytes, want 44", len(got))
	}
	if !bytes.Equal(got[:32], wantHash[:]) {
		t.Fatalf("hash mismatch: got %x, want %x", got[:32], wantHash)
	}
	vout := uint32(got[32]) | uint32(got[33])<<8 | uint32(got[34])<<16 | uint32(got[35])<<24
	if vout != 0 {
		t.Fatalf("vout = %d, want 0", vout)
	}
	var value uint64
	for i := 7; i >= 0; i-- {
		value = value<<8 | uint64(got[36+i])
	}
	if value != wantValue {
		t.Fatalf("value = %d, want %d", value, wantValue)
	}
}
