// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package sinks

import (
	"bytes"
	"testing"
)

func TestTxIndexRecordShape(t *testing.T) {
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

	var buf bytes.Buffer
	idx := NewTxIndex(&buf)
	if err := idx.Consume(42, &blk); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := buf.Bytes()
	if len(got) != 36 {
		t.Fatalf("got %d bytes, want 36", len(got))
	}
	if !bytes.Equal(got[:32], wantHash[:]) {
		t.Fatalf("hash mismatch: got %x, want %x", got[:32], wantHash)
	}
	height := uint32(got[32]) | uint32(got[33])<<8 | uint32(got[34])<<16 | uint32(got[35])<<24
	if height != 42 {
		t.Fatalf("height = %d, want 42", height)
	}
}
