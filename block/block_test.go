// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package block

import (
	"testing"

	"github.com/rawblock/blockdat/internal/byterange"
)

func TestBlockTransactionCountAndIteration(t *testing.T) {
	tx := buildLegacyTx()
	var body []byte
	body = append(body, 0x02) // compact-size count = 2
	body = append(body, tx...)
	body = append(body, tx...)

	header := NewHeader(byterange.Range(sampleHeaderBytes()))
	blk := NewBlock(header, byterange.Range(body))

	count, err := blk.TransactionCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("TransactionCount: got %d want 2", count)
	}

	it, err := blk.Transactions()
	if err != nil {
		t.Fatal(err)
	}
	seen := 0
	for !it.Empty() {
		if _, err := it.Front(); err != nil {
			t.Fatal(err)
		}
		if err := it.Drop(); err != nil {
			t.Fatal(err)
		}
		seen++
	}
	if seen != 2 {
		t.Fatalf("iterated %d transactions, want 2", seen)
	}
}

func TestBlockHashDelegatesToHeader(t *testing.T) {
	header := NewHeader(byterange.Range(sampleHeaderBytes()))
	blk := NewBlock(header, byterange.Range{0x00})
	if blk.Hash() != blk.Header().Hash() {
		t.Fatal("Block.Hash should match Header.Hash")
	}
	if blk.PrevHash() != blk.Header().PrevHash() {
		t.Fatal("Block.PrevHash should match Header.PrevHash")
	}
}
