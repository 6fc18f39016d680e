// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package block

import (
	"testing"

	"github.com/rawblock/blockdat/internal/byterange"
	"github.com/rawblock/blockdat/internal/hashoracle"
)

// buildLegacyTx builds a minimal non-segwit, one-input, one-output
// transaction: version(4) + inCount(1) + [outpoint(36) + scriptLen(1)=0 +
// sequence(4)] + outCount(1) + [value(8) + scriptLen(1)=0] + locktime(4).
func buildLegacyTx() []byte {
	var buf []byte
	buf = append(buf, 0x02, 0x00, 0x00, 0x00) // version 2
	buf = append(buf, 0x01)                   // 1 input
	buf = append(buf, make([]byte, 32)...)    // prev hash (zero, coinbase-shaped)
	buf = append(buf, 0xff, 0xff, 0xff, 0xff) // prev vout
	buf = append(buf, 0x00)                   // empty script
	buf = append(buf, 0xff, 0xff, 0xff, 0xff) // sequence
	buf = append(buf, 0x01)                   // 1 output
	buf = append(buf, 0x00, 0xf2, 0x05, 0x2a, 0x01, 0x00, 0x00, 0x00) // value
	buf = append(buf, 0x00)          // empty script
	buf = append(buf, 0, 0, 0, 0)    // locktime
	return buf
}

func TestParseLegacyTransaction(t *testing.T) {
	raw := buildLegacyTx()
	tx, rest, err := parseTransaction(byterange.Range(raw))
	if err != nil {
		t.Fatal(err)
	}
	if !rest.Empty() {
		t.Fatalf("expected no trailing bytes, got %d", rest.Size())
	}
	if tx.Version != 2 {
		t.Fatalf("Version: got %d want 2", tx.Version)
	}
	if tx.Segwit {
		t.Fatal("legacy transaction misdetected as segwit")
	}
	if len(tx.Inputs) != 1 || len(tx.Outputs) != 1 {
		t.Fatalf("got %d inputs, %d outputs", len(tx.Inputs), len(tx.Outputs))
	}
	if !tx.IsCoinbase() {
		t.Fatal("expected coinbase shape to be detected")
	}
	if tx.Data.Size() != len(raw) {
		t.Fatalf("Data extent: got %d want %d", tx.Data.Size(), len(raw))
	}
	wantHash := hashoracle.DoubleSHA256(raw)
	if tx.Hash() != wantHash {
		t.Fatal("Hash() does not match double-sha256 of the full extent")
	}
}

func TestTransactionIteratorLazyDecoding(t *testing.T) {
	one := buildLegacyTx()
	two := buildLegacyTx()
	var body []byte
	body = append(body, one...)
	body = append(body, two...)

	it := NewTransactionIterator(byterange.Range(body), 2)
	if it.Empty() {
		t.Fatal("iterator should not be empty")
	}
	if it.Size() != 2 {
		t.Fatalf("Size: got %d want 2", it.Size())
	}

	first, err := it.Front()
	if err != nil {
		t.Fatal(err)
	}
	if first.Data.Size() != len(one) {
		t.Fatalf("first tx extent: got %d want %d", first.Data.Size(), len(one))
	}
	// Calling Front again before Drop must return the same transaction.
	again, err := it.Front()
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Fatal("Front is not idempotent before Drop")
	}

	if err := it.Drop(); err != nil {
		t.Fatal(err)
	}
	if it.Size() != 1 {
		t.Fatalf("Size after Drop: got %d want 1", it.Size())
	}

	second, err := it.Front()
	if err != nil {
		t.Fatal(err)
	}
	if second.Data.Size() != len(two) {
		t.Fatalf("second tx extent: got %d want %d", second.Data.Size(), len(two))
	}

	if err := it.Drop(); err != nil {
		t.Fatal(err)
	}
	if !it.Empty() {
		t.Fatal("iterator should be empty after consuming both transactions")
	}
}

// buildSegwitTx builds a three-input segwit transaction. Input 0 has an
// empty script and a one-element witness stack (P2WPKH). Input 1 has an
// empty script and a two-element witness stack (P2WSH). Input 2 has a
// non-empty script and an empty witness stack, which must not be
// classified even though an empty stack alone would read as the error
// tag.
func buildSegwitTx() []byte {
	var buf []byte
	buf = append(buf, 0x02, 0x00, 0x00, 0x00) // version 2
	buf = append(buf, 0x00, 0x01)             // segwit marker, flag
	buf = append(buf, 0x03)                   // 3 inputs

	for i := 0; i < 2; i++ {
		buf = append(buf, make([]byte, 32)...)
		buf = append(buf, 0x00, 0x00, 0x00, 0x00)
		buf = append(buf, 0x00) // empty script
		buf = append(buf, 0xff, 0xff, 0xff, 0xff)
	}
	buf = append(buf, make([]byte, 32)...)
	buf = append(buf, 0x00, 0x00, 0x00, 0x00)
	buf = append(buf, 0x01, 0x51) // 1-byte script: OP_TRUE
	buf = append(buf, 0xff, 0xff, 0xff, 0xff)

	buf = append(buf, 0x01)                                           // 1 output
	buf = append(buf, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00) // value
	buf = append(buf, 0x00)                                           // empty script

	// witness for input 0: 1 item
	buf = append(buf, 0x01, 0x02, 0xaa, 0xbb)
	// witness for input 1: 2 items
	buf = append(buf, 0x02, 0x01, 0xcc, 0x01, 0xdd)
	// witness for input 2: 0 items
	buf = append(buf, 0x00)

	buf = append(buf, 0, 0, 0, 0) // locktime
	return buf
}

func TestSegwitInputWitnessTagClassification(t *testing.T) {
	raw := buildSegwitTx()
	tx, rest, err := parseTransaction(byterange.Range(raw))
	if err != nil {
		t.Fatal(err)
	}
	if !rest.Empty() {
		t.Fatalf("expected no trailing bytes, got %d", rest.Size())
	}
	if !tx.Segwit {
		t.Fatal("expected segwit transaction")
	}
	if len(tx.Inputs) != 3 {
		t.Fatalf("got %d inputs, want 3", len(tx.Inputs))
	}
	if tx.Inputs[0].WitnessTag != WitnessP2WPKH {
		t.Fatalf("input 0 tag = %v, want WitnessP2WPKH", tx.Inputs[0].WitnessTag)
	}
	if tx.Inputs[1].WitnessTag != WitnessP2WSH {
		t.Fatalf("input 1 tag = %v, want WitnessP2WSH", tx.Inputs[1].WitnessTag)
	}
	if tx.Inputs[2].WitnessTag != WitnessNone {
		t.Fatalf("input 2 tag = %v, want WitnessNone (non-empty script)", tx.Inputs[2].WitnessTag)
	}
}

func TestWitnessTagEmptyStackIsError(t *testing.T) {
	w := Witness{}
	if got := w.Tag(); got != WitnessOther {
		t.Fatalf("Tag() on empty stack = %v, want WitnessOther", got)
	}
}

func TestParseTransactionTruncated(t *testing.T) {
	raw := buildLegacyTx()
	_, _, err := parseTransaction(byterange.Range(raw[:len(raw)-10]))
	if err == nil {
		t.Fatal("expected error decoding a truncated transaction")
	}
}
