// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package sinks

import (
	"bytes"
	"testing"
)

func TestScriptsWritesLengthPrefixedRecords(t *testing.T) {
	inScript := []byte{0x51, 0x52}
	outScript := []byte{0x76, 0xa9, 0x14}
	blk := buildBlock(buildCoinbaseTx(inScript, outScript))

	var buf bytes.Buffer
	s := NewScripts(&buf)
	if err := s.Consume(0, &blk); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := buf.Bytes()

	wantLen := 2 + len(inScript) + 2 + len(outScript)
	if len(got) != wantLen {
		t.Fatalf("got %d bytes, want %d", len(got), wantLen)
	}

	if got[0] != byte(len(inScript)) || got[1] != 0 {
		t.Fatalf("bad input length prefix: %x", got[:2])
	}
	if !bytes.Equal(got[2:2+len(inScript)], inScript) {
		t.Fatalf("bad input script: %x", got[2:2+len(inScript)])
	}

	rest := got[2+len(inScript):]
	if rest[0] != byte(len(outScript)) || rest[1] != 0 {
		t.Fatalf("bad output length prefix: %x", rest[:2])
	}
	if !bytes.Equal(rest[2:2+len(outScript)], outScript) {
		t.Fatalf("bad output script: %x", rest[2:2+len(outScript)])
	}
}

func TestScriptsDropsOversizeScript(t *testing.T) {
	big := bytes.Repeat([]byte{0x01}, maxScriptRecordLength+1)
	blk := buildBlock(buildCoinbaseTx([]byte{0x51}, big))

	var buf bytes.Buffer
	s := NewScripts(&buf)
	if err := s.Consume(0, &blk); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Only the input record should have been written; the oversize output
	// script is silently dropped.
	want := 2 + 1
	if buf.Len() != want {
		t.Fatalf("got %d bytes, want %d (oversize script should be dropped)", buf.Len(), want)
	}
}
