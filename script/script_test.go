// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package script

import (
	"testing"

	"github.com/rawblock/blockdat/internal/byterange"
)

// p2pkhScript builds OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG.
func p2pkhScript() []byte {
	var s []byte
	s = append(s, 0x76, 0xa9, 0x14)
	for i := 0; i < 20; i++ {
		s = append(s, byte(i))
	}
	s = append(s, 0x88, 0xac)
	return s
}

func TestASMStandardP2PKH(t *testing.T) {
	got := ASM(byterange.Range(p2pkhScript()))
	want := "OP_DUP OP_HASH160 000102030405060708090a0b0c0d0e0f10111213 OP_EQUALVERIFY OP_CHECKSIG"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestASMDirectLiteralPush(t *testing.T) {
	// opcode 0x04 pushes the following 4 bytes literally.
	s := []byte{0x04, 0xde, 0xad, 0xbe, 0xef}
	got := ASM(byterange.Range(s))
	if got != "deadbeef" {
		t.Fatalf("got %q want %q", got, "deadbeef")
	}
}

func TestASMPushData1(t *testing.T) {
	s := []byte{OpPushData1, 0x02, 0xaa, 0xbb}
	got := ASM(byterange.Range(s))
	if got != "aabb" {
		t.Fatalf("got %q want %q", got, "aabb")
	}
}

func TestASMTruncatedPushIsError(t *testing.T) {
	s := []byte{0x05, 0x01, 0x02} // claims 5 bytes, only 2 follow
	got := ASM(byterange.Range(s))
	if got != "<ERROR>" {
		t.Fatalf("got %q want <ERROR>", got)
	}
}

func TestNameFallsBackForUnknownOpcode(t *testing.T) {
	name := Name(0xc5)
	if name == "" {
		t.Fatal("Name should never return empty")
	}
}
