// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package bestchain

import (
	"bytes"
	"testing"

	"github.com/rawblock/blockdat/block"
	"github.com/rawblock/blockdat/internal/byterange"
	"github.com/rawblock/blockdat/whitelist"
)

// buildHeader constructs an 80-byte header with the given prev hash and
// bits, and a version byte used only to vary the hash between otherwise
// identical headers in a test chain.
func buildHeader(version byte, prevHash [32]byte, bits uint32) []byte {
	raw := make([]byte, block.HeaderSize)
	raw[0] = version
	copy(raw[4:36], prevHash[:])
	raw[72] = byte(bits)
	raw[73] = byte(bits >> 8)
	raw[74] = byte(bits >> 16)
	raw[75] = byte(bits >> 24)
	return raw
}

func headerHash(raw []byte) [32]byte {
	h := block.NewHeader(byterange.Range(append([]byte(nil), raw...)))
	return h.Hash()
}

func TestLoadHeadersFindTipsAndSelectBestChain(t *testing.T) {
	genesis := buildHeader(0x01, [32]byte{}, 10)
	genesisHash := headerHash(genesis)

	a := buildHeader(0x02, genesisHash, 20)
	aHash := headerHash(a)

	// Two competing tips off of A: b has more work than c.
	b := buildHeader(0x03, aHash, 30)
	c := buildHeader(0x04, aHash, 5)

	var stream bytes.Buffer
	stream.Write(genesis)
	stream.Write(a)
	stream.Write(b)
	stream.Write(c)

	chain, err := LoadHeaders(&stream)
	if err != nil {
		t.Fatalf("LoadHeaders: %v", err)
	}
	if got := chain.Len(); got != 4 {
		t.Fatalf("Len() = %d, want 4", got)
	}

	tips := chain.FindTips()
	if len(tips) != 2 {
		t.Fatalf("FindTips() returned %d tips, want 2", len(tips))
	}

	best := chain.SelectBestChain()
	bHash := headerHash(b)
	if best.Hash != bHash {
		t.Fatalf("SelectBestChain() picked %x, want the b branch %x", best.Hash, bHash)
	}

	walked := chain.Walk(best)
	if len(walked) != 3 {
		t.Fatalf("Walk() returned %d nodes, want 3 (genesis, a, b)", len(walked))
	}
	if walked[0].Hash != genesisHash {
		t.Fatalf("Walk()[0] = %x, want genesis %x", walked[0].Hash, genesisHash)
	}
	if walked[len(walked)-1].Hash != bHash {
		t.Fatalf("Walk() last entry = %x, want tip %x", walked[len(walked)-1].Hash, bHash)
	}
}

func TestSelectBestChainFilteredRestrictsToAllowedSet(t *testing.T) {
	genesis := buildHeader(0x01, [32]byte{}, 10)
	genesisHash := headerHash(genesis)

	a := buildHeader(0x02, genesisHash, 20)
	aHash := headerHash(a)

	b := buildHeader(0x03, aHash, 30)
	c := buildHeader(0x04, aHash, 5)

	var stream bytes.Buffer
	stream.Write(genesis)
	stream.Write(a)
	stream.Write(b)
	stream.Write(c)

	chain, err := LoadHeaders(&stream)
	if err != nil {
		t.Fatalf("LoadHeaders: %v", err)
	}

	// Whitelist only the weaker tip c; the selector must honor the
	// restriction rather than picking the heavier b branch.
	cHash := headerHash(c)
	var hashes bytes.Buffer
	hashes.Write(cHash[:])
	allowed, err := whitelist.LoadHashSet(&hashes)
	if err != nil {
		t.Fatalf("LoadHashSet: %v", err)
	}

	best := chain.SelectBestChainFiltered(allowed)
	if best == nil || best.Hash != cHash {
		t.Fatalf("SelectBestChainFiltered() did not restrict to the allowed set")
	}

	// A nil/empty allowed set falls back to considering every node.
	bHash := headerHash(b)
	if got := chain.SelectBestChainFiltered(nil); got.Hash != bHash {
		t.Fatalf("SelectBestChainFiltered(nil) = %x, want unrestricted best %x", got.Hash, bHash)
	}
}

func TestWorkIsFullAccumulatedChainWork(t *testing.T) {
	genesis := buildHeader(0x01, [32]byte{}, 7)
	genesisHash := headerHash(genesis)
	a := buildHeader(0x02, genesisHash, 11)

	var stream bytes.Buffer
	stream.Write(genesis)
	stream.Write(a)

	chain, err := LoadHeaders(&stream)
	if err != nil {
		t.Fatalf("LoadHeaders: %v", err)
	}

	aHash := headerHash(a)
	aNode, ok := chain.nodes.Find(aHash)
	if !ok {
		t.Fatalf("node for a not found")
	}

	got := chain.work(aNode)
	if got != 18 {
		t.Fatalf("work(a) = %d, want 18 (7 + 11, full chain total)", got)
	}
}

func TestEncodeHeightsSortsByHashAndAssignsSequentialHeights(t *testing.T) {
	genesis := buildHeader(0x01, [32]byte{}, 1)
	genesisHash := headerHash(genesis)
	a := buildHeader(0x02, genesisHash, 1)

	chain := []*ChainNode{
		{Hash: genesisHash},
		{Hash: headerHash(a)},
	}

	out := EncodeHeights(chain)
	if len(out) != 72 {
		t.Fatalf("got %d bytes, want 72", len(out))
	}

	// Every record's height must appear somewhere in [0, len(chain)), and
	// every hash from chain must appear exactly once.
	seenHeights := map[uint32]bool{}
	for i := 0; i < len(out); i += 36 {
		height := uint32(out[i+32]) | uint32(out[i+33])<<8 | uint32(out[i+34])<<16 | uint32(out[i+35])<<24
		if height >= uint32(len(chain)) {
			t.Fatalf("height %d out of range", height)
		}
		seenHeights[height] = true
	}
	if len(seenHeights) != len(chain) {
		t.Fatalf("expected %d distinct heights, got %d", len(chain), len(seenHeights))
	}

	// Records must be sorted by hash.
	for i := 36; i < len(out); i += 36 {
		if bytes.Compare(out[i-36:i-4], out[i:i+32]) > 0 {
			t.Fatalf("records not sorted by hash")
		}
	}
}
