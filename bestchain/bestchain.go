// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package bestchain selects the heaviest header chain out of an
// unordered stream of 80-byte block headers. It is independent of the
// block/framer/sinks pipeline: it never sees a block body, only headers,
// and its notion of "work" is the sum of raw bits fields rather than a
// difficulty derived from the decoded target (block.Target is used only
// for the Proof-of-Work check, not here).
package bestchain

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rawblock/blockdat/block"
	"github.com/rawblock/blockdat/hash32"
	"github.com/rawblock/blockdat/internal/byterange"
	"github.com/rawblock/blockdat/internal/svmap"
	"github.com/rawblock/blockdat/whitelist"
)

// ChainNode is one header's chain-relevant fields, plus a memoized
// cumulative chain-work cache.
type ChainNode struct {
	Hash       hash32.T
	PrevHash   hash32.T
	Bits       uint32
	cachedWork uint64
}

// Chain is a sorted-vector index of every header read from a stream,
// keyed by header hash.
type Chain struct {
	nodes *svmap.Map[hash32.T, *ChainNode]
}

// LoadHeaders reads concatenated 80-byte headers from r until EOF and
// indexes them by hash. A partial trailing header is an error.
func LoadHeaders(r io.Reader) (*Chain, error) {
	m := svmap.New[hash32.T, *ChainNode](hash32.Less)
	buf := make([]byte, block.HeaderSize)
	count := 0

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				return nil, errors.New("bestchain: truncated header at end of stream")
			}
			return nil, errors.Wrap(err, "bestchain: reading header")
		}

		raw := make(byterange.Range, block.HeaderSize)
		copy(raw, buf)
		header := block.NewHeader(raw)

		node := &ChainNode{
			Hash:     header.Hash(),
			PrevHash: header.PrevHash(),
			Bits:     header.Bits(),
		}
		m.Append(node.Hash, node)
		count++
	}

	logrus.WithField("headers", count).Info("bestchain: read headers")
	m.Sort()
	logrus.WithField("headers", count).Info("bestchain: sorted headers")

	return &Chain{nodes: m}, nil
}

// Len returns the number of headers indexed.
func (c *Chain) Len() int {
	return c.nodes.Len()
}

// FindTips returns every node whose hash is never named as another
// node's prev_hash: the chain tips.
func (c *Chain) FindTips() []*ChainNode {
	hasChildren := make(map[hash32.T]bool)
	c.nodes.Range(func(_ hash32.T, node *ChainNode) {
		if _, ok := c.nodes.Find(node.PrevHash); ok {
			hasChildren[node.PrevHash] = true
		}
	})

	var tips []*ChainNode
	c.nodes.Range(func(hash hash32.T, node *ChainNode) {
		if !hasChildren[hash] {
			tips = append(tips, node)
		}
	})
	return tips
}

// work returns the total accumulated chain work from genesis through
// node, memoizing into node.cachedWork. The stored value is always the
// complete chain total, not a fragment a caller must keep adding to.
func (c *Chain) work(node *ChainNode) uint64 {
	if node.cachedWork != 0 {
		return node.cachedWork
	}

	total := uint64(node.Bits)
	if prev, ok := c.nodes.Find(node.PrevHash); ok {
		total += c.work(prev)
	}

	node.cachedWork = total
	return total
}

// SelectBestChain returns the tip of the heaviest chain by cumulative
// bits-as-work, considering every node. Ties favor the node visited
// last in key (hash) order.
func (c *Chain) SelectBestChain() *ChainNode {
	return c.SelectBestChainFiltered(nil)
}

// SelectBestChainFiltered is SelectBestChain restricted to nodes listed
// in allowed, when allowed holds any entries. A nil or empty allowed
// set considers every node, matching SelectBestChain.
func (c *Chain) SelectBestChainFiltered(allowed *whitelist.HashSet) *ChainNode {
	var best *ChainNode
	var bestWork uint64

	c.nodes.Range(func(_ hash32.T, node *ChainNode) {
		if !allowed.Empty() && !allowed.Contains(node.Hash) {
			return
		}
		w := c.work(node)
		if best == nil || w >= bestWork {
			best = node
			bestWork = w
		}
	})
	return best
}

// Walk returns the chain from genesis to tip, in height order: index 0
// is the genesis-adjacent root, the last entry is tip itself.
func (c *Chain) Walk(tip *ChainNode) []*ChainNode {
	var chain []*ChainNode
	for node := tip; node != nil; {
		chain = append(chain, node)
		prev, ok := c.nodes.Find(node.PrevHash)
		if !ok {
			break
		}
		node = prev
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// heightRecord is one hash-to-height binding, prior to the final
// sort-by-hash emission order.
type heightRecord struct {
	hash   hash32.T
	height uint32
}

// EncodeHeights assigns sequential heights [0..len(chain)-1] to a
// genesis-to-tip chain (as returned by Walk) and renders
// hash(32) || height(4 LE) records, sorted by hash.
func EncodeHeights(chain []*ChainNode) []byte {
	recs := make([]heightRecord, len(chain))
	for i, node := range chain {
		recs[i] = heightRecord{hash: node.Hash, height: uint32(i)}
	}
	sort.Slice(recs, func(i, j int) bool {
		return hash32.Less(recs[i].hash, recs[j].hash)
	})

	out := make([]byte, 0, len(recs)*36)
	for _, r := range recs {
		out = append(out, r.hash[:]...)
		out = byterange.PutUint32LE(out, r.height)
	}
	return out
}
