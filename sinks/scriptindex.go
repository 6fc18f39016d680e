// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package sinks

import (
	"bufio"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/rawblock/blockdat/block"
	"github.com/rawblock/blockdat/hash160"
	"github.com/rawblock/blockdat/hash32"
	"github.com/rawblock/blockdat/internal/hashoracle"
	"github.com/rawblock/blockdat/whitelist"
)

// ScriptIndex writes one 84-byte `block_hash(32) || tx_hash(32) ||
// sha1(script)(20)` record per output and, when a prev-output map was
// supplied, per non-coinbase input. Every hash here is in wire byte
// order, matching the reference stdout dumper (as opposed to the LevelDB
// sink, which stores the reversed, display-order hash).
type ScriptIndex struct {
	mu       sync.Mutex
	w        *bufio.Writer
	prevOuts *whitelist.PrevOutputMap
}

// NewScriptIndex wraps w. prevOuts may be nil, in which case input
// records are skipped entirely (only output records are written).
func NewScriptIndex(w io.Writer, prevOuts *whitelist.PrevOutputMap) *ScriptIndex {
	return &ScriptIndex{w: bufio.NewWriter(w), prevOuts: prevOuts}
}

func (s *ScriptIndex) writeRecord(blockHash [32]byte, txHash [32]byte, scriptHash hash160.T) error {
	var rec [84]byte
	copy(rec[0:32], blockHash[:])
	copy(rec[32:64], txHash[:])
	copy(rec[64:84], scriptHash[:])
	_, err := s.w.Write(rec[:])
	return err
}

// Consume writes blk's script-index records.
func (s *ScriptIndex) Consume(_ uint32, blk *block.Block) error {
	blockHash := blk.Hash()

	it, err := blk.Transactions()
	if err != nil {
		return errors.Wrap(err, "scriptindex: transactions")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for !it.Empty() {
		tx, err := it.Front()
		if err != nil {
			return errors.Wrap(err, "scriptindex: decoding transaction")
		}
		txHash := tx.Hash()

		if s.prevOuts != nil && !s.prevOuts.Empty() {
			for _, in := range tx.Inputs {
				if in.PrevHash == hash32.Nil && in.PrevVout == 0xffffffff {
					scriptHash := hashoracle.SHA1(in.Script)
					if err := s.writeRecord(blockHash, txHash, scriptHash); err != nil {
						return err
					}
					continue
				}

				key := whitelist.PrevOutputKey(hashoracle.SHA1, in.PrevHash, in.PrevVout)
				scriptHash, ok := s.prevOuts.Lookup(key)
				if !ok {
					return errors.Errorf("scriptindex: prev-output map has no entry for %x:%d", in.PrevHash, in.PrevVout)
				}
				if err := s.writeRecord(blockHash, txHash, scriptHash); err != nil {
					return err
				}
			}
		}

		for _, out := range tx.Outputs {
			scriptHash := hashoracle.SHA1(out.Script)
			if err := s.writeRecord(blockHash, txHash, scriptHash); err != nil {
				return err
			}
		}

		if err := it.Drop(); err != nil {
			return errors.Wrap(err, "scriptindex: advancing iterator")
		}
	}
	return nil
}

// Close flushes any buffered output.
func (s *ScriptIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}
