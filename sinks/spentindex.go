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
	"github.com/rawblock/blockdat/internal/byterange"
)

// SpentIndex writes one 72-byte `prev_tx_hash(32) || prev_vout(4) ||
// tx_hash(32) || vin(4)` record per input, all fields in wire byte order.
type SpentIndex struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewSpentIndex wraps w for the spent-index sink.
func NewSpentIndex(w io.Writer) *SpentIndex {
	return &SpentIndex{w: bufio.NewWriter(w)}
}

// Consume writes blk's spent-index records.
func (s *SpentIndex) Consume(_ uint32, blk *block.Block) error {
	it, err := blk.Transactions()
	if err != nil {
		return errors.Wrap(err, "spentindex: transactions")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for !it.Empty() {
		tx, err := it.Front()
		if err != nil {
			return errors.Wrap(err, "spentindex: decoding transaction")
		}
		txHash := tx.Hash()

		for vin, in := range tx.Inputs {
			var rec []byte
			rec = append(rec, in.PrevHash[:]...)
			rec = byterange.PutUint32LE(rec, in.PrevVout)
			rec = append(rec, txHash[:]...)
			rec = byterange.PutUint32LE(rec, uint32(vin))
			if _, err := s.w.Write(rec); err != nil {
				return err
			}
		}

		if err := it.Drop(); err != nil {
			return errors.Wrap(err, "spentindex: advancing iterator")
		}
	}
	return nil
}

// Close flushes any buffered output.
func (s *SpentIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}
