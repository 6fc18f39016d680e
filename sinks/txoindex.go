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

// TxoIndex writes one 44-byte `tx_hash(32) || vout(4) || value(8)` record
// per output.
type TxoIndex struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewTxoIndex wraps w for the txo-index sink.
func NewTxoIndex(w io.Writer) *TxoIndex {
	return &TxoIndex{w: bufio.NewWriter(w)}
}

// Consume writes blk's txo-index records.
func (t *TxoIndex) Consume(_ uint32, blk *block.Block) error {
	it, err := blk.Transactions()
	if err != nil {
		return errors.Wrap(err, "txoindex: transactions")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for !it.Empty() {
		tx, err := it.Front()
		if err != nil {
			return errors.Wrap(err, "txoindex: decoding transaction")
		}
		txHash := tx.Hash()

		for vout, out := range tx.Outputs {
			var rec []byte
			rec = append(rec, txHash[:]...)
			rec = byterange.PutUint32LE(rec, uint32(vout))
			rec = byterange.PutUint64LE(rec, out.Value)
			if _, err := t.w.Write(rec); err != nil {
				return err
			}
		}

		if err := it.Drop(); err != nil {
			return errors.Wrap(err, "txoindex: advancing iterator")
		}
	}
	return nil
}

// Close flushes any buffered output.
func (t *TxoIndex) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Flush()
}
