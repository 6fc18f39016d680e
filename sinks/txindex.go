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

// TxIndex writes one 36-byte `tx_hash(32) || height(4)` record per
// transaction. height comes from the whitelist annotation; a run with no
// whitelist configured produces records with height 0.
type TxIndex struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewTxIndex wraps w for the tx-index sink.
func NewTxIndex(w io.Writer) *TxIndex {
	return &TxIndex{w: bufio.NewWriter(w)}
}

// Consume writes blk's tx-index records.
func (t *TxIndex) Consume(height uint32, blk *block.Block) error {
	it, err := blk.Transactions()
	if err != nil {
		return errors.Wrap(err, "txindex: transactions")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for !it.Empty() {
		tx, err := it.Front()
		if err != nil {
			return errors.Wrap(err, "txindex: decoding transaction")
		}
		txHash := tx.Hash()

		var rec []byte
		rec = append(rec, txHash[:]...)
		rec = byterange.PutUint32LE(rec, height)
		if _, err := t.w.Write(rec); err != nil {
			return err
		}

		if err := it.Drop(); err != nil {
			return errors.Wrap(err, "txindex: advancing iterator")
		}
	}
	return nil
}

// Close flushes any buffered output.
func (t *TxIndex) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Flush()
}
