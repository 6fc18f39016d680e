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

// OutputValuesOverHeight writes one 12-byte `height(4) || value(8)`
// record per output, for offline analysis of the value distribution over
// the chain's height. Both fields are little-endian. The height is the one
// passed to Consume, which is 0 when no whitelist height annotation was
// available; such blocks are not skipped.
type OutputValuesOverHeight struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewOutputValuesOverHeight wraps w for this sink.
func NewOutputValuesOverHeight(w io.Writer) *OutputValuesOverHeight {
	return &OutputValuesOverHeight{w: bufio.NewWriter(w)}
}

// Consume writes one record per output in blk, tagged with height.
func (o *OutputValuesOverHeight) Consume(height uint32, blk *block.Block) error {
	it, err := blk.Transactions()
	if err != nil {
		return errors.Wrap(err, "outputvalues: transactions")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for !it.Empty() {
		tx, err := it.Front()
		if err != nil {
			return errors.Wrap(err, "outputvalues: decoding transaction")
		}
		for _, out := range tx.Outputs {
			var rec []byte
			rec = byterange.PutUint32LE(rec, height)
			rec = byterange.PutUint64LE(rec, out.Value)
			if _, err := o.w.Write(rec); err != nil {
				return err
			}
		}
		if err := it.Drop(); err != nil {
			return errors.Wrap(err, "outputvalues: advancing iterator")
		}
	}
	return nil
}

// Close flushes any buffered output.
func (o *OutputValuesOverHeight) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Flush()
}
