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
)

// maxScriptRecordLength is the largest script this sink will emit a
// record for; longer scripts are silently dropped, matching the reference
// dumper's fixed 4096-byte line buffer (4094 bytes of script plus a
// 2-byte length prefix).
const maxScriptRecordLength = 4096 - 2

// Scripts writes a `u16 length || script` record for every input and
// output script in a block, in transaction order, inputs before outputs
// within each transaction.
type Scripts struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewScripts wraps w for the scripts sink.
func NewScripts(w io.Writer) *Scripts {
	return &Scripts{w: bufio.NewWriter(w)}
}

func writeScriptRecord(w *bufio.Writer, script []byte) error {
	if len(script) > maxScriptRecordLength {
		return nil
	}
	length := uint16(len(script))
	if err := w.WriteByte(byte(length)); err != nil {
		return err
	}
	if err := w.WriteByte(byte(length >> 8)); err != nil {
		return err
	}
	_, err := w.Write(script)
	return err
}

// Consume writes blk's input and output script records.
func (s *Scripts) Consume(_ uint32, blk *block.Block) error {
	it, err := blk.Transactions()
	if err != nil {
		return errors.Wrap(err, "scripts: transactions")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for !it.Empty() {
		tx, err := it.Front()
		if err != nil {
			return errors.Wrap(err, "scripts: decoding transaction")
		}
		for _, in := range tx.Inputs {
			if err := writeScriptRecord(s.w, in.Script); err != nil {
				return err
			}
		}
		for _, out := range tx.Outputs {
			if err := writeScriptRecord(s.w, out.Script); err != nil {
				return err
			}
		}
		if err := it.Drop(); err != nil {
			return errors.Wrap(err, "scripts: advancing iterator")
		}
	}
	return nil
}

// Close flushes any buffered output.
func (s *Scripts) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}
