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
	"github.com/rawblock/blockdat/script"
)

// maxASMLineLength caps a single rendered ASM line, matching the
// reference dumper's non-atomic-stdout-write concern for lines beyond a
// single pipe buffer.
const maxASMLineLength = 4096

// ASM writes one disassembled line per input script, newline-terminated.
// Lines that would exceed maxASMLineLength are dropped rather than
// truncated, so a reader never sees a script cut mid-push.
type ASM struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewASM wraps w for the ASM sink.
func NewASM(w io.Writer) *ASM {
	return &ASM{w: bufio.NewWriter(w)}
}

// Consume renders and writes blk's input script disassembly.
func (a *ASM) Consume(_ uint32, blk *block.Block) error {
	it, err := blk.Transactions()
	if err != nil {
		return errors.Wrap(err, "asm: transactions")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for !it.Empty() {
		tx, err := it.Front()
		if err != nil {
			return errors.Wrap(err, "asm: decoding transaction")
		}
		for _, in := range tx.Inputs {
			line := script.ASM(in.Script)
			if in.WitnessTag != block.WitnessNone {
				line += " [" + in.WitnessTag.String() + "]"
			}
			if len(line)+1 > maxASMLineLength {
				continue
			}
			if _, err := a.w.WriteString(line); err != nil {
				return err
			}
			if err := a.w.WriteByte('\n'); err != nil {
				return err
			}
		}
		if err := it.Drop(); err != nil {
			return errors.Wrap(err, "asm: advancing iterator")
		}
	}
	return nil
}

// Close flushes any buffered output.
func (a *ASM) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.w.Flush()
}
