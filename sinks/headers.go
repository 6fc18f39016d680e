// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package sinks

import (
	"bufio"
	"io"
	"sync"

	"github.com/rawblock/blockdat/block"
)

// Headers writes each block's raw 80-byte header to an output stream, one
// after another with no delimiter.
type Headers struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewHeaders wraps w for the headers sink.
func NewHeaders(w io.Writer) *Headers {
	return &Headers{w: bufio.NewWriter(w)}
}

// Consume writes blk's header bytes.
func (h *Headers) Consume(_ uint32, blk *block.Block) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(blk.Header().Bytes())
	return err
}

// Close flushes any buffered output.
func (h *Headers) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.w.Flush()
}
