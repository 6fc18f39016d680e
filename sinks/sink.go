// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package sinks holds the transform implementations the framer dispatches
// decoded blocks to: flat stdout record streams, aggregate statistics, a
// mutex-guarded unspent-output set, and a LevelDB index writer. Every sink
// implements the same single-method contract so the framer and the CLI
// that selects one by index don't need to know which is active.
package sinks

import (
	"github.com/rawblock/blockdat/block"
)

// Sink consumes one decoded block. height is 0 when no whitelist height
// annotation was available for this block's hash.
type Sink interface {
	Consume(height uint32, blk *block.Block) error
}

// Closer is implemented by sinks that hold a resource needing an orderly
// shutdown: flushing a buffered writer, printing final aggregates, or
// closing a database handle.
type Closer interface {
	Close() error
}
