// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package framer is the streaming frame recognizer: it reads a raw,
// concatenated stream of magic-prefixed blocks from an io.Reader, verifies
// each candidate's Proof-of-Work before trusting its declared length, and
// dispatches valid, whitelisted blocks to a worker pool for sink
// processing. It double-buffers so a worker can hold a reference into the
// parse buffer for the lifetime of a batch without synchronization.
package framer

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rawblock/blockdat/block"
	"github.com/rawblock/blockdat/internal/byterange"
	"github.com/rawblock/blockdat/whitelist"
	"github.com/rawblock/blockdat/workerpool"
)

// Magic is the 4-byte little-endian frame marker preceding every block's
// length prefix on the wire.
const Magic = 0xd9b4bef9

// frameHeaderSize is magic(4) + payload length(4), the fixed prefix before
// a block's 80-byte header.
const frameHeaderSize = 8

// minFrameSize is the smallest span worth peeking at: the 8-byte prefix
// plus the 80-byte header it describes.
const minFrameSize = frameHeaderSize + block.HeaderSize

// Stats accumulates counters across a Run, reported in the final summary
// log line the way the reference parser reports to stderr.
type Stats struct {
	BytesRead        int64
	BlocksDispatched int64
	InvalidBytes     int64
	WhitelistSkipped int64
}

// Options configures a Run.
type Options struct {
	// BufferSize is the total byte budget for the I/O and parse buffers
	// combined; each gets half.
	BufferSize int
	// Pool receives one job per dispatched block.
	Pool *workerpool.Pool
	// Whitelist, if non-nil and non-empty, restricts dispatch to listed
	// block hashes.
	Whitelist *whitelist.HeightMap
	// Consume is invoked, on a pool worker goroutine, once per dispatched
	// block. height is the block's height from Whitelist, or 0 if no
	// whitelist is configured or the block is somehow not listed.
	Consume func(height uint32, blk *block.Block)
}

// Run drives the batch loop to completion, reading from r until EOF.
func Run(r io.Reader, opts Options) (Stats, error) {
	if opts.BufferSize <= 0 {
		return Stats{}, errors.New("framer: BufferSize must be positive")
	}
	if opts.Pool == nil {
		return Stats{}, errors.New("framer: Pool is required")
	}
	if opts.Consume == nil {
		return Stats{}, errors.New("framer: Consume is required")
	}

	half := opts.BufferSize / 2
	if half < minFrameSize {
		return Stats{}, errors.Errorf("framer: BufferSize %d too small (half must hold at least %d bytes)", opts.BufferSize, minFrameSize)
	}

	ioBuf := make([]byte, half)
	parseBuf := make([]byte, half)

	var stats Stats
	var remainder int
	batch := 0

	for {
		available := len(ioBuf) - remainder
		n, readErr := io.ReadFull(r, ioBuf[remainder:remainder+available])
		eof := readErr == io.ErrUnexpectedEOF || readErr == io.EOF
		if readErr != nil && !eof {
			return stats, errors.Wrap(readErr, "framer: reading input")
		}
		stats.BytesRead += int64(n)

		// No worker may still be reading the parse buffer from the
		// previous batch before we overwrite it.
		opts.Pool.Wait()

		copy(parseBuf, ioBuf[:remainder+n])
		data := byterange.Range(parseBuf[:remainder+n])

		batch++
		logrus.WithFields(logrus.Fields{
			"batch":           batch,
			"read_bytes":      n,
			"total_bytes":     stats.BytesRead,
			"blocks":          stats.BlocksDispatched,
			"invalid_bytes":   stats.InvalidBytes,
			"whitelist_skips": stats.WhitelistSkipped,
			"eof":             eof,
		}).Debug("framer: batch read")

		for data.Size() >= minFrameSize {
			if data.PeekUint32(0) != Magic {
				data = data.Drop(1)
				stats.InvalidBytes++
				continue
			}

			header := block.NewHeader(data.Drop(frameHeaderSize).Take(block.HeaderSize))
			if !block.Verify(&header) {
				data = data.Drop(1)
				stats.InvalidBytes++
				continue
			}

			length := data.PeekUint32(4)
			total := uint64(frameHeaderSize) + uint64(length)
			if total > uint64(data.Size()) {
				break
			}
			if length < block.HeaderSize {
				data = data.Drop(1)
				stats.InvalidBytes++
				continue
			}

			hash := header.Hash()
			if !opts.Whitelist.ShouldProcess(hash) {
				data = data.Drop(int(total))
				stats.WhitelistSkipped++
				continue
			}
			height, _ := opts.Whitelist.Lookup(hash)

			body := data.Drop(minFrameSize).Take(int(length) - block.HeaderSize)
			blk := block.NewBlock(header, body)
			consume := opts.Consume
			opts.Pool.Push(func() { consume(height, &blk) })

			stats.BlocksDispatched++
			data = data.Drop(int(total))
		}

		if eof {
			break
		}

		remainder = data.Size()
		copy(ioBuf, data)
	}

	logrus.WithFields(logrus.Fields{
		"blocks":        stats.BlocksDispatched,
		"total_bytes":   stats.BytesRead,
		"invalid_bytes": stats.InvalidBytes,
		"skipped":       stats.WhitelistSkipped,
	}).Info("framer: finished")

	return stats, nil
}
