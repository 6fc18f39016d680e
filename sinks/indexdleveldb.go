// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package sinks

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/rawblock/blockdat/block"
	"github.com/rawblock/blockdat/hash32"
	"github.com/rawblock/blockdat/internal/byterange"
	"github.com/rawblock/blockdat/internal/hashoracle"
)

// IndexdLevelDB writes a single LevelDB write batch per block, covering
// five key shapes: a running chain tip marker, and per-transaction
// script, spend, tx and txo index entries. Every hash embedded in a key
// is stored in reversed, big-endian display order so range scans over a
// key prefix read in the conventional block-explorer byte order; this is
// the one sink in this module that departs from the wire-order hashes
// every other sink and stdout record uses.
type IndexdLevelDB struct {
	db        *leveldb.DB
	maxHeight uint32
}

// OpenIndexdLevelDB opens (and, if missing, creates) a LevelDB database
// at dir for the indexd sink.
func OpenIndexdLevelDB(dir string) (*IndexdLevelDB, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{
		Compression: opt.NoCompression,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "indexd: opening leveldb at %s", dir)
	}
	return &IndexdLevelDB{db: db}, nil
}

// Consume writes blk's five key-value shapes in one batch. The tip
// marker is overwritten only when height is at or past the highest
// height seen so far, so a block consumed with a lower height than an
// earlier one leaves the tip unchanged. Equal heights overwrite it: when
// every block arrives with height 0 (no whitelist), the tip is whichever
// block was consumed last.
func (idx *IndexdLevelDB) Consume(height uint32, blk *block.Block) error {
	batch := new(leveldb.Batch)

	blockHash := hash32.Reverse(blk.Hash())
	if height >= atomic.LoadUint32(&idx.maxHeight) {
		atomic.StoreUint32(&idx.maxHeight, height)
		putTip(batch, blockHash)
	}

	it, err := blk.Transactions()
	if err != nil {
		return errors.Wrap(err, "indexd: transactions")
	}

	for !it.Empty() {
		tx, err := it.Front()
		if err != nil {
			return errors.Wrap(err, "indexd: decoding transaction")
		}
		txHash := hash32.Reverse(tx.Hash())

		putTx(batch, txHash, height)

		for vin, in := range tx.Inputs {
			putSpent(batch, hash32.Reverse(in.PrevHash), in.PrevVout, txHash, uint32(vin))
		}
		for vout, out := range tx.Outputs {
			putScript(batch, out.Script, height, txHash, uint32(vout))
			putTxo(batch, txHash, uint32(vout), out.Value)
		}

		if err := it.Drop(); err != nil {
			return errors.Wrap(err, "indexd: advancing iterator")
		}
	}

	return idx.db.Write(batch, nil)
}

// Close closes the underlying LevelDB handle.
func (idx *IndexdLevelDB) Close() error {
	return idx.db.Close()
}

// putTip records the running tip marker: key 0x00 mapping to the
// value blockHash(BE). A single mutable key, not one marker per tip.
func putTip(batch *leveldb.Batch, blockHash hash32.T) {
	batch.Put([]byte{0x00}, blockHash[:])
}

// putScript records the 0x01 | sha256(script) | height(BE) | txHash(BE) |
// vout key, with no value.
func putScript(batch *leveldb.Batch, script []byte, height uint32, txHash hash32.T, vout uint32) {
	scriptHash := hashoracle.SHA256(script)
	key := make([]byte, 0, 1+32+4+32+4)
	key = append(key, 0x01)
	key = append(key, scriptHash[:]...)
	key = byterange.PutUint32BE(key, height)
	key = append(key, txHash[:]...)
	key = byterange.PutUint32LE(key, vout)
	batch.Put(key, nil)
}

// putSpent records the 0x02 | prevTxHash(BE) | prevVout key mapping to
// the txHash(BE) | vin value.
func putSpent(batch *leveldb.Batch, prevTxHash hash32.T, prevVout uint32, txHash hash32.T, vin uint32) {
	key := make([]byte, 0, 1+32+4)
	key = append(key, 0x02)
	key = append(key, prevTxHash[:]...)
	key = byterange.PutUint32LE(key, prevVout)

	value := make([]byte, 0, 32+4)
	value = append(value, txHash[:]...)
	value = byterange.PutUint32LE(value, vin)

	batch.Put(key, value)
}

// putTx records the 0x03 | txHash(BE) key mapping to the height value.
func putTx(batch *leveldb.Batch, txHash hash32.T, height uint32) {
	key := append([]byte{0x03}, txHash[:]...)
	value := byterange.PutUint32LE(nil, height)
	batch.Put(key, value)
}

// putTxo records the 0x04 | txHash(BE) | vout key mapping to the value
// value.
func putTxo(batch *leveldb.Batch, txHash hash32.T, vout uint32, value uint64) {
	key := make([]byte, 0, 1+32+4)
	key = append(key, 0x04)
	key = append(key, txHash[:]...)
	key = byterange.PutUint32LE(key, vout)

	val := byterange.PutUint64LE(nil, value)
	batch.Put(key, val)
}
