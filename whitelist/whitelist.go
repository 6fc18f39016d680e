// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package whitelist loads the three flat, sorted-by-key record files this
// module's external interfaces accept: a block hash whitelist (with or
// without a height annotation) and the prev-output script map the
// script_index sink consults for non-coinbase inputs. Every loader asserts
// its input is already sorted by key and a round multiple of its record
// size; these files are produced by a trusted, earlier stage of the
// pipeline, so a malformed one is a programmer/operator error, not a
// recoverable condition.
package whitelist

import (
	"io"

	"github.com/pkg/errors"

	"github.com/rawblock/blockdat/hash160"
	"github.com/rawblock/blockdat/hash32"
	"github.com/rawblock/blockdat/internal/svmap"
)

// heightRecordSize is a 32-byte block hash followed by a 4-byte
// little-endian height.
const heightRecordSize = 36

// hashOnlyRecordSize is a bare 32-byte block hash.
const hashOnlyRecordSize = 32

// prevOutputRecordSize is a 20-byte key followed by a 20-byte value.
const prevOutputRecordSize = 40

// HeightMap is a block-hash to height whitelist: non-empty means only
// listed blocks are dispatched, with their height made available to
// sinks that need it (the tx-index, output-values and indexd sinks
// record it).
type HeightMap struct {
	m *svmap.Map[hash32.T, uint32]
}

// LoadHeightMap reads a whitelist file of 36-byte hash(32)||height(4 LE)
// records from r. The file must already be sorted by hash; this is
// asserted, not re-sorted, since the whole point is to load a pre-sorted
// image without an extra pass.
func LoadHeightMap(r io.Reader) (*HeightMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "whitelist: reading height map")
	}
	if len(data)%heightRecordSize != 0 {
		panic(errors.Errorf("whitelist: height map size %d is not a multiple of %d", len(data), heightRecordSize))
	}

	count := len(data) / heightRecordSize
	m := svmap.NewWithCapacity[hash32.T, uint32](hash32.Less, count)
	var lastHash hash32.T
	for i := 0; i < count; i++ {
		rec := data[i*heightRecordSize : (i+1)*heightRecordSize]
		h := hash32.FromSlice(rec[:32])
		height := uint32(rec[32]) | uint32(rec[33])<<8 | uint32(rec[34])<<16 | uint32(rec[35])<<24
		if i > 0 && hash32.Less(h, lastHash) {
			panic(errors.New("whitelist: height map is not sorted by hash"))
		}
		m.Append(h, height)
		lastHash = h
	}
	m.Sort()
	return &HeightMap{m: m}, nil
}

// Empty reports whether the whitelist holds no entries, meaning every
// block should pass the gate.
func (h *HeightMap) Empty() bool {
	return h == nil || h.m.Empty()
}

// Lookup reports whether hash is listed and, if so, its height.
func (h *HeightMap) Lookup(hash hash32.T) (uint32, bool) {
	if h == nil {
		return 0, false
	}
	return h.m.Find(hash)
}

// ShouldProcess implements the canonical (non-inverted) whitelist gate:
// an empty whitelist passes everything; a non-empty one passes only
// listed hashes.
func (h *HeightMap) ShouldProcess(hash hash32.T) bool {
	if h.Empty() {
		return true
	}
	_, ok := h.Lookup(hash)
	return ok
}

// HashSet is a bare block-hash whitelist, with no height annotation. Used
// by the best-chain selector to restrict which headers it may select as
// the best chain's tip.
type HashSet struct {
	m *svmap.Map[hash32.T, struct{}]
}

// LoadHashSet reads a whitelist file of 32-byte hashes from r.
func LoadHashSet(r io.Reader) (*HashSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "whitelist: reading hash set")
	}
	if len(data)%hashOnlyRecordSize != 0 {
		panic(errors.Errorf("whitelist: hash set size %d is not a multiple of %d", len(data), hashOnlyRecordSize))
	}

	count := len(data) / hashOnlyRecordSize
	m := svmap.NewWithCapacity[hash32.T, struct{}](hash32.Less, count)
	var lastHash hash32.T
	for i := 0; i < count; i++ {
		h := hash32.FromSlice(data[i*hashOnlyRecordSize : (i+1)*hashOnlyRecordSize])
		if i > 0 && hash32.Less(h, lastHash) {
			panic(errors.New("whitelist: hash set is not sorted"))
		}
		m.Append(h, struct{}{})
		lastHash = h
	}
	m.Sort()
	return &HashSet{m: m}, nil
}

// Empty reports whether the set holds no entries.
func (h *HashSet) Empty() bool {
	return h == nil || h.m.Empty()
}

// Contains reports whether hash is in the set.
func (h *HashSet) Contains(hash hash32.T) bool {
	if h == nil {
		return false
	}
	return h.m.Contains(hash)
}

// PrevOutputMap resolves sha1(prev_tx_hash || vout) to sha1(prev_output
// script), for the script_index sink's non-coinbase input records.
type PrevOutputMap struct {
	m *svmap.Map[hash160.T, hash160.T]
}

// PrevOutputKey hashes a previous outpoint the way the prev-output map
// file's keys are built.
func PrevOutputKey(hashFn func([]byte) hash160.T, prevTxHash hash32.T, vout uint32) hash160.T {
	buf := make([]byte, 0, 36)
	buf = append(buf, prevTxHash[:]...)
	buf = append(buf, byte(vout), byte(vout>>8), byte(vout>>16), byte(vout>>24))
	return hashFn(buf)
}

// LoadPrevOutputMap reads a prev-output map file of 40-byte
// key(20)||value(20) records from r, sorted by key.
func LoadPrevOutputMap(r io.Reader) (*PrevOutputMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "whitelist: reading prev-output map")
	}
	if len(data)%prevOutputRecordSize != 0 {
		panic(errors.Errorf("whitelist: prev-output map size %d is not a multiple of %d", len(data), prevOutputRecordSize))
	}

	count := len(data) / prevOutputRecordSize
	m := svmap.NewWithCapacity[hash160.T, hash160.T](hash160.Less, count)
	var lastKey hash160.T
	for i := 0; i < count; i++ {
		rec := data[i*prevOutputRecordSize : (i+1)*prevOutputRecordSize]
		key := hash160.FromSlice(rec[:20])
		value := hash160.FromSlice(rec[20:40])
		if i > 0 && hash160.Less(key, lastKey) {
			panic(errors.New("whitelist: prev-output map is not sorted by key"))
		}
		m.Append(key, value)
		lastKey = key
	}
	m.Sort()
	return &PrevOutputMap{m: m}, nil
}

// Empty reports whether the map holds no entries.
func (p *PrevOutputMap) Empty() bool {
	return p == nil || p.m.Empty()
}

// Lookup resolves a previous outpoint's key to its script hash.
func (p *PrevOutputMap) Lookup(key hash160.T) (hash160.T, bool) {
	if p == nil {
		return hash160.Nil, false
	}
	return p.m.Find(key)
}
