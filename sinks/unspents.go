// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package sinks

import (
	"fmt"
	"sync"

	"github.com/rawblock/blockdat/block"
	"github.com/rawblock/blockdat/internal/svmap"
)

// unspentKey is an outpoint: the transaction that created the output and
// its index within that transaction's output list.
type unspentKey struct {
	txHash [32]byte
	vout   uint32
}

func lessUnspentKey(a, b unspentKey) bool {
	for i := range a.txHash {
		if a.txHash[i] != b.txHash[i] {
			return a.txHash[i] < b.txHash[i]
		}
	}
	return a.vout < b.vout
}

// unspentValue is an output's locking script and value.
type unspentValue struct {
	script []byte
	value  uint64
}

// Unspents maintains the current UTXO set in memory: each block inserts
// its outputs and removes the outputs its inputs spend. Unlike the
// reference implementation, a spend for an outpoint this sink has never
// seen is silently ignored rather than asserting, since a partial,
// whitelisted run of the chain will routinely spend outputs created
// before the run's start.
type Unspents struct {
	mu sync.Mutex
	m  *svmap.Map[unspentKey, unspentValue]
}

// NewUnspents constructs an empty unspent set.
func NewUnspents() *Unspents {
	m := svmap.New[unspentKey, unspentValue](lessUnspentKey)
	m.Sort() // the empty map is trivially sorted
	return &Unspents{m: m}
}

// Consume applies blk's outputs and inputs to the unspent set and prints
// its resulting size, matching the reference dumper's per-block report.
func (u *Unspents) Consume(_ uint32, blk *block.Block) error {
	it, err := blk.Transactions()
	if err != nil {
		return err
	}

	type spend struct{ key unspentKey }
	var spends []spend
	var news []struct {
		key unspentKey
		val unspentValue
	}

	for !it.Empty() {
		tx, err := it.Front()
		if err != nil {
			return err
		}
		txHash := tx.Hash()

		for _, in := range tx.Inputs {
			spends = append(spends, spend{key: unspentKey{txHash: in.PrevHash, vout: in.PrevVout}})
		}
		for vout, out := range tx.Outputs {
			script := make([]byte, len(out.Script))
			copy(script, out.Script)
			news = append(news, struct {
				key unspentKey
				val unspentValue
			}{key: unspentKey{txHash: txHash, vout: uint32(vout)}, val: unspentValue{script: script, value: out.Value}})
		}

		if err := it.Drop(); err != nil {
			return err
		}
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	for _, n := range news {
		u.m.Insort(n.key, n.val)
	}
	for _, s := range spends {
		u.m.Erase(s.key)
	}

	fmt.Println(u.m.Len())
	return nil
}

// Len returns the current number of unspent outputs tracked.
func (u *Unspents) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.m.Len()
}
