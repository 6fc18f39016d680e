// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package sinks

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/rawblock/blockdat/block"
)

// Statistics accumulates aggregate counters across every block it sees:
// transaction, input and output counts, a version histogram, and counts
// of non-default locktime and sequence fields. Close logs the final
// aggregates the way the reference dumper prints them at shutdown.
type Statistics struct {
	transactions      int64
	inputs            int64
	outputs           int64
	version1          int64
	version2          int64
	locktimesGt0      int64
	nonFinalSequences int64
}

// NewStatistics constructs an empty Statistics sink.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// Consume folds blk's transactions into the running aggregates.
func (s *Statistics) Consume(_ uint32, blk *block.Block) error {
	it, err := blk.Transactions()
	if err != nil {
		return err
	}

	for !it.Empty() {
		tx, err := it.Front()
		if err != nil {
			return err
		}

		atomic.AddInt64(&s.transactions, 1)
		atomic.AddInt64(&s.inputs, int64(len(tx.Inputs)))
		atomic.AddInt64(&s.outputs, int64(len(tx.Outputs)))

		var nonFinal int64
		for _, in := range tx.Inputs {
			if in.Sequence != 0xffffffff {
				nonFinal++
			}
		}
		atomic.AddInt64(&s.nonFinalSequences, nonFinal)

		switch tx.Version {
		case 1:
			atomic.AddInt64(&s.version1, 1)
		case 2:
			atomic.AddInt64(&s.version2, 1)
		}
		if tx.LockTime > 0 {
			atomic.AddInt64(&s.locktimesGt0, 1)
		}

		if err := it.Drop(); err != nil {
			return err
		}
	}
	return nil
}

func ratio(a, b int64) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Close logs the final aggregates.
func (s *Statistics) Close() error {
	logrus.WithFields(logrus.Fields{
		"transactions":            s.transactions,
		"inputs":                  s.inputs,
		"input_ratio":             ratio(s.inputs, s.transactions),
		"outputs":                 s.outputs,
		"output_ratio":            ratio(s.outputs, s.transactions),
		"version1":                s.version1,
		"version1_pct":            ratio(s.version1, s.transactions) * 100,
		"version2":                s.version2,
		"version2_pct":            ratio(s.version2, s.transactions) * 100,
		"locktimes_gt0":           s.locktimesGt0,
		"locktime_gt0_pct":        ratio(s.locktimesGt0, s.transactions) * 100,
		"non_final_sequences":     s.nonFinalSequences,
		"non_final_sequences_pct": ratio(s.nonFinalSequences, s.inputs) * 100,
	}).Info("statistics: final aggregates")
	return nil
}
