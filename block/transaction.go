// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package block

import (
	"github.com/pkg/errors"

	"github.com/rawblock/blockdat/hash32"
	"github.com/rawblock/blockdat/internal/byterange"
	"github.com/rawblock/blockdat/internal/hashoracle"
)

// segwitMarker and segwitFlag are the two bytes that, placed immediately
// after the version field, signal a segregated-witness transaction instead
// of the first input count.
const (
	segwitMarker = 0x00
	segwitFlag   = 0x01
)

// WitnessTag classifies a segwit input's witness stack shape, as printed
// by the ASM sink alongside the input's disassembly.
type WitnessTag int

const (
	// WitnessNone marks an input that is not a recognized witness-spending
	// input: either the transaction carries no witness data, or the
	// input's own script is non-empty (the zero-length-script-plus-
	// witness-flag combination that signals a witness program was not
	// observed for this input).
	WitnessNone WitnessTag = iota
	// WitnessP2WPKH marks a witness stack of exactly one element.
	WitnessP2WPKH
	// WitnessP2WSH marks a witness stack of more than one element.
	WitnessP2WSH
	// WitnessOther marks any other witness stack shape (the error tag).
	WitnessOther
)

// String renders tag for display, as the ASM sink does.
func (t WitnessTag) String() string {
	switch t {
	case WitnessP2WPKH:
		return "P2WPKH"
	case WitnessP2WSH:
		return "P2WSH"
	case WitnessOther:
		return "WITNESS_ERROR"
	default:
		return ""
	}
}

// Input is one transaction input: the previous output it spends, the
// unlocking script, and the sequence number.
type Input struct {
	PrevHash hash32.T
	PrevVout uint32
	Script   byterange.Range
	Sequence uint32
	// WitnessTag classifies this input's witness stack, when the
	// zero-length-script-plus-witness-flag condition that signals a
	// witness-spending input is observed. Zero value is WitnessNone.
	WitnessTag WitnessTag
}

// Output is one transaction output: the locking script and its value in
// satoshi.
type Output struct {
	Script byterange.Range
	Value  uint64
}

// Witness is one input's witness stack, present only on segwit
// transactions.
type Witness struct {
	Stack []byterange.Range
}

// Tag classifies the shape of the witness stack: one element is
// P2WPKH, more than one is P2WSH, anything else (an empty stack) is
// the error tag.
func (w Witness) Tag() WitnessTag {
	switch {
	case len(w.Stack) == 1:
		return WitnessP2WPKH
	case len(w.Stack) > 1:
		return WitnessP2WSH
	default:
		return WitnessOther
	}
}

// Transaction is a fully decoded transaction: its exact on-wire extent
// (including witness data, if present) plus its parsed fields.
type Transaction struct {
	// Data is the exact byte extent this transaction was parsed from,
	// including any segwit marker/flag and witness stacks. Its hash is the
	// identifier used throughout this module; see Hash for why that
	// diverges from a conventional txid.
	Data      byterange.Range
	Version   int32
	Segwit    bool
	Inputs    []Input
	Outputs   []Output
	Witnesses []Witness
	LockTime  uint32
}

// Hash returns double_sha256(Data): the hash of the full on-wire
// transaction extent, witness bytes included when present. This is a
// deliberate departure from Bitcoin's txid (which excludes witness data);
// every sink in this module is keyed by this value, consistently.
func (t *Transaction) Hash() hash32.T {
	return hashoracle.DoubleSHA256(t.Data)
}

// IsCoinbase reports whether this is the block's coinbase transaction: a
// single input whose previous output is the all-zero hash and vout
// 0xffffffff.
func (t *Transaction) IsCoinbase() bool {
	if len(t.Inputs) != 1 {
		return false
	}
	in := t.Inputs[0]
	return in.PrevHash == hash32.Nil && in.PrevVout == 0xffffffff
}

// parseTransaction decodes one transaction from the front of data,
// returning the transaction and the remaining range. save retains the
// full range (including any bytes consumed for the segwit marker/flag) so
// Transaction.Data can be carved out after locktime is read.
func parseTransaction(data byterange.Range) (Transaction, byterange.Range, error) {
	save := data
	cur := data

	if cur.Size() < 4 {
		return Transaction{}, nil, errors.New("block: truncated transaction version")
	}
	tx := Transaction{Version: cur.ReadInt32()}

	segwit := false
	if cur.Size() >= 2 && cur.PeekUint8(0) == segwitMarker && cur.PeekUint8(1) == segwitFlag {
		segwit = true
		cur = cur.Drop(2)
	}
	tx.Segwit = segwit

	inCount, err := readCompactSizeChecked(&cur)
	if err != nil {
		return Transaction{}, nil, errors.Wrap(err, "block: input count")
	}
	tx.Inputs = make([]Input, inCount)
	for i := range tx.Inputs {
		in, err := parseInput(&cur)
		if err != nil {
			return Transaction{}, nil, errors.Wrapf(err, "block: input %d", i)
		}
		tx.Inputs[i] = in
	}

	outCount, err := readCompactSizeChecked(&cur)
	if err != nil {
		return Transaction{}, nil, errors.Wrap(err, "block: output count")
	}
	tx.Outputs = make([]Output, outCount)
	for i := range tx.Outputs {
		out, err := parseOutput(&cur)
		if err != nil {
			return Transaction{}, nil, errors.Wrapf(err, "block: output %d", i)
		}
		tx.Outputs[i] = out
	}

	if segwit {
		tx.Witnesses = make([]Witness, len(tx.Inputs))
		for i := range tx.Witnesses {
			w, err := parseWitness(&cur)
			if err != nil {
				return Transaction{}, nil, errors.Wrapf(err, "block: witness %d", i)
			}
			tx.Witnesses[i] = w
			if tx.Inputs[i].Script.Size() == 0 {
				tx.Inputs[i].WitnessTag = w.Tag()
			}
		}
	}

	if cur.Size() < 4 {
		return Transaction{}, nil, errors.New("block: truncated locktime")
	}
	tx.LockTime = cur.ReadUint32()

	consumed := save.Size() - cur.Size()
	tx.Data = save.Take(consumed)
	return tx, cur, nil
}

// readCompactSizeChecked reads a compact-size integer, converting the
// underlying range's bounds-check panic (a truncated buffer is an expected,
// recoverable condition here, not a programmer error) into a plain error.
func readCompactSizeChecked(cur *byterange.Range) (v uint64, err error) {
	if cur.Empty() {
		return 0, errors.New("truncated compact-size")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("truncated compact-size: %v", r)
		}
	}()
	return cur.ReadCompactSize(), nil
}

func parseInput(cur *byterange.Range) (Input, error) {
	if cur.Size() < 36 {
		return Input{}, errors.New("truncated outpoint")
	}
	prevHash := hash32.FromSlice(cur.ReadBytes(32))
	prevVout := cur.ReadUint32()
	scriptLen, err := readCompactSizeChecked(cur)
	if err != nil {
		return Input{}, errors.Wrap(err, "script length")
	}
	if cur.Size() < int(scriptLen) {
		return Input{}, errors.New("truncated input script")
	}
	script := cur.ReadBytes(int(scriptLen))
	if cur.Size() < 4 {
		return Input{}, errors.New("truncated sequence")
	}
	seq := cur.ReadUint32()
	return Input{PrevHash: prevHash, PrevVout: prevVout, Script: script, Sequence: seq}, nil
}

func parseOutput(cur *byterange.Range) (Output, error) {
	if cur.Size() < 8 {
		return Output{}, errors.New("truncated value")
	}
	value := cur.ReadUint64()
	scriptLen, err := readCompactSizeChecked(cur)
	if err != nil {
		return Output{}, errors.Wrap(err, "script length")
	}
	if cur.Size() < int(scriptLen) {
		return Output{}, errors.New("truncated output script")
	}
	script := cur.ReadBytes(int(scriptLen))
	return Output{Script: script, Value: value}, nil
}

func parseWitness(cur *byterange.Range) (Witness, error) {
	count, err := readCompactSizeChecked(cur)
	if err != nil {
		return Witness{}, errors.Wrap(err, "witness item count")
	}
	stack := make([]byterange.Range, count)
	for i := range stack {
		itemLen, err := readCompactSizeChecked(cur)
		if err != nil {
			return Witness{}, errors.Wrapf(err, "witness item %d length", i)
		}
		if cur.Size() < int(itemLen) {
			return Witness{}, errors.Errorf("truncated witness item %d", i)
		}
		stack[i] = cur.ReadBytes(int(itemLen))
	}
	return Witness{Stack: stack}, nil
}

// TransactionIterator lazily decodes the transactions in a block's body,
// one at a time. Parsing a transaction is deferred until Front or Drop
// first needs its extent, so a caller that only wants the count, or that
// abandons iteration early, never pays for decoding the rest.
type TransactionIterator struct {
	remaining int
	data      byterange.Range
	cached    *Transaction
	rest      byterange.Range
	err       error
}

// NewTransactionIterator constructs an iterator over data, which must
// begin with exactly count serialized transactions and nothing else
// relevant to this block.
func NewTransactionIterator(data byterange.Range, count int) *TransactionIterator {
	return &TransactionIterator{remaining: count, data: data}
}

// Empty reports whether iteration is complete.
func (it *TransactionIterator) Empty() bool {
	return it.remaining == 0
}

// Size returns the number of transactions not yet consumed.
func (it *TransactionIterator) Size() int {
	return it.remaining
}

// Front decodes (if not already decoded) and returns the transaction at
// the front of the iterator. Calling Front repeatedly without an
// intervening Drop returns the same transaction.
func (it *TransactionIterator) Front() (*Transaction, error) {
	if it.remaining == 0 {
		return nil, errors.New("block: Front on empty transaction iterator")
	}
	if it.cached == nil {
		tx, rest, err := parseTransaction(it.data)
		if err != nil {
			it.err = err
			return nil, err
		}
		it.cached = &tx
		it.rest = rest
	}
	return it.cached, nil
}

// Drop advances past the front transaction, decoding it first if Front was
// never called for it.
func (it *TransactionIterator) Drop() error {
	if it.remaining == 0 {
		return errors.New("block: Drop on empty transaction iterator")
	}
	if it.cached == nil {
		if _, err := it.Front(); err != nil {
			return err
		}
	}
	it.data = it.rest
	it.cached = nil
	it.rest = nil
	it.remaining--
	return nil
}

// Err returns the first parse error encountered, if any.
func (it *TransactionIterator) Err() error {
	return it.err
}
