// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package block

import (
	"github.com/pkg/errors"

	"github.com/rawblock/blockdat/hash32"
	"github.com/rawblock/blockdat/internal/byterange"
)

// Block is a view over one framed block: its 80-byte header plus the raw
// body bytes (transaction count and transactions). Parsing the body's
// transactions is deferred to Transactions, so a caller that only needs
// the header (the best-chain selector, for instance) never decodes a
// single transaction.
type Block struct {
	header Header
	body   byterange.Range
}

// NewBlock wraps a header and its body. body must begin with the
// transaction count's compact-size encoding, followed by that many
// serialized transactions and nothing else.
func NewBlock(header Header, body byterange.Range) Block {
	return Block{header: header, body: body}
}

// Header returns the block's header.
func (b *Block) Header() *Header {
	return &b.header
}

// Hash returns the block's hash in wire order; see Header.Hash.
func (b *Block) Hash() hash32.T {
	return b.header.Hash()
}

// PrevHash returns the hash of the block this one extends.
func (b *Block) PrevHash() hash32.T {
	return b.header.PrevHash()
}

// Bits returns the block's compact-encoded PoW target.
func (b *Block) Bits() uint32 {
	return b.header.Bits()
}

// Timestamp returns the block's Unix time.
func (b *Block) Timestamp() uint32 {
	return b.header.Timestamp()
}

// Verify reports whether the block's header satisfies its own
// Proof-of-Work target.
func (b *Block) Verify() bool {
	return Verify(&b.header)
}

// Transactions returns a lazy iterator over the block's transactions,
// reading (but not advancing past, since body is a value copy) the
// leading transaction count.
func (b *Block) Transactions() (*TransactionIterator, error) {
	cur := b.body
	count, err := readCompactSizeChecked(&cur)
	if err != nil {
		return nil, errors.Wrap(err, "block: transaction count")
	}
	return NewTransactionIterator(cur, int(count)), nil
}

// TransactionCount decodes and returns just the leading transaction count,
// without constructing an iterator.
func (b *Block) TransactionCount() (int, error) {
	cur := b.body
	count, err := readCompactSizeChecked(&cur)
	if err != nil {
		return 0, errors.Wrap(err, "block: transaction count")
	}
	return int(count), nil
}
