// MIT License
//
// Copyright (c) 2025-2026 icx-labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package ledger

import (
	"github.com/icx-labs/localic/domain"
)

// Snapshot is the serializable ledger state handed to the persistence store.
type Snapshot struct {
	MintingAccount domain.AccountIdentifier            `json:"minting_account"`
	TransferFee    domain.Tokens                       `json:"transfer_fee_e8s"`
	Balances       map[domain.AccountIdentifier]uint64 `json:"balances"`
	Blocks         []Block                             `json:"blocks"`
}

// Snapshot captures the current ledger state.
func (l *Ledger) Snapshot() *Snapshot {
	balances := make(map[domain.AccountIdentifier]uint64, len(l.balances))
	for account, amount := range l.balances {
		balances[account] = amount.E8s()
	}
	return &Snapshot{
		MintingAccount: l.minting,
		TransferFee:    l.fee,
		Balances:       balances,
		Blocks:         l.Blocks(),
	}
}

// Restore rebuilds a ledger from a snapshot. The deduplication index is
// rebuilt from the blocks still inside the deduplication window.
func Restore(snap *Snapshot, opts ...Option) *Ledger {
	l := &Ledger{
		minting:  snap.MintingAccount,
		fee:      snap.TransferFee,
		balances: make(map[domain.AccountIdentifier]domain.Tokens, len(snap.Balances)),
		blocks:   make([]Block, len(snap.Blocks)),
		dedup:    make(map[txKey]uint64),
		now:      nil,
	}
	if l.fee == 0 {
		l.fee = DefaultTransferFee
	}
	for account, e8s := range snap.Balances {
		l.balances[account] = domain.TokensFromE8s(e8s)
	}
	copy(l.blocks, snap.Blocks)
	for _, opt := range opts {
		opt(l)
	}
	if l.now == nil {
		l.now = defaultClock
	}

	horizon := l.now().Add(-dedupWindow)
	for _, block := range l.blocks {
		if block.CreatedAt.IsZero() || block.CreatedAt.Before(horizon) {
			continue
		}
		key, ok := l.txKeyOf(TransferArgs{
			From:      block.From,
			To:        block.To,
			Amount:    block.Amount,
			Fee:       block.Fee,
			Memo:      block.Memo,
			CreatedAt: block.CreatedAt,
		})
		if ok {
			l.dedup[key] = block.Height
		}
	}
	return l
}
