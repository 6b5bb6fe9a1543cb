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

// Package ledger implements the token ledger state machine: an account book
// keyed by account identifier, a designated minting account, a fixed
// transfer fee and an append-only block log with transaction deduplication.
package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/icx-labs/localic/domain"
)

// DefaultTransferFee is the fee charged for regular transfers, in e8s.
const DefaultTransferFee = domain.Tokens(10_000)

// Transfers carrying a creation time older than this window are rejected;
// within the window they are deduplicated.
const dedupWindow = 24 * time.Hour

// Clock drift tolerated on transaction creation times.
const permittedDrift = time.Minute

// Block is one applied transaction.
type Block struct {
	Height    uint64                   `json:"height"`
	From      domain.AccountIdentifier `json:"from"`
	To        domain.AccountIdentifier `json:"to"`
	Amount    domain.Tokens            `json:"amount_e8s"`
	Fee       domain.Tokens            `json:"fee_e8s"`
	Memo      uint64                   `json:"memo"`
	CreatedAt time.Time                `json:"created_at,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

// TransferArgs describes a transfer to apply. A zero CreatedAt disables
// deduplication for the transaction.
type TransferArgs struct {
	From      domain.AccountIdentifier
	To        domain.AccountIdentifier
	Amount    domain.Tokens
	Fee       domain.Tokens
	Memo      uint64
	CreatedAt time.Time
}

// InstallArgs parameterize a fresh ledger.
type InstallArgs struct {
	MintingAccount  domain.AccountIdentifier
	InitialBalances map[domain.AccountIdentifier]domain.Tokens
	TransferFee     domain.Tokens
}

type txKey [sha256.Size]byte

var defaultClock = time.Now

// Ledger is the in-memory ledger state. It is not safe for concurrent use;
// the owning actor serializes access.
type Ledger struct {
	minting  domain.AccountIdentifier
	fee      domain.Tokens
	balances map[domain.AccountIdentifier]domain.Tokens
	blocks   []Block
	dedup    map[txKey]uint64
	now      func() time.Time
}

// Option customizes a ledger at install time.
type Option func(*Ledger)

// WithClock overrides the ledger clock.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Install creates a ledger and credits the initial balances as genesis
// mints from the minting account.
func Install(args InstallArgs, opts ...Option) *Ledger {
	fee := args.TransferFee
	if fee == 0 {
		fee = DefaultTransferFee
	}
	l := &Ledger{
		minting:  args.MintingAccount,
		fee:      fee,
		balances: make(map[domain.AccountIdentifier]domain.Tokens),
		dedup:    make(map[txKey]uint64),
		now:      defaultClock,
	}
	for _, opt := range opts {
		opt(l)
	}
	for account, amount := range args.InitialBalances {
		// Genesis credits bypass Transfer so install cannot fail.
		l.balances[account] = amount
		l.append(Block{
			From:      l.minting,
			To:        account,
			Amount:    amount,
			Timestamp: l.now(),
		})
	}
	return l
}

// MintingAccount returns the ledger's minting account.
func (l *Ledger) MintingAccount() domain.AccountIdentifier {
	return l.minting
}

// Fee returns the standard transfer fee.
func (l *Ledger) Fee() domain.Tokens {
	return l.fee
}

// Height returns the number of applied blocks.
func (l *Ledger) Height() uint64 {
	return uint64(len(l.blocks))
}

// Blocks returns the applied blocks in order.
func (l *Ledger) Blocks() []Block {
	out := make([]Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}

// BalanceOf returns the balance of an account; unknown accounts hold zero.
func (l *Ledger) BalanceOf(account domain.AccountIdentifier) domain.Tokens {
	return l.balances[account]
}

// Transfer validates and applies a transaction, returning the height of the
// appended block.
//
// From equal to the minting account mints (fee must be zero). To equal to
// the minting account burns (amount must be at least the standard fee).
// Everything else is a regular transfer charging exactly the standard fee.
func (l *Ledger) Transfer(args TransferArgs) (uint64, error) {
	if err := l.checkCreatedAt(args.CreatedAt); err != nil {
		return 0, err
	}
	key, hasKey := l.txKeyOf(args)
	if hasKey {
		if height, dup := l.dedup[key]; dup {
			return 0, &DuplicateError{Height: height}
		}
	}

	switch {
	case args.From == l.minting:
		if args.Fee != 0 {
			return 0, &BadFeeError{Expected: 0}
		}
		credited, err := l.balances[args.To].Add(args.Amount)
		if err != nil {
			return 0, err
		}
		l.balances[args.To] = credited

	case args.To == l.minting:
		if args.Fee != 0 {
			return 0, &BadFeeError{Expected: 0}
		}
		if args.Amount < l.fee {
			return 0, &BadBurnError{MinAmount: l.fee}
		}
		balance := l.balances[args.From]
		if balance < args.Amount {
			return 0, &InsufficientFundsError{Balance: balance}
		}
		l.balances[args.From] = balance - args.Amount

	default:
		if args.Fee != l.fee {
			return 0, &BadFeeError{Expected: l.fee}
		}
		balance := l.balances[args.From]
		debit, err := args.Amount.Add(args.Fee)
		if err != nil {
			return 0, err
		}
		if balance < debit {
			return 0, &InsufficientFundsError{Balance: balance}
		}
		credited, err := l.balances[args.To].Add(args.Amount)
		if err != nil {
			return 0, err
		}
		l.balances[args.From] = balance - debit
		l.balances[args.To] = credited
	}

	height := l.append(Block{
		From:      args.From,
		To:        args.To,
		Amount:    args.Amount,
		Fee:       args.Fee,
		Memo:      args.Memo,
		CreatedAt: args.CreatedAt,
		Timestamp: l.now(),
	})
	if hasKey {
		l.dedup[key] = height
	}
	return height, nil
}

func (l *Ledger) append(block Block) uint64 {
	block.Height = uint64(len(l.blocks))
	l.blocks = append(l.blocks, block)
	return block.Height
}

func (l *Ledger) checkCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return nil
	}
	now := l.now()
	if createdAt.After(now.Add(permittedDrift)) {
		return ErrTxCreatedInFuture
	}
	if createdAt.Before(now.Add(-dedupWindow)) {
		return ErrTxTooOld
	}
	return nil
}

func (l *Ledger) txKeyOf(args TransferArgs) (txKey, bool) {
	if args.CreatedAt.IsZero() {
		return txKey{}, false
	}
	h := sha256.New()
	h.Write(args.From[:])
	h.Write(args.To[:])
	var nums [8 * 4]byte
	binary.BigEndian.PutUint64(nums[0:], args.Amount.E8s())
	binary.BigEndian.PutUint64(nums[8:], args.Fee.E8s())
	binary.BigEndian.PutUint64(nums[16:], args.Memo)
	binary.BigEndian.PutUint64(nums[24:], uint64(args.CreatedAt.UnixNano()))
	h.Write(nums[:])

	var key txKey
	copy(key[:], h.Sum(nil))
	return key, true
}
