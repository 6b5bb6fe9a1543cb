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

package canisters

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tochemey/goakt/v4/actor"

	"github.com/icx-labs/localic/domain"
	"github.com/icx-labs/localic/ledger"
	"github.com/icx-labs/localic/messages"
	"github.com/icx-labs/localic/persistence"
)

// Ledger is the ledger canister. A fresh spawn installs the ledger with the
// provided arguments; a respawn restores the persisted snapshot instead.
type Ledger struct {
	name    string
	install ledger.InstallArgs
	state   *ledger.Ledger
	storage persistence.Store
}

var _ actor.Actor = (*Ledger)(nil)

// NewLedger creates a ledger canister actor with its install arguments.
func NewLedger(install ledger.InstallArgs) *Ledger {
	return &Ledger{install: install}
}

// PreStart restores the persisted ledger or installs a fresh one.
func (l *Ledger) PreStart(ctx *actor.Context) error {
	l.name = ctx.ActorName()
	l.storage = ctx.Extension(persistence.StateStoreID).(persistence.Store)
	snapshot, err := l.storage.GetLedger(ctx.Context(), l.name)
	if err != nil {
		return err
	}
	if snapshot != nil {
		l.state = ledger.Restore(snapshot)
		return nil
	}
	l.state = ledger.Install(l.install)
	return l.storage.WriteLedger(ctx.Context(), l.name, l.state.Snapshot())
}

// Receive handles the ledger commands.
func (l *Ledger) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		ctx.Logger().Infof("ledger canister %s started at height %d", l.name, l.state.Height())

	case *messages.Transfer:
		l.handleTransfer(ctx, msg)

	case *messages.BalanceOf:
		account, err := domain.AccountIdentifierFromHex(msg.Account)
		if err != nil {
			ctx.Response(&messages.BalanceReply{Err: err.Error()})
			return
		}
		ctx.Response(&messages.BalanceReply{BalanceE8s: l.state.BalanceOf(account).E8s()})

	case *messages.GetFee:
		ctx.Response(&messages.FeeReply{FeeE8s: l.state.Fee().E8s()})

	default:
		ctx.Unhandled()
	}
}

// PostStop flushes the ledger snapshot.
func (l *Ledger) PostStop(ctx *actor.Context) error {
	return l.storage.WriteLedger(ctx.Context(), l.name, l.state.Snapshot())
}

func (l *Ledger) handleTransfer(ctx *actor.ReceiveContext, msg *messages.Transfer) {
	from, err := domain.AccountIdentifierFromHex(msg.From)
	if err != nil {
		ctx.Response(&messages.TransferResult{Err: "bad sender account: " + err.Error()})
		return
	}
	to, err := domain.AccountIdentifierFromHex(msg.To)
	if err != nil {
		ctx.Response(&messages.TransferResult{Err: "bad recipient account: " + err.Error()})
		return
	}

	var createdAt time.Time
	if msg.CreatedAtNanos != 0 {
		createdAt = time.Unix(0, int64(msg.CreatedAtNanos))
	}

	height, err := l.state.Transfer(ledger.TransferArgs{
		From:      from,
		To:        to,
		Amount:    domain.TokensFromE8s(msg.AmountE8s),
		Fee:       domain.TokensFromE8s(msg.FeeE8s),
		Memo:      msg.Memo,
		CreatedAt: createdAt,
	})
	if err != nil {
		var dup *ledger.DuplicateError
		if errors.As(err, &dup) {
			ctx.Response(&messages.TransferResult{Height: dup.Height, Duplicate: true})
			return
		}
		// Other ledger-level failures are user errors, not canister
		// faults.
		ctx.Response(&messages.TransferResult{Err: err.Error()})
		return
	}

	if err := l.storage.WriteLedger(ctx.Context(), l.name, l.state.Snapshot()); err != nil {
		ctx.Err(err)
		return
	}
	ctx.Response(&messages.TransferResult{Height: height})
}
