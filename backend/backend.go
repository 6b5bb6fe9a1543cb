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

// Package backend implements the ledger-facing service operations: owner
// gated ICP transfers from the service's own account, balance and fee
// lookups, deduplicated token transfers and exchange-rate queries.
package backend

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/icx-labs/localic/calls"
	"github.com/icx-labs/localic/canisters"
	"github.com/icx-labs/localic/domain"
	"github.com/icx-labs/localic/ledger"
	"github.com/icx-labs/localic/messages"
)

// TransferMemo is attached to icp_transfer transactions; the ledger assigns
// it no meaning.
const TransferMemo uint64 = 0

const maxRetries = 16

const retryInterval = 50 * time.Millisecond

// Backend backs the ledger service endpoints. It transfers out of its own
// account and only on behalf of the configured owner.
type Backend struct {
	router     *calls.Router
	ledgerName string
	ratesName  string
	owner      domain.Principal
	self       domain.AccountIdentifier
	fee        domain.Tokens
	pause      time.Duration
	now        func() time.Time
}

// Option customizes a backend.
type Option func(*Backend)

// WithLedgerName points the backend at a differently named ledger.
func WithLedgerName(name string) Option {
	return func(b *Backend) { b.ledgerName = name }
}

// WithRatesName points the backend at a differently named rates canister.
func WithRatesName(name string) Option {
	return func(b *Backend) { b.ratesName = name }
}

// WithTransferFee sets the fee the ledger was installed with. Without it
// the backend assumes the default fee.
func WithTransferFee(fee domain.Tokens) Option {
	return func(b *Backend) { b.fee = fee }
}

// WithRetryInterval overrides the pause between retries.
func WithRetryInterval(d time.Duration) Option {
	return func(b *Backend) { b.pause = d }
}

// WithClock overrides the clock used for transaction creation times.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// New creates a backend transferring from the given account, gated on the
// given owner principal.
func New(router *calls.Router, owner domain.Principal, self domain.AccountIdentifier, opts ...Option) *Backend {
	b := &Backend{
		router:     router,
		ledgerName: canisters.LedgerName,
		ratesName:  canisters.RatesName,
		owner:      owner,
		self:       self,
		fee:        ledger.DefaultTransferFee,
		pause:      retryInterval,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Account returns the account the backend transfers from.
func (b *Backend) Account() domain.AccountIdentifier {
	return b.self
}

// ICPTransfer sends tokens from the backend's account to the given account.
// Only the owner may ask for a transfer. The ledger fee is charged on top
// of the amount.
func (b *Backend) ICPTransfer(ctx context.Context, caller domain.Principal, to domain.AccountIdentifier, amount domain.Tokens) error {
	if !caller.Equal(b.owner) {
		return errors.New("only the owner can ask to transfer ICP")
	}

	// Unbounded wait: the envelope does not give up on the ledger, so
	// SysUnknown cannot happen here.
	reply, err := b.router.UnboundedWait(ctx, b.ledgerName, &messages.Transfer{
		From:      b.self.String(),
		To:        to.String(),
		AmountE8s: amount.E8s(),
		FeeE8s:    b.fee.E8s(),
		Memo:      TransferMemo,
	})
	if err != nil {
		var rejection *calls.Rejection
		if errors.As(err, &rejection) {
			// The transfer did not happen; report and let the user
			// decide.
			return errors.Wrap(err, "error calling ledger canister")
		}
		return errors.Wrap(err, "ledger failed while processing the transfer")
	}

	result, ok := reply.(*messages.TransferResult)
	if !ok {
		return errors.Errorf("ledger returned an unexpected reply %T", reply)
	}
	if result.Err != "" {
		return errors.Errorf("ledger returned an error: %s", result.Err)
	}
	return nil
}

// ICRC1GetBalance returns the balance of a principal's default account.
func (b *Backend) ICRC1GetBalance(ctx context.Context, owner domain.Principal) (domain.Tokens, error) {
	account := domain.DefaultAccount(owner)
	return b.BalanceOfAccount(ctx, account)
}

// BalanceOfAccount returns the balance of an arbitrary account.
func (b *Backend) BalanceOfAccount(ctx context.Context, account domain.AccountIdentifier) (domain.Tokens, error) {
	reply, err := b.retryingBoundedWait(ctx, b.ledgerName, &messages.BalanceOf{Account: account.String()})
	if err != nil {
		return 0, err
	}
	balance, ok := reply.(*messages.BalanceReply)
	if !ok {
		return 0, errors.Errorf("ledger returned an unexpected reply %T", reply)
	}
	if balance.Err != "" {
		return 0, errors.New(balance.Err)
	}
	return domain.TokensFromE8s(balance.BalanceE8s), nil
}

// ICRC1GetFee obtains the ledger's transfer fee, retrying transient
// failures. Fee queries don't change ledger state, so retrying on an
// unknown outcome is always safe.
func (b *Backend) ICRC1GetFee(ctx context.Context) (domain.Tokens, error) {
	reply, err := b.retryingBoundedWait(ctx, b.ledgerName, &messages.GetFee{})
	if err != nil {
		return 0, err
	}
	fee, ok := reply.(*messages.FeeReply)
	if !ok {
		return 0, errors.Errorf("unable to decode the fee reply %T", reply)
	}
	return domain.TokensFromE8s(fee.FeeE8s), nil
}

// ICRC1Transfer sends tokens from the backend's account to a principal's
// default account, discovering the fee first. The transaction carries a
// creation time so the ledger deduplicates it, which makes bounded-wait
// retries safe.
func (b *Backend) ICRC1Transfer(ctx context.Context, to domain.Principal, amount domain.Tokens) error {
	fee, err := b.ICRC1GetFee(ctx)
	if err != nil {
		return errors.Wrap(err, "error obtaining the fee from the ledger canister")
	}

	transfer := &messages.Transfer{
		From:           b.self.String(),
		To:             domain.DefaultAccount(to).String(),
		AmountE8s:      amount.E8s(),
		FeeE8s:         fee.E8s(),
		CreatedAtNanos: uint64(b.now().UnixNano()),
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		reply, err := b.router.BoundedWait(ctx, b.ledgerName, transfer)
		if err != nil {
			if retryable(err) {
				if err := b.awaitRetry(ctx); err != nil {
					return err
				}
				continue
			}
			return errors.Wrap(err, "irrecoverable error")
		}

		result, ok := reply.(*messages.TransferResult)
		if !ok {
			return errors.Errorf("unable to decode the ledger reply %T", reply)
		}
		if result.Duplicate {
			// A previous attempt landed; the retry hit the
			// deduplication window.
			return nil
		}
		if result.Err != "" {
			return errors.Errorf("ledger returned an error: %s", result.Err)
		}
		return nil
	}
	return errors.New("ran out of retries while transferring")
}

// GetExchangeRate returns the rate between two assets along with the number
// of decimals in the rate.
func (b *Backend) GetExchangeRate(ctx context.Context, base, quote string) (uint64, uint32, error) {
	reply, err := b.router.BoundedWait(ctx, b.ratesName, &messages.GetRate{
		Base:   base,
		Quote:  quote,
		Cycles: canisters.RateCycles,
	})
	if err != nil {
		return 0, 0, errors.Wrap(err, "error calling the rates canister")
	}
	rate, ok := reply.(*messages.RateReply)
	if !ok {
		return 0, 0, errors.Errorf("rates canister returned an unexpected reply %T", reply)
	}
	if rate.Err != "" {
		return 0, 0, errors.Errorf("rates canister returned an error: %s", rate.Err)
	}
	return rate.Rate, rate.Decimals, nil
}

// retryingBoundedWait issues a bounded-wait call for a read-only query,
// retrying transient rejections and unknown outcomes.
func (b *Backend) retryingBoundedWait(ctx context.Context, canister string, msg messages.CanisterMessage) (messages.CanisterMessage, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		reply, err := b.router.BoundedWait(ctx, canister, msg)
		if err == nil {
			return reply, nil
		}
		if !retryable(err) {
			return nil, errors.Wrap(err, "irrecoverable error")
		}
		lastErr = err
		if err := b.awaitRetry(ctx); err != nil {
			return nil, err
		}
	}
	return nil, errors.Wrap(lastErr, "ran out of retries")
}

func retryable(err error) bool {
	var rejection *calls.Rejection
	if errors.As(err, &rejection) {
		// Synchronous transient rejections clear up once the system
		// has capacity again; asynchronous ones can be retried right
		// away.
		return rejection.Code == calls.SysTransient
	}
	var unknown *calls.UnknownOutcomeError
	if errors.As(err, &unknown) {
		return unknown.Reason == calls.SysUnknown
	}
	return false
}

func (b *Backend) awaitRetry(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.pause):
		return nil
	}
}
