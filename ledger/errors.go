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
	"fmt"

	"github.com/pkg/errors"

	"github.com/icx-labs/localic/domain"
)

// Sentinel errors for transaction creation-time validation.
var (
	ErrTxTooOld          = errors.New("transaction creation time is outside the deduplication window")
	ErrTxCreatedInFuture = errors.New("transaction creation time is in the future")
)

// BadFeeError reports a transfer fee different from the one the ledger
// charges for the operation.
type BadFeeError struct {
	Expected domain.Tokens
}

func (e *BadFeeError) Error() string {
	return fmt.Sprintf("bad fee: expected %d e8s", e.Expected.E8s())
}

// BadBurnError reports a burn below the minimal burn amount.
type BadBurnError struct {
	MinAmount domain.Tokens
}

func (e *BadBurnError) Error() string {
	return fmt.Sprintf("bad burn: amount must be at least %d e8s", e.MinAmount.E8s())
}

// InsufficientFundsError reports a debit exceeding the sender's balance.
type InsufficientFundsError struct {
	Balance domain.Tokens
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance is %d e8s", e.Balance.E8s())
}

// DuplicateError reports a transaction already applied at the given height.
type DuplicateError struct {
	Height uint64
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate transaction: already applied in block %d", e.Height)
}
