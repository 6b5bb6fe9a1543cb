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

// Package persistence stores canister state between restarts. The store is
// registered as an actor-system extension and resolved by canisters during
// PreStart.
package persistence

import (
	"context"

	"github.com/tochemey/goakt/v4/extension"

	"github.com/icx-labs/localic/ledger"
)

// StateStoreID is the extension identifier canisters resolve the store by.
const StateStoreID = "StateStore"

// Store persists counter values and ledger snapshots keyed by canister name.
type Store interface {
	extension.Extension

	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	WriteCounter(ctx context.Context, name string, value uint64) error
	// GetCounter reports the stored value and whether one exists.
	GetCounter(ctx context.Context, name string) (uint64, bool, error)

	WriteLedger(ctx context.Context, name string, snapshot *ledger.Snapshot) error
	// GetLedger returns nil when no snapshot is stored under the name.
	GetLedger(ctx context.Context, name string) (*ledger.Snapshot, error)
}
