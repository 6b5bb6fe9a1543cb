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
	"fmt"
	"strings"

	"github.com/tochemey/goakt/v4/actor"

	"github.com/icx-labs/localic/messages"
)

// RateCycles is the cycle fee for one exchange-rate query.
const RateCycles uint64 = 1_000_000_000

// RateDecimals is the number of decimals in returned rates.
const RateDecimals uint32 = 9

// Rates is the exchange-rate canister: a static table of asset-pair rates,
// each query charged a cycle fee.
type Rates struct {
	table map[string]uint64
}

var _ actor.Actor = (*Rates)(nil)

// NewRates creates a rates canister over a base/quote -> rate table. Rates
// carry RateDecimals decimals.
func NewRates(table map[string]uint64) *Rates {
	if table == nil {
		table = make(map[string]uint64)
	}
	normalized := make(map[string]uint64, len(table))
	for pair, rate := range table {
		normalized[strings.ToUpper(pair)] = rate
	}
	return &Rates{table: normalized}
}

// RatePair builds the table key for a base/quote asset pair.
func RatePair(base, quote string) string {
	return strings.ToUpper(base) + "/" + strings.ToUpper(quote)
}

func (r *Rates) PreStart(*actor.Context) error {
	return nil
}

// Receive handles exchange-rate queries.
func (r *Rates) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		ctx.Logger().Infof("rates canister started with %d pair(s)", len(r.table))

	case *messages.GetRate:
		if msg.Cycles < RateCycles {
			ctx.Response(&messages.RateReply{
				Err: fmt.Sprintf("rate queries require %d cycles, got %d", RateCycles, msg.Cycles),
			})
			return
		}
		rate, ok := r.table[RatePair(msg.Base, msg.Quote)]
		if !ok {
			ctx.Response(&messages.RateReply{
				Err: fmt.Sprintf("no rate for pair %s", RatePair(msg.Base, msg.Quote)),
			})
			return
		}
		ctx.Response(&messages.RateReply{Rate: rate, Decimals: RateDecimals})

	default:
		ctx.Unhandled()
	}
}

func (r *Rates) PostStop(*actor.Context) error {
	return nil
}
