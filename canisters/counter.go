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

// Package canisters hosts the canister actors of the local replica.
package canisters

import (
	"github.com/tochemey/goakt/v4/actor"

	"github.com/icx-labs/localic/messages"
	"github.com/icx-labs/localic/persistence"
)

// Default canister actor names on the local replica.
const (
	CounterName = "counter"
	LedgerName  = "ledger"
	SignerName  = "signer"
	RatesName   = "rates"
)

// Counter is the counter canister: a single unsigned value with get, set,
// get-and-set and increment operations. Set is idempotent, which is what
// makes stubborn retries on it safe.
type Counter struct {
	name    string
	value   uint64
	storage persistence.Store
}

var _ actor.Actor = (*Counter)(nil)

// NewCounter creates a counter canister actor.
func NewCounter() *Counter {
	return &Counter{}
}

// PreStart recovers the counter value from the state store.
func (c *Counter) PreStart(ctx *actor.Context) error {
	c.name = ctx.ActorName()
	c.storage = ctx.Extension(persistence.StateStoreID).(persistence.Store)
	value, found, err := c.storage.GetCounter(ctx.Context(), c.name)
	if err != nil {
		return err
	}
	if found {
		c.value = value
	}
	return nil
}

// Receive handles the counter commands.
func (c *Counter) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		ctx.Logger().Infof("counter canister %s started at value %d", c.name, c.value)

	case *messages.Get:
		ctx.Response(&messages.CounterValue{Value: c.value})

	case *messages.Set:
		c.value = msg.Value
		if err := c.storage.WriteCounter(ctx.Context(), c.name, c.value); err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(&messages.Ack{})

	case *messages.GetAndSet:
		old := c.value
		c.value = msg.Value
		if err := c.storage.WriteCounter(ctx.Context(), c.name, c.value); err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(&messages.CounterValue{Value: old})

	case *messages.Increment:
		c.value++
		if err := c.storage.WriteCounter(ctx.Context(), c.name, c.value); err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(&messages.Ack{})

	default:
		ctx.Unhandled()
	}
}

// PostStop flushes the counter value.
func (c *Counter) PostStop(ctx *actor.Context) error {
	return c.storage.WriteCounter(ctx.Context(), c.name, c.value)
}
