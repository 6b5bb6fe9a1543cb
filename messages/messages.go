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

// Package messages holds the commands and replies exchanged with the
// canister actors. All types are plain Go structs with cbor tags; register
// them with WithSerializers and the CBOR serializer when remoting is on.
package messages

// CanisterMessage is the common interface implemented by all canister
// message types.
type CanisterMessage interface {
	canisterMessage()
}

// Get asks the counter for its current value.
type Get struct{}

func (*Get) canisterMessage() {}

// Set overwrites the counter value. Setting is idempotent.
type Set struct {
	Value uint64 `cbor:"value,omitempty"`
}

func (*Set) canisterMessage() {}

// GetAndSet overwrites the counter value and returns the previous one.
type GetAndSet struct {
	Value uint64 `cbor:"value,omitempty"`
}

func (*GetAndSet) canisterMessage() {}

// Increment bumps the counter by one.
type Increment struct{}

func (*Increment) canisterMessage() {}

// CounterValue is the counter's reply to Get and GetAndSet.
type CounterValue struct {
	Value uint64 `cbor:"value,omitempty"`
}

func (*CounterValue) canisterMessage() {}

// Ack is the empty success reply for commands without a payload.
type Ack struct{}

func (*Ack) canisterMessage() {}

// Transfer moves tokens between two ledger accounts. From or To equal to
// the minting account turn the transfer into a mint or a burn. CreatedAtNanos
// of zero disables deduplication.
type Transfer struct {
	From           string `cbor:"from,omitempty"`
	To             string `cbor:"to,omitempty"`
	AmountE8s      uint64 `cbor:"amount_e8s,omitempty"`
	FeeE8s         uint64 `cbor:"fee_e8s,omitempty"`
	Memo           uint64 `cbor:"memo,omitempty"`
	CreatedAtNanos uint64 `cbor:"created_at_nanos,omitempty"`
}

func (*Transfer) canisterMessage() {}

// TransferResult carries the block height of an applied transfer, or the
// ledger's error text. Duplicate marks a transaction the ledger had already
// applied at Height; retried idempotent transfers land here.
type TransferResult struct {
	Height    uint64 `cbor:"height,omitempty"`
	Duplicate bool   `cbor:"duplicate,omitempty"`
	Err       string `cbor:"err,omitempty"`
}

func (*TransferResult) canisterMessage() {}

// BalanceOf asks the ledger for an account balance.
type BalanceOf struct {
	Account string `cbor:"account,omitempty"`
}

func (*BalanceOf) canisterMessage() {}

// BalanceReply is the ledger's reply to BalanceOf.
type BalanceReply struct {
	BalanceE8s uint64 `cbor:"balance_e8s,omitempty"`
	Err        string `cbor:"err,omitempty"`
}

func (*BalanceReply) canisterMessage() {}

// GetFee asks the ledger for its transfer fee.
type GetFee struct{}

func (*GetFee) canisterMessage() {}

// FeeReply is the ledger's reply to GetFee.
type FeeReply struct {
	FeeE8s uint64 `cbor:"fee_e8s,omitempty"`
}

func (*FeeReply) canisterMessage() {}

// SignDigest asks the signer to sign a 32-byte digest with the named key.
// Cycles must cover the signing charge.
type SignDigest struct {
	KeyName string `cbor:"key_name,omitempty"`
	Digest  []byte `cbor:"digest,omitempty"`
	Cycles  uint64 `cbor:"cycles,omitempty"`
}

func (*SignDigest) canisterMessage() {}

// SignatureReply carries the DER-encoded signature, or an error text.
type SignatureReply struct {
	Signature []byte `cbor:"signature,omitempty"`
	Err       string `cbor:"err,omitempty"`
}

func (*SignatureReply) canisterMessage() {}

// GetRate asks the rates canister for the exchange rate between two assets.
// Cycles must cover the query fee.
type GetRate struct {
	Base   string `cbor:"base,omitempty"`
	Quote  string `cbor:"quote,omitempty"`
	Cycles uint64 `cbor:"cycles,omitempty"`
}

func (*GetRate) canisterMessage() {}

// RateReply carries the integer rate and its decimal count, or an error text.
type RateReply struct {
	Rate     uint64 `cbor:"rate,omitempty"`
	Decimals uint32 `cbor:"decimals,omitempty"`
	Err      string `cbor:"err,omitempty"`
}

func (*RateReply) canisterMessage() {}
