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
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"
	"github.com/tochemey/goakt/v4/actor"

	"github.com/icx-labs/localic/messages"
)

// TestKeyName is the signing key available on the local replica. Production
// networks use different key names.
const TestKeyName = "dfx_test_key"

// SignCycles is the cycle charge for one signature with a test key.
const SignCycles uint64 = 10_000_000_000

// Signer is the signing canister: it holds named secp256k1 keys and signs
// 32-byte digests for callers attaching enough cycles.
type Signer struct {
	keys map[string]*btcec.PrivateKey
}

var _ actor.Actor = (*Signer)(nil)

// NewSigner creates a signer holding freshly generated keys under the given
// names. With no names it holds only the test key.
func NewSigner(keyNames ...string) (*Signer, error) {
	if len(keyNames) == 0 {
		keyNames = []string{TestKeyName}
	}
	keys := make(map[string]*btcec.PrivateKey, len(keyNames))
	for _, name := range keyNames {
		key, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, errors.Wrapf(err, "generating signing key %s", name)
		}
		keys[name] = key
	}
	return &Signer{keys: keys}, nil
}

// PublicKey returns the compressed public key of a named signing key.
func (s *Signer) PublicKey(keyName string) ([]byte, bool) {
	key, ok := s.keys[keyName]
	if !ok {
		return nil, false
	}
	return key.PubKey().SerializeCompressed(), true
}

func (s *Signer) PreStart(*actor.Context) error {
	return nil
}

// Receive handles signing requests.
func (s *Signer) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *actor.PostStart:
		ctx.Logger().Infof("signer canister started with %d key(s)", len(s.keys))

	case *messages.SignDigest:
		key, ok := s.keys[msg.KeyName]
		if !ok {
			ctx.Response(&messages.SignatureReply{Err: fmt.Sprintf("unknown signing key %q", msg.KeyName)})
			return
		}
		if msg.Cycles < SignCycles {
			ctx.Response(&messages.SignatureReply{
				Err: fmt.Sprintf("signing requires %d cycles, got %d", SignCycles, msg.Cycles),
			})
			return
		}
		if len(msg.Digest) != sha256.Size {
			ctx.Response(&messages.SignatureReply{
				Err: fmt.Sprintf("digest must be %d bytes, got %d", sha256.Size, len(msg.Digest)),
			})
			return
		}
		signature := btcecdsa.Sign(key, msg.Digest)
		ctx.Response(&messages.SignatureReply{Signature: signature.Serialize()})

	default:
		ctx.Unhandled()
	}
}

func (s *Signer) PostStop(*actor.Context) error {
	return nil
}
