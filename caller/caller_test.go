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

package caller

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	btcec "github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v4/actor"
	"github.com/tochemey/goakt/v4/log"

	"github.com/icx-labs/localic/calls"
	"github.com/icx-labs/localic/canisters"
	"github.com/icx-labs/localic/persistence"
)

func newTestBackend(t *testing.T, opts ...Option) (*Backend, *canisters.Signer) {
	t.Helper()
	ctx := context.TODO()

	store := persistence.NewMemoryStore()
	require.NoError(t, store.Start(ctx))

	system, err := actor.NewActorSystem("CallerTest",
		actor.WithLogger(log.DiscardLogger),
		actor.WithExtensions(store),
		actor.WithActorInitMaxRetries(1))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() {
		_ = system.Stop(ctx)
		_ = store.Stop(ctx)
	})

	_, err = system.Spawn(ctx, canisters.CounterName, canisters.NewCounter(), actor.WithLongLived())
	require.NoError(t, err)

	signer, err := canisters.NewSigner()
	require.NoError(t, err)
	_, err = system.Spawn(ctx, canisters.SignerName, signer, actor.WithLongLived())
	require.NoError(t, err)

	return New(calls.NewRouter(system), opts...), signer
}

func TestCallGetAndSet(t *testing.T) {
	ctx := context.TODO()
	backend, _ := newTestBackend(t)

	previous, err := backend.CallGetAndSet(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, uint64(0), previous)

	previous, err = backend.CallGetAndSet(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(5), previous)
}

func TestSetThenGet(t *testing.T) {
	ctx := context.TODO()
	backend, _ := newTestBackend(t)

	value, err := backend.SetThenGet(ctx, 123)
	require.NoError(t, err)
	require.Equal(t, uint64(123), value)
}

func TestCallIncrement(t *testing.T) {
	ctx := context.TODO()
	backend, _ := newTestBackend(t)

	require.NoError(t, backend.CallIncrement(ctx))

	value, err := backend.CallGetAndSet(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), value)
}

func TestCallIncrementSurfacesRejections(t *testing.T) {
	ctx := context.TODO()
	backend, _ := newTestBackend(t, WithCounterName("nowhere"))

	err := backend.CallIncrement(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rejected")
}

// stalledActor never answers, so every ask against it expires.
type stalledActor struct{}

func (a *stalledActor) PreStart(*actor.Context) error { return nil }
func (a *stalledActor) PostStop(*actor.Context) error { return nil }
func (a *stalledActor) Receive(*actor.ReceiveContext) {}

func TestStubbornSetGivesUpAtDeadline(t *testing.T) {
	ctx := context.TODO()

	system, err := actor.NewActorSystem("CallerDeadlineTest",
		actor.WithLogger(log.DiscardLogger),
		actor.WithActorInitMaxRetries(1))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() { _ = system.Stop(ctx) })

	_, err = system.Spawn(ctx, canisters.CounterName, &stalledActor{}, actor.WithLongLived())
	require.NoError(t, err)

	router := calls.NewRouter(system, calls.WithBoundedWait(50*time.Millisecond))
	backend := New(router,
		WithStubbornDeadline(250*time.Millisecond),
		WithRetryInterval(10*time.Millisecond))

	start := time.Now()
	err = backend.StubbornSet(ctx, 77)
	require.Error(t, err)
	require.Contains(t, err.Error(), "timed out while trying to set the value")
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestStubbornSet(t *testing.T) {
	ctx := context.TODO()
	backend, _ := newTestBackend(t)

	require.NoError(t, backend.StubbornSet(ctx, 77))

	value, err := backend.CallGetAndSet(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(77), value)
}

func TestStubbornSetFailsFastOnUnrecoverableRejection(t *testing.T) {
	ctx := context.TODO()
	// A missing canister is a synchronous reject, not a retryable fault.
	backend, _ := newTestBackend(t,
		WithCounterName("nowhere"),
		WithStubbornDeadline(time.Second),
		WithRetryInterval(10*time.Millisecond))

	start := time.Now()
	err := backend.StubbornSet(ctx, 77)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot retry")
	require.Less(t, time.Since(start), time.Second)
}

func TestSignMessage(t *testing.T) {
	ctx := context.TODO()
	backend, signer := newTestBackend(t)

	encoded, err := backend.SignMessage(ctx, "hello world")
	require.NoError(t, err)

	raw, err := hex.DecodeString(encoded)
	require.NoError(t, err)

	publicKeyBytes, ok := signer.PublicKey(canisters.TestKeyName)
	require.True(t, ok)
	publicKey, err := btcec.ParsePubKey(publicKeyBytes)
	require.NoError(t, err)
	signature, err := btcecdsa.ParseDERSignature(raw)
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("hello world"))
	require.True(t, signature.Verify(digest[:], publicKey))
}
