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

// Package caller implements the caller-service operations: counter calls
// with the different wait flavors, the stubborn retry loop, and message
// signing.
package caller

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"

	"github.com/icx-labs/localic/calls"
	"github.com/icx-labs/localic/canisters"
	"github.com/icx-labs/localic/messages"
)

// StubbornDeadline bounds how long stubborn_set keeps retrying.
const StubbornDeadline = 10 * time.Minute

const retryInterval = 50 * time.Millisecond

// Backend backs the caller service endpoints.
type Backend struct {
	router   *calls.Router
	counter  string
	signer   string
	deadline time.Duration
	pause    time.Duration
}

// Option customizes a caller backend.
type Option func(*Backend)

// WithCounterName points the backend at a differently named counter.
func WithCounterName(name string) Option {
	return func(b *Backend) { b.counter = name }
}

// WithSignerName points the backend at a differently named signer.
func WithSignerName(name string) Option {
	return func(b *Backend) { b.signer = name }
}

// WithStubbornDeadline overrides the stubborn_set deadline.
func WithStubbornDeadline(d time.Duration) Option {
	return func(b *Backend) { b.deadline = d }
}

// WithRetryInterval overrides the pause between stubborn retries.
func WithRetryInterval(d time.Duration) Option {
	return func(b *Backend) { b.pause = d }
}

// New creates a caller backend over the given call router.
func New(router *calls.Router, opts ...Option) *Backend {
	b := &Backend{
		router:   router,
		counter:  canisters.CounterName,
		signer:   canisters.SignerName,
		deadline: StubbornDeadline,
		pause:    retryInterval,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CallGetAndSet overwrites the counter with an unbounded-wait call and
// returns the previous value.
func (b *Backend) CallGetAndSet(ctx context.Context, value uint64) (uint64, error) {
	reply, err := b.router.UnboundedWait(ctx, b.counter, &messages.GetAndSet{Value: value})
	if err != nil {
		return 0, err
	}
	old, ok := reply.(*messages.CounterValue)
	if !ok {
		return 0, errors.Errorf("counter returned an unexpected reply %T", reply)
	}
	return old.Value, nil
}

// SetThenGet sets the counter, then reads it back. The read value is what
// the counter holds at read time; concurrent callers may have changed it in
// between, so it is not guaranteed to equal the value just written.
func (b *Backend) SetThenGet(ctx context.Context, value uint64) (uint64, error) {
	if _, err := b.router.UnboundedWait(ctx, b.counter, &messages.Set{Value: value}); err != nil {
		return 0, err
	}

	reply, err := b.router.UnboundedWait(ctx, b.counter, &messages.Get{})
	if err != nil {
		return 0, err
	}
	current, ok := reply.(*messages.CounterValue)
	if !ok {
		return 0, errors.Errorf("counter returned an unexpected reply %T", reply)
	}
	return current.Value, nil
}

// CallIncrement bumps the counter once, surfacing the full rejection
// taxonomy as text.
func (b *Backend) CallIncrement(ctx context.Context) error {
	_, err := b.router.UnboundedWait(ctx, b.counter, &messages.Increment{})
	if err == nil {
		return nil
	}

	var rejection *calls.Rejection
	if errors.As(err, &rejection) {
		switch {
		case rejection.Code == calls.SysFatal:
			return errors.Errorf("the call was rejected with a fatal error: %s", rejection.Message)
		case rejection.Code == calls.SysTransient && rejection.Sync:
			return errors.Errorf("the call was rejected with a synchronous transient error: %s", rejection.Message)
		case rejection.Code == calls.SysTransient:
			return errors.Errorf("the call was rejected with an asynchronous transient error: %s", rejection.Message)
		default:
			return errors.Errorf("the call reached the canister but was rejected: %s", rejection.Message)
		}
	}
	return errors.Wrap(err, "increment failed")
}

// StubbornSet keeps setting the counter until it succeeds, hits an
// unrecoverable error, or runs past the deadline. Retrying on an unknown
// outcome is safe here because set is idempotent.
func (b *Backend) StubbornSet(ctx context.Context, value uint64) error {
	deadline := time.Now().Add(b.deadline)
	for {
		_, err := b.router.BoundedWait(ctx, b.counter, &messages.Set{Value: value})
		if err == nil {
			return nil
		}

		var rejection *calls.Rejection
		if errors.As(err, &rejection) {
			if !rejection.ImmediatelyRetryable() {
				return errors.Wrap(err, "cannot retry setting the value")
			}
			if retryErr := b.awaitRetry(ctx, deadline); retryErr != nil {
				return retryErr
			}
			continue
		}

		var unknown *calls.UnknownOutcomeError
		if errors.As(err, &unknown) && unknown.Reason == calls.SysUnknown {
			// The set may or may not have landed; reissuing an
			// idempotent set is harmless.
			if retryErr := b.awaitRetry(ctx, deadline); retryErr != nil {
				return retryErr
			}
			continue
		}

		return errors.Wrap(err, "setting the value failed")
	}
}

// SignMessage hashes the message and signs the digest with the local test
// key, returning the hex-encoded signature.
func (b *Backend) SignMessage(ctx context.Context, message string) (string, error) {
	digest := sha256.Sum256([]byte(message))
	reply, err := b.router.BoundedWait(ctx, b.signer, &messages.SignDigest{
		KeyName: canisters.TestKeyName,
		Digest:  digest[:],
		Cycles:  canisters.SignCycles,
	})
	if err != nil {
		var unknown *calls.UnknownOutcomeError
		if errors.As(err, &unknown) && unknown.Reason == calls.SysUnknown {
			// Attached cycles are not refunded on SysUnknown; the
			// charge is small enough not to matter here.
			return "", errors.Wrap(err, "signing outcome unknown; cycles are not refunded")
		}
		return "", errors.Wrap(err, "error signing message")
	}

	signature, ok := reply.(*messages.SignatureReply)
	if !ok {
		return "", errors.Errorf("signer returned an unexpected reply %T", reply)
	}
	if signature.Err != "" {
		return "", errors.New(signature.Err)
	}
	return hex.EncodeToString(signature.Signature), nil
}

func (b *Backend) awaitRetry(ctx context.Context, deadline time.Time) error {
	if time.Now().After(deadline) {
		return errors.New("timed out while trying to set the value")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.pause):
		return nil
	}
}
