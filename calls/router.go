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

// Package calls is the inter-canister call envelope. Callers pick between
// bounded-wait calls, which always come back within the bounded-wait window
// but can report an unknown outcome, and unbounded-wait calls, which wait
// for the callee as long as it takes and therefore never report SysUnknown.
package calls

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/tochemey/goakt/v4/actor"
	gerrors "github.com/tochemey/goakt/v4/errors"

	"github.com/icx-labs/localic/messages"
)

const (
	// DefaultBoundedWait is how long a bounded-wait call waits before the
	// outcome is declared unknown.
	DefaultBoundedWait = 5 * time.Second
	// DefaultUnboundedWait caps unbounded-wait calls in this sandbox; a
	// callee still busy after it is treated as failed.
	DefaultUnboundedWait = 5 * time.Minute
)

// Router issues calls to canister actors by name.
type Router struct {
	system        actor.ActorSystem
	boundedWait   time.Duration
	unboundedWait time.Duration
}

// RouterOption customizes a router.
type RouterOption func(*Router)

// WithBoundedWait overrides the bounded-wait window.
func WithBoundedWait(d time.Duration) RouterOption {
	return func(r *Router) { r.boundedWait = d }
}

// WithUnboundedWait overrides the unbounded-wait cap.
func WithUnboundedWait(d time.Duration) RouterOption {
	return func(r *Router) { r.unboundedWait = d }
}

// NewRouter creates a router over the given actor system.
func NewRouter(system actor.ActorSystem, opts ...RouterOption) *Router {
	r := &Router{
		system:        system,
		boundedWait:   DefaultBoundedWait,
		unboundedWait: DefaultUnboundedWait,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BoundedWait issues a bounded-wait call. Expired waits surface as
// SysUnknown: the callee may or may not have processed the message.
func (r *Router) BoundedWait(ctx context.Context, canister string, msg messages.CanisterMessage) (messages.CanisterMessage, error) {
	return r.call(ctx, canister, msg, r.boundedWait, true)
}

// UnboundedWait issues an unbounded-wait call. It never returns SysUnknown;
// an expired wait is reported as a callee failure instead.
func (r *Router) UnboundedWait(ctx context.Context, canister string, msg messages.CanisterMessage) (messages.CanisterMessage, error) {
	return r.call(ctx, canister, msg, r.unboundedWait, false)
}

func (r *Router) call(ctx context.Context, canister string, msg messages.CanisterMessage, wait time.Duration, bounded bool) (messages.CanisterMessage, error) {
	if err := ctx.Err(); err != nil {
		// The caller abandoned the call before dispatch; it was never
		// executed.
		return nil, &Rejection{Code: SysTransient, Sync: true, Message: err.Error()}
	}

	pid, err := r.system.ActorOf(ctx, canister)
	if err != nil {
		if errors.Is(err, gerrors.ErrActorNotFound) {
			return nil, &Rejection{Code: CanisterReject, Sync: true, Message: "no canister named " + canister}
		}
		// The system itself could not take the call; this is the
		// synchronous flavor of a transient rejection.
		return nil, &Rejection{Code: SysTransient, Sync: true, Message: err.Error()}
	}

	reply, err := actor.Ask(ctx, pid, msg, wait)
	if err != nil {
		return nil, classifyAskFailure(err, bounded)
	}

	typed, ok := reply.(messages.CanisterMessage)
	if !ok {
		return nil, &UnknownOutcomeError{
			Reason:  DecodeFailed,
			Message: errors.Errorf("unexpected reply type %T", reply).Error(),
		}
	}
	return typed, nil
}

func classifyAskFailure(err error, bounded bool) error {
	switch {
	case isTimeout(err):
		if bounded {
			return &UnknownOutcomeError{Reason: SysUnknown, Message: err.Error()}
		}
		return &UnknownOutcomeError{Reason: CanisterError, Message: err.Error()}
	case errors.Is(err, context.Canceled):
		// The caller abandoned the call before it was delivered, so it
		// was never executed.
		return &Rejection{Code: SysTransient, Sync: true, Message: err.Error()}
	case errors.Is(err, gerrors.ErrDead):
		// The target existed but is shut down; the call was never
		// delivered.
		return &Rejection{Code: CanisterReject, Sync: true, Message: err.Error()}
	default:
		// The actor processed the message and raised an error through
		// its receive context.
		return &UnknownOutcomeError{Reason: CanisterError, Message: err.Error()}
	}
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gerrors.ErrRequestTimeout)
}
