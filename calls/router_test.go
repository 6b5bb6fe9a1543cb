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

package calls

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v4/actor"
	"github.com/tochemey/goakt/v4/log"

	"github.com/icx-labs/localic/messages"
)

// echoActor answers every Get with a fixed counter value.
type echoActor struct{}

func (a *echoActor) PreStart(*actor.Context) error { return nil }
func (a *echoActor) PostStop(*actor.Context) error { return nil }

func (a *echoActor) Receive(ctx *actor.ReceiveContext) {
	switch ctx.Message().(type) {
	case *actor.PostStart:
	case *messages.Get:
		ctx.Response(&messages.CounterValue{Value: 42})
	default:
		ctx.Unhandled()
	}
}

// silentActor swallows every message without responding.
type silentActor struct{}

func (a *silentActor) PreStart(*actor.Context) error { return nil }
func (a *silentActor) PostStop(*actor.Context) error { return nil }
func (a *silentActor) Receive(*actor.ReceiveContext) {}

func newTestSystem(t *testing.T) actor.ActorSystem {
	t.Helper()
	ctx := context.TODO()
	system, err := actor.NewActorSystem("RouterTest",
		actor.WithLogger(log.DiscardLogger),
		actor.WithActorInitMaxRetries(1))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() { _ = system.Stop(ctx) })
	return system
}

func TestBoundedWaitSuccess(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	_, err := system.Spawn(ctx, "echo", &echoActor{}, actor.WithLongLived())
	require.NoError(t, err)

	router := NewRouter(system)
	reply, err := router.BoundedWait(ctx, "echo", &messages.Get{})
	require.NoError(t, err)

	value, ok := reply.(*messages.CounterValue)
	require.True(t, ok)
	require.Equal(t, uint64(42), value.Value)
}

func TestUnknownCanisterIsSynchronousReject(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)

	router := NewRouter(system)
	_, err := router.BoundedWait(ctx, "nowhere", &messages.Get{})

	var rejection *Rejection
	require.ErrorAs(t, err, &rejection)
	require.Equal(t, CanisterReject, rejection.Code)
	require.True(t, rejection.Sync)
	require.False(t, rejection.ImmediatelyRetryable())
}

func TestBoundedWaitTimeoutIsSysUnknown(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	_, err := system.Spawn(ctx, "silent", &silentActor{}, actor.WithLongLived())
	require.NoError(t, err)

	router := NewRouter(system, WithBoundedWait(100*time.Millisecond))
	_, err = router.BoundedWait(ctx, "silent", &messages.Get{})

	var unknown *UnknownOutcomeError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, SysUnknown, unknown.Reason)
}

// grumpyActor fails every Get with an error that merely mentions a timeout.
type grumpyActor struct{}

func (a *grumpyActor) PreStart(*actor.Context) error { return nil }
func (a *grumpyActor) PostStop(*actor.Context) error { return nil }

func (a *grumpyActor) Receive(ctx *actor.ReceiveContext) {
	switch ctx.Message().(type) {
	case *actor.PostStart:
	case *messages.Get:
		ctx.Err(errors.New("upstream timeout budget exhausted"))
	default:
		ctx.Unhandled()
	}
}

func TestCanisterErrorMentioningTimeoutIsNotSysUnknown(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	_, err := system.Spawn(ctx, "grumpy", &grumpyActor{}, actor.WithLongLived())
	require.NoError(t, err)

	// The callee executed and failed; only a real expiry of the wait
	// window may be reported as an unknown outcome.
	router := NewRouter(system)
	_, err = router.BoundedWait(ctx, "grumpy", &messages.Get{})

	var unknown *UnknownOutcomeError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, CanisterError, unknown.Reason)
}

func TestCancelledCallIsSynchronousReject(t *testing.T) {
	system := newTestSystem(t)
	_, err := system.Spawn(context.TODO(), "echo", &echoActor{}, actor.WithLongLived())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.TODO())
	cancel()

	// An abandoned call was never executed, so it must come back as a
	// retryable rejection rather than an unknown outcome.
	router := NewRouter(system)
	_, err = router.BoundedWait(ctx, "echo", &messages.Get{})

	var rejection *Rejection
	require.ErrorAs(t, err, &rejection)
	require.Equal(t, SysTransient, rejection.Code)
	require.True(t, rejection.Sync)
}

func TestUnboundedWaitTimeoutIsNotSysUnknown(t *testing.T) {
	ctx := context.TODO()
	system := newTestSystem(t)
	_, err := system.Spawn(ctx, "silent", &silentActor{}, actor.WithLongLived())
	require.NoError(t, err)

	router := NewRouter(system, WithUnboundedWait(100*time.Millisecond))
	_, err = router.UnboundedWait(ctx, "silent", &messages.Get{})

	var unknown *UnknownOutcomeError
	require.ErrorAs(t, err, &unknown)
	require.NotEqual(t, SysUnknown, unknown.Reason)
}
