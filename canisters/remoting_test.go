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
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v4/actor"
	"github.com/tochemey/goakt/v4/log"
	"github.com/tochemey/goakt/v4/remote"
	"github.com/travisjeffery/go-dynaport"

	"github.com/icx-labs/localic/messages"
	"github.com/icx-labs/localic/persistence"
)

// The canister messages are plain structs serialized with CBOR when the
// replica exposes remoting. This spins up a remoting-enabled system and
// checks the counter still answers.
func TestCounterWithRemotingEnabled(t *testing.T) {
	ctx := context.TODO()

	store := persistence.NewMemoryStore()
	require.NoError(t, store.Start(ctx))

	ports := dynaport.Get(1)
	cbor := remote.NewCBORSerializer()
	system, err := actor.NewActorSystem("RemotingTest",
		actor.WithLogger(log.DiscardLogger),
		actor.WithExtensions(store),
		actor.WithActorInitMaxRetries(1),
		actor.WithRemote(remote.NewConfig("127.0.0.1", ports[0],
			remote.WithSerializers((*messages.Get)(nil), cbor),
			remote.WithSerializers((*messages.Set)(nil), cbor),
			remote.WithSerializers((*messages.CounterValue)(nil), cbor),
			remote.WithSerializers((*messages.Ack)(nil), cbor),
		)),
	)
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() {
		_ = system.Stop(ctx)
		_ = store.Stop(ctx)
	})

	pid, err := system.Spawn(ctx, CounterName, NewCounter(), actor.WithLongLived())
	require.NoError(t, err)

	_, err = actor.Ask(ctx, pid, &messages.Set{Value: 3}, askTimeout)
	require.NoError(t, err)

	reply, err := actor.Ask(ctx, pid, &messages.Get{}, askTimeout)
	require.NoError(t, err)
	require.Equal(t, uint64(3), reply.(*messages.CounterValue).Value)
}
