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

package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetConfigDefaults(t *testing.T) {
	cfg, err := GetConfig()
	require.NoError(t, err)

	require.Equal(t, "LocalReplica", cfg.SystemName)
	require.Equal(t, 8080, cfg.CallerPort)
	require.Equal(t, 8081, cfg.LedgerPort)
	require.Equal(t, uint64(1_000_000_000_000), cfg.InitialBalanceE8s)
	require.Equal(t, uint64(10_000), cfg.TransferFeeE8s)
	require.True(t, cfg.MemoryStore)
}

func TestGetConfigFromEnvironment(t *testing.T) {
	t.Setenv("SYSTEM_NAME", "TestReplica")
	t.Setenv("CALLER_PORT", "9000")
	t.Setenv("DEPLOY_REQUIRED_TOOLS", "docker,psql,jq")

	cfg, err := GetConfig()
	require.NoError(t, err)

	require.Equal(t, "TestReplica", cfg.SystemName)
	require.Equal(t, 9000, cfg.CallerPort)
	require.Equal(t, []string{"docker", "psql", "jq"}, cfg.RequiredTools)
}
