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

package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokensAdd(t *testing.T) {
	sum, err := TokensFromE8s(100).Add(TokensFromE8s(50))
	require.NoError(t, err)
	require.Equal(t, uint64(150), sum.E8s())

	_, err = Tokens(math.MaxUint64).Add(TokensFromE8s(1))
	require.Error(t, err)
}

func TestTokensSub(t *testing.T) {
	diff, err := TokensFromE8s(100).Sub(TokensFromE8s(40))
	require.NoError(t, err)
	require.Equal(t, uint64(60), diff.E8s())

	_, err = TokensFromE8s(40).Sub(TokensFromE8s(100))
	require.Error(t, err)
}

func TestTokensString(t *testing.T) {
	require.Equal(t, "1.00000000", TokensFromE8s(E8sPerToken).String())
	require.Equal(t, "0.00010000", TokensFromE8s(10_000).String())
	require.Equal(t, "10000.00000000", TokensFromE8s(1_000_000_000_000).String())
}
