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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultAccountIsDeterministic(t *testing.T) {
	owner := SelfAuthenticating(bytes.Repeat([]byte{0x44}, 32))

	first := DefaultAccount(owner)
	second := DefaultAccount(owner)
	require.Equal(t, first, second)

	other := DefaultAccount(SelfAuthenticating(bytes.Repeat([]byte{0x55}, 32)))
	require.NotEqual(t, first, other)
}

func TestSubaccountsYieldDistinctAccounts(t *testing.T) {
	owner := SelfAuthenticating(bytes.Repeat([]byte{0x66}, 32))

	var sub Subaccount
	sub[31] = 1

	require.NotEqual(t, DefaultAccount(owner), NewAccountIdentifier(owner, sub))
}

func TestAccountIdentifierHexRoundTrip(t *testing.T) {
	owner := SelfAuthenticating(bytes.Repeat([]byte{0x77}, 32))
	account := DefaultAccount(owner)

	text := account.String()
	require.Len(t, text, 64)

	parsed, err := AccountIdentifierFromHex(text)
	require.NoError(t, err)
	require.Equal(t, account, parsed)
}

func TestAccountIdentifierFromHexRejectsBadChecksum(t *testing.T) {
	owner := SelfAuthenticating(bytes.Repeat([]byte{0x88}, 32))
	account := DefaultAccount(owner)

	corrupted := []byte(account.String())
	if corrupted[0] == '0' {
		corrupted[0] = '1'
	} else {
		corrupted[0] = '0'
	}

	_, err := AccountIdentifierFromHex(string(corrupted))
	require.Error(t, err)
}

func TestAccountIdentifierFromHexRejectsBadLength(t *testing.T) {
	_, err := AccountIdentifierFromHex("deadbeef")
	require.Error(t, err)
}

func TestAccountIdentifierMarshalText(t *testing.T) {
	owner := SelfAuthenticating(bytes.Repeat([]byte{0x99}, 32))
	account := DefaultAccount(owner)

	text, err := account.MarshalText()
	require.NoError(t, err)

	var decoded AccountIdentifier
	require.NoError(t, decoded.UnmarshalText(text))
	require.Equal(t, account, decoded)
}
