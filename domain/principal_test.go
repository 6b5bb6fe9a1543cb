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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelfAuthenticatingPrincipal(t *testing.T) {
	publicKey := bytes.Repeat([]byte{0xAB}, 32)
	principal := SelfAuthenticating(publicKey)

	require.Len(t, principal.Bytes(), 29)
	require.Equal(t, byte(0x02), principal.Bytes()[28])
	require.False(t, principal.IsAnonymous())

	// Same key, same principal.
	again := SelfAuthenticating(publicKey)
	require.True(t, principal.Equal(again))

	other := SelfAuthenticating(bytes.Repeat([]byte{0xCD}, 32))
	require.False(t, principal.Equal(other))
}

func TestPrincipalTextRoundTrip(t *testing.T) {
	principal := SelfAuthenticating(bytes.Repeat([]byte{0x11}, 32))

	text := principal.String()
	require.Equal(t, strings.ToLower(text), text)
	require.Contains(t, text, "-")

	parsed, err := PrincipalFromText(text)
	require.NoError(t, err)
	require.True(t, principal.Equal(parsed))

	// Parsing is case insensitive.
	parsed, err = PrincipalFromText(strings.ToUpper(text))
	require.NoError(t, err)
	require.True(t, principal.Equal(parsed))
}

func TestPrincipalFromTextRejectsBadChecksum(t *testing.T) {
	principal := SelfAuthenticating(bytes.Repeat([]byte{0x22}, 32))
	text := principal.String()

	// Flip one character of the payload.
	corrupted := []byte(text)
	last := len(corrupted) - 1
	if corrupted[last] == 'a' {
		corrupted[last] = 'b'
	} else {
		corrupted[last] = 'a'
	}

	_, err := PrincipalFromText(string(corrupted))
	require.Error(t, err)
}

func TestPrincipalFromTextRejectsGarbage(t *testing.T) {
	for _, text := range []string{"", "!!!", "not a principal"} {
		_, err := PrincipalFromText(text)
		require.Error(t, err, text)
	}
}

func TestAnonymousPrincipal(t *testing.T) {
	anonymous := AnonymousPrincipal()
	require.True(t, anonymous.IsAnonymous())
	require.Equal(t, []byte{0x04}, anonymous.Bytes())

	parsed, err := PrincipalFromText(anonymous.String())
	require.NoError(t, err)
	require.True(t, parsed.IsAnonymous())
}

func TestManagementPrincipal(t *testing.T) {
	management := ManagementPrincipal()
	require.Empty(t, management.Bytes())
	require.False(t, management.IsAnonymous())
}

func TestPrincipalMarshalText(t *testing.T) {
	principal := SelfAuthenticating(bytes.Repeat([]byte{0x33}, 32))

	text, err := principal.MarshalText()
	require.NoError(t, err)

	var decoded Principal
	require.NoError(t, decoded.UnmarshalText(text))
	require.True(t, principal.Equal(decoded))
}

func TestPrincipalFromBytesRejectsOversized(t *testing.T) {
	_, err := PrincipalFromBytes(bytes.Repeat([]byte{0x01}, MaxPrincipalSize+1))
	require.Error(t, err)
}
