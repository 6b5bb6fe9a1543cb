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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImmediatelyRetryable(t *testing.T) {
	// Only asynchronous transient rejections are safe to retry blindly:
	// the system guarantees the call was not executed.
	retryable := &Rejection{Code: SysTransient, Sync: false}
	require.True(t, retryable.ImmediatelyRetryable())

	require.False(t, (&Rejection{Code: SysTransient, Sync: true}).ImmediatelyRetryable())
	require.False(t, (&Rejection{Code: SysFatal}).ImmediatelyRetryable())
	require.False(t, (&Rejection{Code: CanisterReject}).ImmediatelyRetryable())
}

func TestRejectCodeString(t *testing.T) {
	require.Equal(t, "SYS_FATAL", SysFatal.String())
	require.Equal(t, "SYS_TRANSIENT", SysTransient.String())
	require.Equal(t, "CANISTER_REJECT", CanisterReject.String())
}

func TestUnknownReasonString(t *testing.T) {
	require.Equal(t, "DECODE_FAILED", DecodeFailed.String())
	require.Equal(t, "CANISTER_ERROR", CanisterError.String())
	require.Equal(t, "SYS_UNKNOWN", SysUnknown.String())
}

func TestErrorMessages(t *testing.T) {
	rejection := &Rejection{Code: CanisterReject, Sync: true, Message: "no such canister"}
	require.Contains(t, rejection.Error(), "no such canister")

	unknown := &UnknownOutcomeError{Reason: SysUnknown, Message: "wait expired"}
	require.Contains(t, unknown.Error(), "wait expired")
}
