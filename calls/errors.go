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

import "fmt"

// RejectCode classifies rejections where the call was definitely not
// executed.
type RejectCode int

const (
	// SysFatal is an unrecoverable system failure; retries are pointless.
	SysFatal RejectCode = iota + 1
	// SysTransient may clear up on its own. Synchronous transient
	// rejections mean the system could not even accept the call.
	SysTransient
	// CanisterReject means the target explicitly refused the call.
	CanisterReject
)

func (c RejectCode) String() string {
	switch c {
	case SysFatal:
		return "SYS_FATAL"
	case SysTransient:
		return "SYS_TRANSIENT"
	case CanisterReject:
		return "CANISTER_REJECT"
	default:
		return fmt.Sprintf("REJECT_CODE(%d)", int(c))
	}
}

// Rejection is returned when the call was not executed at all. Retrying a
// rejected call never executes it twice.
type Rejection struct {
	Code    RejectCode
	Sync    bool
	Message string
}

func (e *Rejection) Error() string {
	return fmt.Sprintf("call rejected (%s, sync=%t): %s", e.Code, e.Sync, e.Message)
}

// ImmediatelyRetryable reports whether an immediate retry is sensible: only
// asynchronous transient rejections qualify. Synchronous ones mean the
// system is out of capacity right now and an immediate retry would only
// burn resources.
func (e *Rejection) ImmediatelyRetryable() bool {
	return e.Code == SysTransient && !e.Sync
}

// UnknownReason classifies failures where the call may or may not have been
// executed.
type UnknownReason int

const (
	// DecodeFailed means the callee responded, but the reply was not of
	// the expected type.
	DecodeFailed UnknownReason = iota + 1
	// CanisterError means the callee failed while processing the call.
	CanisterError
	// SysUnknown means the system gave up waiting for the response. Only
	// bounded-wait calls can observe it.
	SysUnknown
)

func (r UnknownReason) String() string {
	switch r {
	case DecodeFailed:
		return "DECODE_FAILED"
	case CanisterError:
		return "CANISTER_ERROR"
	case SysUnknown:
		return "SYS_UNKNOWN"
	default:
		return fmt.Sprintf("UNKNOWN_REASON(%d)", int(r))
	}
}

// UnknownOutcomeError is returned when the call's effect on the callee is
// unknown. Retrying is only safe for idempotent operations.
type UnknownOutcomeError struct {
	Reason  UnknownReason
	Message string
}

func (e *UnknownOutcomeError) Error() string {
	return fmt.Sprintf("call outcome unknown (%s): %s", e.Reason, e.Message)
}
