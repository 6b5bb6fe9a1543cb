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
	"fmt"

	"github.com/pkg/errors"
)

// E8sPerToken is the number of smallest subunits in one whole token.
const E8sPerToken uint64 = 100_000_000

// Tokens is a token amount denominated in e8s, the smallest subunit.
type Tokens uint64

// TokensFromE8s wraps a raw e8s quantity.
func TokensFromE8s(e8s uint64) Tokens {
	return Tokens(e8s)
}

// E8s returns the raw subunit quantity.
func (t Tokens) E8s() uint64 {
	return uint64(t)
}

// Add returns t+other, failing on overflow.
func (t Tokens) Add(other Tokens) (Tokens, error) {
	sum := t + other
	if sum < t {
		return 0, errors.Errorf("token amount overflow: %d + %d", t.E8s(), other.E8s())
	}
	return sum, nil
}

// Sub returns t-other, failing when other exceeds t.
func (t Tokens) Sub(other Tokens) (Tokens, error) {
	if other > t {
		return 0, errors.Errorf("token amount underflow: %d - %d", t.E8s(), other.E8s())
	}
	return t - other, nil
}

// String renders the amount as whole tokens with the fractional e8s part.
func (t Tokens) String() string {
	return fmt.Sprintf("%d.%08d", uint64(t)/E8sPerToken, uint64(t)%E8sPerToken)
}
