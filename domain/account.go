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
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash/crc32"

	"github.com/pkg/errors"
)

// SubaccountSize is the fixed length of a ledger subaccount.
const SubaccountSize = 32

// AccountIdentifierSize is the fixed length of a ledger account identifier:
// a 4-byte checksum followed by a SHA-224 digest.
const AccountIdentifierSize = 32

// accountIDDomainSeparator prefixes the hashed material; the leading byte is
// the separator length.
var accountIDDomainSeparator = []byte("\x0Aaccount-id")

// Subaccount distinguishes multiple accounts under one principal.
// The zero value is the default subaccount.
type Subaccount [SubaccountSize]byte

// AccountIdentifier addresses a ledger balance holder.
type AccountIdentifier [AccountIdentifierSize]byte

// NewAccountIdentifier derives the account identifier of a principal and
// subaccount pair.
func NewAccountIdentifier(owner Principal, sub Subaccount) AccountIdentifier {
	h := sha256.New224()
	h.Write(accountIDDomainSeparator)
	h.Write(owner.raw)
	h.Write(sub[:])
	digest := h.Sum(nil)

	var id AccountIdentifier
	binary.BigEndian.PutUint32(id[:crc32.Size], crc32.ChecksumIEEE(digest))
	copy(id[crc32.Size:], digest)
	return id
}

// DefaultAccount is the account of a principal under the zero subaccount.
func DefaultAccount(owner Principal) AccountIdentifier {
	return NewAccountIdentifier(owner, Subaccount{})
}

// AccountIdentifierFromHex parses the hex textual form and validates the
// embedded checksum.
func AccountIdentifierFromHex(text string) (AccountIdentifier, error) {
	raw, err := hex.DecodeString(text)
	if err != nil {
		return AccountIdentifier{}, errors.Wrap(err, "malformed account identifier")
	}
	if len(raw) != AccountIdentifierSize {
		return AccountIdentifier{}, errors.Errorf("account identifier must be %d bytes, got %d", AccountIdentifierSize, len(raw))
	}
	var id AccountIdentifier
	copy(id[:], raw)
	if binary.BigEndian.Uint32(id[:crc32.Size]) != crc32.ChecksumIEEE(id[crc32.Size:]) {
		return AccountIdentifier{}, errors.New("account identifier checksum mismatch")
	}
	return id, nil
}

// String renders the identifier as lower-case hex.
func (id AccountIdentifier) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id AccountIdentifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *AccountIdentifier) UnmarshalText(text []byte) error {
	parsed, err := AccountIdentifierFromHex(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
