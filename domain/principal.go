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
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"hash/crc32"
	"strings"

	"github.com/pkg/errors"
)

// MaxPrincipalSize is the maximum number of raw bytes in a principal.
const MaxPrincipalSize = 29

// Tags appended to derived principal bytes.
const (
	selfAuthenticatingTag = 0x02
	anonymousTag          = 0x04
)

var principalEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is an opaque identity addressing a canister or a user.
// The zero value is the management principal (empty byte string).
type Principal struct {
	raw []byte
}

// PrincipalFromBytes builds a principal from its raw representation.
func PrincipalFromBytes(raw []byte) (Principal, error) {
	if len(raw) > MaxPrincipalSize {
		return Principal{}, errors.Errorf("principal too long: %d bytes", len(raw))
	}
	p := Principal{raw: make([]byte, len(raw))}
	copy(p.raw, raw)
	return p, nil
}

// SelfAuthenticating derives the principal owned by the holder of the given
// public key: SHA-224 of the key bytes with the self-authenticating tag.
func SelfAuthenticating(publicKey []byte) Principal {
	digest := sha256.Sum224(publicKey)
	raw := make([]byte, 0, sha256.Size224+1)
	raw = append(raw, digest[:]...)
	raw = append(raw, selfAuthenticatingTag)
	return Principal{raw: raw}
}

// AnonymousPrincipal is the principal of unauthenticated callers.
func AnonymousPrincipal() Principal {
	return Principal{raw: []byte{anonymousTag}}
}

// ManagementPrincipal addresses the virtual management canister.
func ManagementPrincipal() Principal {
	return Principal{}
}

// PrincipalFromText parses the dashed base32 textual form and validates its
// leading CRC-32 checksum.
func PrincipalFromText(text string) (Principal, error) {
	compact := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(text)), "-", "")
	decoded, err := principalEncoding.DecodeString(compact)
	if err != nil {
		return Principal{}, errors.Wrap(err, "malformed principal text")
	}
	if len(decoded) < crc32.Size {
		return Principal{}, errors.New("principal text too short")
	}
	sum := binary.BigEndian.Uint32(decoded[:crc32.Size])
	raw := decoded[crc32.Size:]
	if len(raw) > MaxPrincipalSize {
		return Principal{}, errors.Errorf("principal too long: %d bytes", len(raw))
	}
	if sum != crc32.ChecksumIEEE(raw) {
		return Principal{}, errors.New("principal checksum mismatch")
	}
	p := Principal{raw: make([]byte, len(raw))}
	copy(p.raw, raw)
	return p, nil
}

// Bytes returns a copy of the raw principal bytes.
func (p Principal) Bytes() []byte {
	out := make([]byte, len(p.raw))
	copy(out, p.raw)
	return out
}

// IsAnonymous reports whether the principal is the anonymous principal.
func (p Principal) IsAnonymous() bool {
	return len(p.raw) == 1 && p.raw[0] == anonymousTag
}

// Equal reports whether two principals carry the same raw bytes.
func (p Principal) Equal(other Principal) bool {
	return bytes.Equal(p.raw, other.raw)
}

// String renders the checksummed base32 textual form, grouped in dashed
// five-character chunks.
func (p Principal) String() string {
	buf := make([]byte, 0, crc32.Size+len(p.raw))
	buf = binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(p.raw))
	buf = append(buf, p.raw...)
	encoded := strings.ToLower(principalEncoding.EncodeToString(buf))

	var sb strings.Builder
	for i, r := range encoded {
		if i > 0 && i%5 == 0 {
			sb.WriteByte('-')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Principal) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Principal) UnmarshalText(text []byte) error {
	parsed, err := PrincipalFromText(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
