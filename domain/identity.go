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
	"crypto/ed25519"
	"crypto/rand"

	"github.com/hdevalence/ed25519consensus"
	"github.com/pkg/errors"
)

// Identity is a named ed25519 keypair with its self-authenticating principal.
type Identity struct {
	name      string
	public    ed25519.PublicKey
	private   ed25519.PrivateKey
	principal Principal
}

// NewIdentity generates a fresh identity under the given name.
func NewIdentity(name string) (*Identity, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generating identity key")
	}
	return &Identity{
		name:      name,
		public:    public,
		private:   private,
		principal: SelfAuthenticating(public),
	}, nil
}

// IdentityFromSeed derives a deterministic identity from a 32-byte seed.
func IdentityFromSeed(name string, seed []byte) (*Identity, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Errorf("identity seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	private := ed25519.NewKeyFromSeed(seed)
	public := private.Public().(ed25519.PublicKey)
	return &Identity{
		name:      name,
		public:    public,
		private:   private,
		principal: SelfAuthenticating(public),
	}, nil
}

// Name returns the identity name.
func (i *Identity) Name() string {
	return i.name
}

// Principal returns the identity's self-authenticating principal.
func (i *Identity) Principal() Principal {
	return i.principal
}

// PublicKey returns the raw public key bytes.
func (i *Identity) PublicKey() []byte {
	out := make([]byte, len(i.public))
	copy(out, i.public)
	return out
}

// Sign signs an arbitrary message with the identity key.
func (i *Identity) Sign(message []byte) []byte {
	return ed25519.Sign(i.private, message)
}

// VerifyIdentitySignature checks an ed25519 signature against a raw public
// key using the consensus-safe verifier.
func VerifyIdentitySignature(publicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519consensus.Verify(ed25519.PublicKey(publicKey), message, signature)
}
