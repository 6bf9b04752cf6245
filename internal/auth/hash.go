// Package auth provides credential hashing, session-token minting and
// verification, and the identity-resolution middleware for the API.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Hasher computes the stored digest for a credential.
//
// The digest is SHA3-256 over name + secret + salt, hex encoded. It is
// deterministic on purpose: verification is a straight equality check against
// the stored digest, so the same (name, secret, salt) must always produce the
// same output. The account name is part of the input, which means two users
// with the same password still get different digests.
//
// The salt is process-wide (SALT env var), injected once at startup and
// never read from ambient state afterwards.
type Hasher struct {
	salt string
}

// NewHasher creates a Hasher with the given process-wide salt.
func NewHasher(salt string) (*Hasher, error) {
	if salt == "" {
		return nil, errors.New("auth: hash salt must not be empty")
	}
	return &Hasher{salt: salt}, nil
}

// Hash returns the hex digest for the given account name and secret.
func (h *Hasher) Hash(name, secret string) string {
	sum := sha3.Sum256([]byte(name + secret + h.salt))
	return fmt.Sprintf("%x", sum)
}

// Verify reports whether the supplied secret reproduces the stored digest.
func (h *Hasher) Verify(storedDigest, name, secret string) bool {
	return h.Hash(name, secret) == storedDigest
}
