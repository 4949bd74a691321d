// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

// PollIDLength is the number of characters in a public poll ID
const PollIDLength = 10

const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var ErrEmptySalt = errors.New("identity salt must not be empty")

// GeneratePollID creates a random URL-safe base62 ID of PollIDLength characters
func GeneratePollID() (string, error) {
	return GenerateID(PollIDLength)
}

// GenerateID creates a random base62 ID with the given number of characters.
// Each character is drawn uniformly so the alphabet has no modulo bias.
func GenerateID(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid ID length %d", length)
	}
	max := big.NewInt(int64(len(base62Chars)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random ID: %w", err)
		}
		b[i] = base62Chars[n.Int64()]
	}
	return string(b), nil
}

// HashIdentity creates a one-way token for a raw identity signal (a client address).
// HMAC keyed by the process salt, so tokens cannot be reversed or precomputed.
// Tokens from different salts never match.
func HashIdentity(signal, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(signal))
	return hex.EncodeToString(h.Sum(nil))
}

// Hasher binds HashIdentity to a fixed salt for the lifetime of the process
type Hasher struct {
	salt string
}

// NewHasher returns a Hasher for salt. An empty salt is rejected.
func NewHasher(salt string) (*Hasher, error) {
	if salt == "" {
		return nil, ErrEmptySalt
	}
	return &Hasher{salt: salt}, nil
}

// Hash returns the identity token for signal
func (h *Hasher) Hash(signal string) string {
	return HashIdentity(signal, h.salt)
}
