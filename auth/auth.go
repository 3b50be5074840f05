// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidSessionToken = errors.New("invalid session token")
	ErrMissingSessionToken = errors.New("missing session token")
)

// Identity is the already-authenticated caller. The zero value means no session.
type Identity struct {
	UserID string
}

// IsZero reports whether there is no authenticated user.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateShareToken creates a random, unguessable token for a public share link.
// Tokens are random rather than derived from the proposal ID so that a revoked
// link stays dead after sharing is enabled again.
func GenerateShareToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateSessionToken signs a user ID with HMAC-SHA256.
// Format: <userID>.<signature>
func GenerateSessionToken(userID, salt string) string {
	return userID + "." + sign(userID, salt)
}

// ValidateSessionToken verifies a token produced by GenerateSessionToken and
// returns the identity it carries.
func ValidateSessionToken(token, salt string) (Identity, error) {
	i := strings.LastIndex(token, ".")
	if i <= 0 || i == len(token)-1 {
		return Identity{}, ErrInvalidSessionToken
	}
	userID, sig := token[:i], token[i+1:]

	if !hmac.Equal([]byte(sig), []byte(sign(userID, salt))) {
		return Identity{}, ErrInvalidSessionToken
	}
	return Identity{UserID: userID}, nil
}

// FromRequest reads "Authorization: Bearer <token>" and validates it.
func FromRequest(r *http.Request, salt string) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, ErrMissingSessionToken
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return Identity{}, ErrInvalidSessionToken
	}
	return ValidateSessionToken(strings.TrimSpace(token), salt)
}

func sign(userID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(userID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}
