// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateShareToken(t *testing.T) {
	token, err := GenerateShareToken()
	if err != nil {
		t.Fatalf("GenerateShareToken() error = %v", err)
	}

	if strings.Contains(token, "=") {
		t.Error("GenerateShareToken() contains padding characters")
	}
	if len(token) < 30 {
		t.Errorf("GenerateShareToken() too short: %d chars", len(token))
	}

	tokens := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateShareToken()
		if err != nil {
			t.Fatalf("GenerateShareToken() error on iteration %d: %v", i, err)
		}
		if tokens[token] {
			t.Errorf("GenerateShareToken() produced duplicate token: %s", token)
		}
		tokens[token] = true
	}
}

func TestGenerateSessionToken(t *testing.T) {
	token := GenerateSessionToken("user-1", "salt")

	if !strings.HasPrefix(token, "user-1.") {
		t.Errorf("GenerateSessionToken() = %q, want user-1 prefix", token)
	}
	if token != GenerateSessionToken("user-1", "salt") {
		t.Error("GenerateSessionToken() is not deterministic")
	}
	if token == GenerateSessionToken("user-2", "salt") {
		t.Error("GenerateSessionToken() produced same token for different users")
	}
	if strings.Contains(token, "=") {
		t.Error("GenerateSessionToken() contains padding characters")
	}
}

func TestValidateSessionToken(t *testing.T) {
	salt := "test-salt"
	valid := GenerateSessionToken("user.with.dots", salt)

	tests := []struct {
		name    string
		token   string
		salt    string
		wantID  string
		wantErr bool
	}{
		{"valid token", valid, salt, "user.with.dots", false},
		{"wrong salt", valid, "other-salt", "", true},
		{"tampered user", "someone-else" + valid[strings.LastIndex(valid, "."):], salt, "", true},
		{"no separator", "garbage", salt, "", true},
		{"empty signature", "user.", salt, "", true},
		{"empty user", ".sig", salt, "", true},
		{"empty", "", salt, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ValidateSessionToken(tt.token, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSessionToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidSessionToken {
				t.Errorf("ValidateSessionToken() error = %v, want %v", err, ErrInvalidSessionToken)
			}
			if id.UserID != tt.wantID {
				t.Errorf("ValidateSessionToken() user = %q, want %q", id.UserID, tt.wantID)
			}
		})
	}
}

func TestFromRequest(t *testing.T) {
	salt := "test-salt"
	token := GenerateSessionToken("user-1", salt)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"valid bearer", "Bearer " + token, nil},
		{"missing header", "", ErrMissingSessionToken},
		{"wrong scheme", "Basic " + token, ErrInvalidSessionToken},
		{"empty bearer", "Bearer ", ErrInvalidSessionToken},
		{"bad token", "Bearer user-1.nope", ErrInvalidSessionToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/clients", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			id, err := FromRequest(req, salt)
			if err != tt.wantErr {
				t.Fatalf("FromRequest() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && id.UserID != "user-1" {
				t.Errorf("FromRequest() user = %q, want user-1", id.UserID)
			}
			if tt.wantErr != nil && !id.IsZero() {
				t.Errorf("FromRequest() returned identity %v on error", id)
			}
		})
	}
}

// Benchmark tests
func BenchmarkGenerateSessionToken(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateSessionToken("user-123", "test-salt")
	}
}

func BenchmarkValidateSessionToken(b *testing.B) {
	token := GenerateSessionToken("user-123", "test-salt")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ValidateSessionToken(token, "test-salt")
	}
}

func BenchmarkGenerateShareToken(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateShareToken()
	}
}
