package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	password := "correct-horse-battery-staple"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=1$") {
		t.Errorf("hash should be an argon2id PHC string, got %q", hash)
	}
	if strings.Contains(hash, password) {
		t.Error("hash must not contain the plaintext")
	}

	ok, err := VerifyPassword(password, hash)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("VerifyPassword() should return true for correct password")
	}
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	for _, candidate := range []string{"wrong-password", "correct-passwor", ""} {
		ok, err := VerifyPassword(candidate, hash)
		if err != nil {
			t.Fatalf("VerifyPassword(%q) error = %v, want nil on mismatch", candidate, err)
		}
		if ok {
			t.Errorf("VerifyPassword(%q) = true, want false", candidate)
		}
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	hash2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash1 == hash2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("HashPassword(\"\") error = %v, want ErrEmptyPassword", err)
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not PHC", "plaintext"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA"},
		{"too few parts", "$argon2id$v=19$m=65536,t=3,p=1"},
		{"wrong version", "$argon2id$v=16$m=65536,t=3,p=1$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=3,p=1$!!!$aGFzaA"},
		{"zero iterations", "$argon2id$v=19$m=65536,t=0,p=1$c2FsdA$aGFzaA"},
		{"unknown parameter", "$argon2id$v=19$m=65536,t=3,x=1$c2FsdA$aGFzaA"},
		{"empty key", "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword("password", tt.hash)
			if !errors.Is(err, ErrMalformedHash) {
				t.Errorf("VerifyPassword() error = %v, want ErrMalformedHash", err)
			}
			if ok {
				t.Error("VerifyPassword() must not report a match for a malformed hash")
			}
		})
	}
}

func TestHasher_CustomParams(t *testing.T) {
	cheap := NewHasher(ArgonParams{Time: 1, Memory: 8 * 1024, Threads: 2, KeyLen: 16, SaltLen: 8})

	hash, err := cheap.Hash("cheap-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=2$") {
		t.Errorf("hash = %q, want the custom parameters recorded", hash)
	}

	// The default verifier reads the parameters from the hash itself.
	ok, err := VerifyPassword("cheap-password", hash)
	if err != nil || !ok {
		t.Errorf("VerifyPassword() = %v, %v, want true", ok, err)
	}

	parsed, err := parsePHC(hash)
	if err != nil {
		t.Fatalf("parsePHC() error = %v", err)
	}
	if parsed.params.KeyLen != 16 || parsed.params.SaltLen != 8 {
		t.Errorf("params = %+v", parsed.params)
	}
}
