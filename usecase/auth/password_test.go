package auth

import (
	"testing"

	"github.com/taskforge/backend/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "Secret123!" {
		t.Fatal("hash must not equal the plain password")
	}

	if !VerifyPassword("Secret123!", hash) {
		t.Error("correct password should verify")
	}
	if VerifyPassword("secret123!", hash) {
		t.Error("wrong password should not verify")
	}
	if VerifyPassword("", hash) {
		t.Error("empty password should not verify")
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	if VerifyPassword("Secret123!", "not-a-bcrypt-hash") {
		t.Error("garbage hash should never verify")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"ok", "Secret123!", true},
		{"too short", "Ab1!", false},
		{"no uppercase", "secret123!", false},
		{"no lowercase", "SECRET123!", false},
		{"no digit", "Secretpwd!", false},
		{"no special", "Secret1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
					t.Errorf("expected INVALID code, got %v", err)
				}
			}
		})
	}
}
