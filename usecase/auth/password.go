package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/backend/domain"
)

const specialRunes = `!@#$%^&*(),.?":{}|<>`

// HashPassword derives a salted one-way hash of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
// A mismatch is not an error condition.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the registration password policy.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return domain.NewError(domain.ErrCodeInvalid, "password must be at least 8 characters long")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialRunes, r):
			special = true
		}
	}

	switch {
	case !upper:
		return domain.NewError(domain.ErrCodeInvalid, "password must contain at least one uppercase letter")
	case !lower:
		return domain.NewError(domain.ErrCodeInvalid, "password must contain at least one lowercase letter")
	case !digit:
		return domain.NewError(domain.ErrCodeInvalid, "password must contain at least one number")
	case !special:
		return domain.NewError(domain.ErrCodeInvalid, "password must contain at least one special character")
	}
	return nil
}
