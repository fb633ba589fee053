// Package password hashes and checks account passwords with bcrypt, and
// generates temporary passwords for admin-created accounts.
package password

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	dErrors "portal/pkg/domain-errors"
)

// MinLength is the minimum password length accepted for new accounts.
const MinLength = 8

// Generate creates a random temporary password.
func Generate() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CheckStrength rejects passwords that are too short for a new account.
func CheckStrength(plain string) error {
	if utf8.RuneCountInString(plain) < MinLength {
		return dErrors.Field("password", fmt.Sprintf("la contraseña debe tener al menos %d caracteres", MinLength))
	}
	return nil
}

// Hash creates a bcrypt hash of the password.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks a plaintext password against a bcrypt hash.
func Verify(plain, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeInvalidInput, "invalid password")
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
	return nil
}
