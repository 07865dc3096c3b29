package services

import (
	"fmt"

	"portfolio/internal/apperrors"
	"portfolio/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// SetCredential replaces the user's stored password hash.
func SetCredential(user *models.User, plaintext string) error {
	if plaintext == "" {
		return fmt.Errorf("password is empty: %w", apperrors.ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	return nil
}

// VerifyCredential reports whether plaintext matches the stored hash. Any
// comparison failure, including a malformed hash, denies access.
func VerifyCredential(user *models.User, plaintext string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}
