package services

import (
	"fmt"

	"portfolio/internal/apperrors"
	"portfolio/internal/models"
)

// Identity is the resolved user of a request, or anonymous when User is nil.
type Identity struct {
	User *models.User
}

// Anonymous returns the identity of a request without a valid session.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated reports whether the identity has a signed-in user.
func (i Identity) Authenticated() bool {
	return i.User != nil
}

// IsAdmin reports whether the identity is a signed-in administrator.
func (i Identity) IsAdmin() bool {
	return i.User != nil && i.User.IsAdmin
}

// RequireAdmin fails with ErrUnauthorized unless identity is an
// authenticated administrator.
func RequireAdmin(identity Identity) error {
	if !identity.Authenticated() {
		return fmt.Errorf("not signed in: %w", apperrors.ErrUnauthorized)
	}
	if !identity.User.IsAdmin {
		return fmt.Errorf("user %s is not an administrator: %w", identity.User.Username, apperrors.ErrUnauthorized)
	}
	return nil
}
