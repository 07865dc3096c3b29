package services_test

import (
	"testing"

	"portfolio/internal/apperrors"
	"portfolio/internal/models"
	"portfolio/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin(t *testing.T) {
	assert.ErrorIs(t, services.RequireAdmin(services.Anonymous()), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, services.RequireAdmin(services.Identity{User: &models.User{Username: "u"}}), apperrors.ErrUnauthorized)
	assert.NoError(t, services.RequireAdmin(services.Identity{User: &models.User{Username: "a", IsAdmin: true}}))
}

func TestCredentials(t *testing.T) {
	user := &models.User{Username: "u"}
	assert.False(t, services.VerifyCredential(user, ""), "no hash denies access")

	require.NoError(t, services.SetCredential(user, "pw"))
	assert.NotEqual(t, "pw", user.PasswordHash)
	assert.True(t, services.VerifyCredential(user, "pw"))
	assert.False(t, services.VerifyCredential(user, "PW"))

	assert.ErrorIs(t, services.SetCredential(user, ""), apperrors.ErrValidation)

	user.PasswordHash = "not-a-bcrypt-hash"
	assert.False(t, services.VerifyCredential(user, "pw"))
	assert.False(t, services.VerifyCredential(nil, "pw"))
}
