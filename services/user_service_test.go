// services/user_service_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-reservation/models"
	"hotel-reservation/services"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewUserService(db)

	user, err := svc.Register("Alice", "alice@example.com", "secret123", models.RoleUser)
	require.NoError(t, err)
	assert.NotEmpty(t, user.APIToken)
	assert.NotEqual(t, "secret123", user.Password)

	_, err = svc.Register("Alice Again", "alice@example.com", "secret123", models.RoleUser)
	assert.ErrorIs(t, err, services.ErrDuplicateName)

	authed, err := svc.Authenticate("alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
	// Login rotates the token.
	assert.NotEqual(t, user.APIToken, authed.APIToken)

	resolved, err := svc.FindByToken(authed.APIToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = svc.Authenticate("alice@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = svc.Authenticate("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = svc.FindByToken(user.APIToken)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
