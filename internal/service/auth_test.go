package service

import (
	"context"
	"testing"

	"example.com/socialmedia/internal/models"
	"example.com/socialmedia/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSignUpStoresHashedPassword(t *testing.T) {
	m := store.NewMock()
	auth := NewAuthService(m, bcrypt.MinCost)
	ctx := context.Background()

	user, err := auth.SignUp(ctx, "almaz", "almaz@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	stored, err := m.GetUserByUsername(ctx, "almaz")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	roles, err := m.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleUser}, roles)
}

func TestSignUpDuplicates(t *testing.T) {
	m := store.NewMock()
	auth := NewAuthService(m, bcrypt.MinCost)
	ctx := context.Background()

	_, err := auth.SignUp(ctx, "almaz", "almaz@example.com", "secret1")
	require.NoError(t, err)

	_, err = auth.SignUp(ctx, "almaz", "other@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrUsernameTaken)

	_, err = auth.SignUp(ctx, "nur", "almaz@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrEmailInUse)

	// Exactly one user row exists.
	users, err := m.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSignUpValidation(t *testing.T) {
	m := store.NewMock()
	auth := NewAuthService(m, bcrypt.MinCost)

	_, err := auth.SignUp(context.Background(), "", "bad", "x")

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "username")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")
}

func TestSignInChecksCredentials(t *testing.T) {
	m := store.NewMock()
	auth := NewAuthService(m, bcrypt.MinCost)
	ctx := context.Background()

	created, err := auth.SignUp(ctx, "almaz", "almaz@example.com", "secret1")
	require.NoError(t, err)

	user, roles, err := auth.SignIn(ctx, "almaz", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, []string{models.RoleUser}, roles)

	_, _, err = auth.SignIn(ctx, "almaz", "wrong")
	assert.ErrorIs(t, err, models.ErrBadCredentials)

	// Unknown username reports the same error as a wrong password.
	_, _, err = auth.SignIn(ctx, "ghost", "secret1")
	assert.ErrorIs(t, err, models.ErrBadCredentials)
}
