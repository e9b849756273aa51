package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered, err := f.auth.Register(ctx, RegisterInput{
		Email:     "new@example.com",
		Password:  "hunter22",
		FirstName: "New",
		LastName:  "Person",
		Role:      "seller",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, registered.User.Role)
	assert.NotEqual(t, "hunter22", registered.User.PasswordHash)

	session, err := f.auth.Login(ctx, "new@example.com", "hunter22")
	require.NoError(t, err)
	claims, err := f.auth.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	_, err = f.auth.Login(ctx, "new@example.com", "wrong")
	requireCode(t, err, apperrors.CodeUnauthorized)
	_, err = f.auth.Login(ctx, "nobody@example.com", "hunter22")
	requireCode(t, err, apperrors.CodeUnauthorized)
}

func TestRegisterDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.auth.Register(ctx, RegisterInput{Email: "plain@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBuyer, session.User.Role)

	_, err = f.auth.Register(ctx, RegisterInput{Email: "PLAIN@example.com", Password: "pw"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.auth.Register(ctx, RegisterInput{Email: "boss@example.com", Password: "pw", Role: "admin"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.auth.Register(ctx, RegisterInput{Email: "odd@example.com", Password: "pw", Role: "landlord"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.auth.Register(ctx, RegisterInput{Email: "no-at-sign", Password: "pw"})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = f.auth.Register(ctx, RegisterInput{Email: "nopw@example.com"})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestCreateAdminAndMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.auth.CreateAdmin(ctx, RegisterInput{Email: "root@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	me, err := f.auth.Me(ctx, admin.Actor())
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", me.Email)

	_, err = f.auth.Me(ctx, nil)
	requireCode(t, err, apperrors.CodeUnauthorized)
}
