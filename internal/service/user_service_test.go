package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

func TestUserAdministration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	users, err := f.users.List(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, users, 5)
	assert.Equal(t, f.buyer2.ID, users[0].ID)

	stats, err := f.users.Stats(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalUsers)
	assert.Equal(t, int64(5), stats.RecentUsers)
	assert.Equal(t, []domain.RoleCount{
		{Role: domain.RoleAdmin, Count: 1},
		{Role: domain.RoleBuyer, Count: 2},
		{Role: domain.RoleSeller, Count: 2},
	}, stats.UsersByRole)

	require.NoError(t, f.users.UpdateRole(ctx, f.admin, f.buyer.ID, "seller"))
	promoted, err := f.store.Users().GetByID(ctx, f.buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, promoted.Role)

	requireCode(t, f.users.UpdateRole(ctx, f.admin, f.buyer.ID, "owner"), apperrors.CodeValidation)
	assert.NoError(t, f.users.UpdateRole(ctx, f.admin, uuid.NewString(), "buyer"))
}

func TestUserAdministrationIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, actor := range []*domain.Actor{f.buyer, f.seller} {
		_, err := f.users.List(ctx, actor)
		requireCode(t, err, apperrors.CodeForbidden)
		_, err = f.users.Stats(ctx, actor)
		requireCode(t, err, apperrors.CodeForbidden)
		requireCode(t, f.users.UpdateRole(ctx, actor, actor.ID, "admin"), apperrors.CodeForbidden)
	}
	_, err := f.users.List(ctx, nil)
	requireCode(t, err, apperrors.CodeUnauthorized)
}
