package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/lib/tokens"
)

func TestCreateUserAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "bendahari1", "rahsia123", "Encik Bendahari", common.RoleBendahari)
	require.NoError(t, err)
	assert.NotEqual(t, "rahsia123", user.Password)

	_, err = svc.CreateUser(ctx, "bendahari1", "rahsia123", "", common.RoleBendahari)
	assert.True(t, IsValidationError(err))
	_, err = svc.CreateUser(ctx, "pendek", "123", "", common.RoleStaff)
	assert.True(t, IsValidationError(err))
	_, err = svc.CreateUser(ctx, "tukang", "rahsia123", "", "tukang_masak")
	assert.True(t, IsValidationError(err))

	token, logged, err := svc.GenerateToken(ctx, "bendahari1", "rahsia123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	claims, err := tokens.ParseAccessToken(svc.Config.JWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, common.RoleBendahari, claims.Role)

	_, _, err = svc.GenerateToken(ctx, "bendahari1", "salah")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, _, err = svc.GenerateToken(ctx, "tiada", "rahsia123")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.SetUserDeactivated(ctx, user.ID, true)
	require.NoError(t, err)
	_, _, err = svc.GenerateToken(ctx, "bendahari1", "rahsia123")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}
