package service

import (
	"context"
	"testing"

	"oneflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDeleteDeactivatesManagers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewUserService(db)

	pm := seedUser(t, db, "pm", model.RoleProjectManager)
	seedProject(t, db, "alpha", pm.ID)

	require.NoError(t, svc.Delete(ctx, pm.ID))

	// still present, just inactive, so the project keeps its manager
	var got model.User
	require.NoError(t, db.First(&got, pm.ID).Error)
	assert.False(t, got.IsActive)
}

func TestUserDeleteRemovesNonManagers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewUserService(db)

	u := seedUser(t, db, "member", model.RoleTeamMember)
	require.NoError(t, svc.Delete(ctx, u.ID))

	var count int64
	db.Model(&model.User{}).Where("id = ?", u.ID).Count(&count)
	assert.Zero(t, count)
}

func TestUserCreateHashesPassword(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewUserService(db)

	u := model.User{Name: "Fin", Email: "fin@oneflow.test", Role: model.RoleFinance}
	require.NoError(t, svc.Create(ctx, &u, "hunter22"))
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "hunter22", u.Password)

	err := svc.Create(ctx, &model.User{Name: "Dup", Email: "fin@oneflow.test"}, "x")
	assert.ErrorIs(t, err, ErrInvalid)
}
