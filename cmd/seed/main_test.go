package main

import (
	"context"
	"testing"
	"time"

	"food_share/internal/common/security"
	"food_share/internal/domain/model"
	"food_share/internal/domain/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	admin := seedUser{Username: "root", Email: "root@example.com", Password: "rootpass", Role: model.RoleAdmin}

	require.NoError(t, seed(ctx, store.Users(), store.FoodPosts(), admin, now))
	require.NoError(t, seed(ctx, store.Users(), store.FoodPosts(), admin, now))

	users, err := store.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, 2, store.PostCount())

	root, err := store.Users().FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, root.Role)
	assert.True(t, security.CheckPasswordHash("rootpass", root.HashedPassword))

	john, err := store.Users().FindByUsername(ctx, "john_doe")
	require.NoError(t, err)
	posts, err := store.FoodPosts().List(ctx)
	require.NoError(t, err)
	for _, p := range posts {
		assert.Equal(t, john.ID, p.DonorID)
		assert.True(t, p.ExpiryDate.After(now))
	}
}
