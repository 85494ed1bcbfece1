//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/testhelpers"
)

func TestUserRepository_UpsertKeepsExistingFields(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewUserRepository(engineDB.DB)
	ctx := context.Background()

	saved, err := repo.Upsert(ctx, models.DemoUser())
	require.NoError(t, err)
	assert.Equal(t, models.DemoUserID, saved.ID)
	assert.Equal(t, "Demo", saved.FirstName)

	// A sparse upsert must not erase the stored profile.
	again, err := repo.Upsert(ctx, &models.User{ID: models.DemoUserID, Email: "demo@retinuesolutions.com"})
	require.NoError(t, err)
	assert.Equal(t, "Demo", again.FirstName)
	assert.Equal(t, "Demo User", again.Username)

	got, err := repo.GetByID(ctx, models.DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, "User", got.LastName)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewUserRepository(engineDB.DB)

	_, err := repo.GetByID(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
