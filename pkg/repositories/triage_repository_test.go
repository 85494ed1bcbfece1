//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/testhelpers"
)

// triageTestContext holds test dependencies for triage repository tests.
type triageTestContext struct {
	t        *testing.T
	engineDB *testhelpers.EngineDB
	repo     TriageRepository
	convRepo ConversationRepository
	userID   string
}

func setupTriageTest(t *testing.T) *triageTestContext {
	engineDB := testhelpers.GetEngineDB(t)
	tc := &triageTestContext{
		t:        t,
		engineDB: engineDB,
		repo:     NewTriageRepository(engineDB.DB),
		convRepo: NewConversationRepository(engineDB.DB),
		userID:   "triage-repo-" + uuid.NewString(),
	}
	t.Cleanup(tc.cleanup)
	return tc
}

func (tc *triageTestContext) cleanup() {
	_, err := tc.engineDB.DB.Exec(context.Background(), `DELETE FROM triage_requests WHERE user_id = $1`, tc.userID)
	if err != nil {
		tc.t.Errorf("failed to cleanup triage requests: %v", err)
	}
}

func (tc *triageTestContext) createRequest(title string) *models.TriageRequest {
	tc.t.Helper()
	ctx := context.Background()

	conv, err := tc.convRepo.Create(ctx, title)
	require.NoError(tc.t, err)

	req := &models.TriageRequest{
		UserID:         tc.userID,
		Status:         models.TriageStatusDraft,
		Title:          title,
		ConversationID: &conv.ID,
		Answers:        models.Answers{},
	}
	require.NoError(tc.t, tc.repo.Create(ctx, req))
	return req
}

func TestTriageRepository_CreateAndGet(t *testing.T) {
	tc := setupTriageTest(t)
	ctx := context.Background()

	created := tc.createRequest(models.DefaultTriageTitle)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := tc.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TriageStatusDraft, got.Status)
	assert.Equal(t, models.DefaultTriageTitle, got.Title)
	assert.Empty(t, got.Answers)
	assert.Nil(t, got.Recommendation)
	require.NotNil(t, got.ConversationID)
	assert.Equal(t, *created.ConversationID, *got.ConversationID)
}

func TestTriageRepository_GetByID_NotFound(t *testing.T) {
	tc := setupTriageTest(t)

	_, err := tc.repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTriageRepository_ListByUser_NewestFirst(t *testing.T) {
	tc := setupTriageTest(t)

	first := tc.createRequest("first")
	second := tc.createRequest("second")

	list, err := tc.repo.ListByUser(context.Background(), tc.userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestTriageRepository_Update_PartialFields(t *testing.T) {
	tc := setupTriageTest(t)
	ctx := context.Background()

	created := tc.createRequest(models.DefaultTriageTitle)

	status := models.TriageStatusInProgress
	rec := &models.Recommendation{
		Routes: []models.Route{{
			Type: models.RouteTypeIndependent, Title: "Independent Contractor",
			Pros: []string{}, Cons: []string{}, Priority: models.RoutePriorityPrimary,
		}},
		Summary: "Specialist React work",
	}
	updated, err := tc.repo.Update(ctx, created.ID, &models.TriageUpdate{
		Status:         &status,
		Answers:        models.Answers{"role": "React Developer", "budget_approved": true},
		Recommendation: rec,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TriageStatusInProgress, updated.Status)
	assert.Equal(t, models.DefaultTriageTitle, updated.Title, "title untouched")
	assert.Equal(t, "React Developer", updated.Answers["role"])
	assert.Equal(t, true, updated.Answers["budget_approved"])
	require.NotNil(t, updated.Recommendation)
	assert.Equal(t, models.RouteTypeIndependent, updated.Recommendation.Routes[0].Type)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	// An empty update still refreshes updated_at.
	again, err := tc.repo.Update(ctx, created.ID, &models.TriageUpdate{})
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))
	assert.Equal(t, "React Developer", again.Answers["role"])
}

func TestTriageRepository_Update_NotFound(t *testing.T) {
	tc := setupTriageTest(t)

	_, err := tc.repo.Update(context.Background(), uuid.New(), &models.TriageUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
