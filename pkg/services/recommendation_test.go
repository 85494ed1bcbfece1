package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/llm"
	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// seedConversational stores a draft request with a conversation holding msgs (alternating user/assistant).
func seedConversational(t *testing.T, triageRepo *fakeTriageRepo, convRepo *fakeConversationRepo, msgs ...string) *models.TriageRequest {
	t.Helper()
	ctx := context.Background()

	conv, err := convRepo.Create(ctx, models.DefaultConversationTitle)
	require.NoError(t, err)
	for i, m := range msgs {
		role := models.ChatRoleUser
		if i%2 == 1 {
			role = models.ChatRoleAssistant
		}
		_, err := convRepo.AddMessage(ctx, conv.ID, role, m)
		require.NoError(t, err)
	}

	req := &models.TriageRequest{
		ID:             uuid.New(),
		UserID:         models.DemoUserID,
		Status:         models.TriageStatusDraft,
		Title:          models.DefaultTriageTitle,
		ConversationID: &conv.ID,
	}
	triageRepo.put(req)
	return req
}

func TestRecommendationService_Regenerate(t *testing.T) {
	triageRepo, convRepo := newFakeTriageRepo(), newFakeConversationRepo()
	req := seedConversational(t, triageRepo, convRepo, "We need a migration delivered by a team", "Sounds like a SoW")
	client := llm.NewScriptedMockLLMClient(`{"routes":[{"type":"sow","title":"Statement of Work","description":"Outcome based","pros":["fixed price"],"cons":["scoping effort"],"matchScore":85}],"summary":"SoW fits a defined outcome."}`)
	svc := NewRecommendationService(triageRepo, convRepo, client, zap.NewNop())

	rec, err := svc.Regenerate(context.Background(), req.ID)

	require.NoError(t, err)
	require.Len(t, rec.Routes, 1)
	assert.Equal(t, models.RouteTypeSOW, rec.Routes[0].Type)
	assert.Equal(t, 85, rec.Routes[0].MatchScore)
	assert.Equal(t, "SoW fits a defined outcome.", rec.Summary)

	stored, err := triageRepo.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TriageStatusCompleted, stored.Status)
	assert.Equal(t, rec.Routes, stored.Recommendation.Routes)

	sent := client.Requests()
	require.Len(t, sent, 1)
	assert.True(t, sent[0].JSONMode)
	assert.Contains(t, sent[0].Messages[0].Content, "We need a migration delivered by a team")
}

func TestRecommendationService_Regenerate_UnreadableReplyUsesPlaceholder(t *testing.T) {
	triageRepo, convRepo := newFakeTriageRepo(), newFakeConversationRepo()
	req := seedConversational(t, triageRepo, convRepo, "hello")
	svc := NewRecommendationService(triageRepo, convRepo, llm.NewScriptedMockLLMClient("I cannot help with that"), zap.NewNop())

	rec, err := svc.Regenerate(context.Background(), req.ID)

	require.NoError(t, err)
	assert.Equal(t, models.PlaceholderRecommendation(), rec)
	assert.Equal(t, models.RoutePriorityPrimary, rec.Routes[0].Priority)

	stored, err := triageRepo.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TriageStatusCompleted, stored.Status)
}

func TestRecommendationService_Regenerate_NotFound(t *testing.T) {
	client := llm.NewMockLLMClient()
	svc := NewRecommendationService(newFakeTriageRepo(), newFakeConversationRepo(), client, zap.NewNop())

	_, err := svc.Regenerate(context.Background(), uuid.New())

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, client.Calls())
}

func TestRecommendationService_Regenerate_UpstreamError(t *testing.T) {
	triageRepo, convRepo := newFakeTriageRepo(), newFakeConversationRepo()
	req := seedConversational(t, triageRepo, convRepo, "hello")
	client := llm.NewMockLLMClient()
	client.GenerateResponseFunc = func(ctx context.Context, r *llm.Request) (*llm.GenerateResponseResult, error) {
		return nil, errors.New("rate limited")
	}
	svc := NewRecommendationService(triageRepo, convRepo, client, zap.NewNop())

	_, err := svc.Regenerate(context.Background(), req.ID)

	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Empty(t, triageRepo.updates)
}
