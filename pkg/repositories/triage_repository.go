package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/database"
	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// TriageRepository provides data access for triage requests.
type TriageRepository interface {
	Create(ctx context.Context, req *models.TriageRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TriageRequest, error)
	ListByUser(ctx context.Context, userID string) ([]*models.TriageRequest, error)
	// Update writes the non-nil fields of update and refreshes updated_at.
	// Answers, when set, replace the stored bag wholesale.
	Update(ctx context.Context, id uuid.UUID, update *models.TriageUpdate) (*models.TriageRequest, error)
}

type triageRepository struct {
	db *database.DB
}

// NewTriageRepository creates a new TriageRepository.
func NewTriageRepository(db *database.DB) TriageRepository {
	return &triageRepository{db: db}
}

var _ TriageRepository = (*triageRepository)(nil)

const triageColumns = `id, user_id, status, title, conversation_id, answers, recommendation, created_at, updated_at`

func (r *triageRepository) Create(ctx context.Context, req *models.TriageRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Answers == nil {
		req.Answers = models.Answers{}
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	recommendationJSON, err := marshalRecommendation(req.Recommendation)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO triage_requests (id, user_id, status, title, conversation_id, answers, recommendation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		req.ID, req.UserID, string(req.Status), req.Title, req.ConversationID, answersJSON, recommendationJSON,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create triage request: %w", err)
	}

	return nil
}

func (r *triageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TriageRequest, error) {
	query := `SELECT ` + triageColumns + ` FROM triage_requests WHERE id = $1`

	req, err := scanTriageRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *triageRepository) ListByUser(ctx context.Context, userID string) ([]*models.TriageRequest, error) {
	query := `
		SELECT ` + triageColumns + `
		FROM triage_requests
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list triage requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.TriageRequest, 0)
	for rows.Next() {
		req, err := scanTriageRow(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating triage requests: %w", err)
	}

	return requests, nil
}

func (r *triageRepository) Update(ctx context.Context, id uuid.UUID, update *models.TriageUpdate) (*models.TriageRequest, error) {
	var status *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}

	var answersJSON []byte
	if update.Answers != nil {
		var err error
		answersJSON, err = json.Marshal(update.Answers)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal answers: %w", err)
		}
	}

	recommendationJSON, err := marshalRecommendation(update.Recommendation)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE triage_requests
		SET title = COALESCE($2, title),
		    status = COALESCE($3, status),
		    answers = COALESCE($4::jsonb, answers),
		    recommendation = COALESCE($5::jsonb, recommendation),
		    updated_at = clock_timestamp()
		WHERE id = $1
		RETURNING ` + triageColumns

	req, err := scanTriageRow(r.db.QueryRow(ctx, query, id, update.Title, status, answersJSON, recommendationJSON))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func marshalRecommendation(rec *models.Recommendation) ([]byte, error) {
	if rec == nil {
		return nil, nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommendation: %w", err)
	}
	return data, nil
}

func scanTriageRow(row pgx.Row) (*models.TriageRequest, error) {
	var req models.TriageRequest
	var status string
	var answersJSON, recommendationJSON []byte

	err := row.Scan(
		&req.ID, &req.UserID, &status, &req.Title, &req.ConversationID,
		&answersJSON, &recommendationJSON, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan triage request: %w", err)
	}
	req.Status = models.TriageStatus(status)

	req.Answers = models.Answers{}
	if len(answersJSON) > 0 {
		if err := json.Unmarshal(answersJSON, &req.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
	}

	if len(recommendationJSON) > 0 {
		var rec models.Recommendation
		if err := json.Unmarshal(recommendationJSON, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendation: %w", err)
		}
		req.Recommendation = &rec
	}

	return &req, nil
}
