package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/repositories"
)

// UserService defines the interface for user operations.
type UserService interface {
	// Upsert records the user, keeping stored profile fields the new record leaves empty.
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
}

// userService implements UserService.
type userService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service with dependencies.
func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.Named("user-service"),
	}
}

var _ UserService = (*userService)(nil)

func (s *userService) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return nil, apperrors.Validation("User id is required")
	}
	saved, err := s.userRepo.Upsert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return saved, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapRepoError("get user", "User not found", err)
	}
	return user, nil
}
