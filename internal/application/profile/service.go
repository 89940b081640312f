// Package profile provides the application layer for managing user
// preference profiles
package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/application/feedback"
	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/ports/inbound"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	"github.com/pantrypilot/v1/pkg/errors"
)

// Service implements the profile use cases
type Service struct {
	profiles outbound.ProfileRepository
	logger   *zap.Logger
}

// NewService creates a new profile service
func NewService(profiles outbound.ProfileRepository, logger *zap.Logger) inbound.ProfileService {
	return &Service{
		profiles: profiles,
		logger:   logger.Named("profile-service"),
	}
}

// Register creates a profile with neutral defaults
func (s *Service) Register(ctx context.Context, cmd inbound.RegisterUserCommand) (*inbound.ProfileSummary, error) {
	if cmd.UserID == "" {
		return nil, errors.NewValidationError("user_id is required")
	}

	p := preference.NewProfile(cmd.UserID)
	p.Restrictions = cmd.Restrictions

	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Profile registered",
		zap.String("user_id", cmd.UserID),
		zap.String("diet", cmd.Restrictions.Diet),
	)
	return feedback.Summarize(p), nil
}

// GetProfile returns the stored profile
func (s *Service) GetProfile(ctx context.Context, userID string) (*preference.Profile, error) {
	return s.profiles.FindByUserID(ctx, userID)
}

// ListUsers returns every registered user ID
func (s *Service) ListUsers(ctx context.Context) ([]string, error) {
	return s.profiles.ListUserIDs(ctx)
}

// UpdateRestrictions replaces the user's dietary restrictions. Hard
// constraints are declared, never learned, so this is the only write
// path for them.
func (s *Service) UpdateRestrictions(ctx context.Context, userID string, restrictions preference.DietaryRestrictions) (*inbound.ProfileSummary, error) {
	updated, err := s.profiles.UpdateAtomic(ctx, userID, func(p *preference.Profile) error {
		p.Restrictions = restrictions
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Restrictions updated",
		zap.String("user_id", userID),
		zap.String("diet", restrictions.Diet),
	)
	return feedback.Summarize(updated), nil
}
