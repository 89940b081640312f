// Package dailyjob provides the nightly batch pass that keeps
// preference profiles current
package dailyjob

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/ports/inbound"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	apperrors "github.com/pantrypilot/v1/pkg/errors"
)

// Service implements the daily preference-maintenance pass
type Service struct {
	profiles outbound.ProfileRepository
	records  outbound.FeedbackRepository
	metrics  outbound.MetricsRecorder
	logger   *zap.Logger

	decayFactor  float64
	learningRate float64
	effortWindow int
}

// NewService creates a new daily update service
func NewService(
	profiles outbound.ProfileRepository,
	records outbound.FeedbackRepository,
	metrics outbound.MetricsRecorder,
	decayFactor float64,
	learningRate float64,
	effortWindow int,
	logger *zap.Logger,
) inbound.DailyUpdateService {
	return &Service{
		profiles:     profiles,
		records:      records,
		metrics:      metrics,
		decayFactor:  decayFactor,
		learningRate: learningRate,
		effortWindow: effortWindow,
		logger:       logger.Named("daily-update"),
	}
}

// Run applies decay and folds the last day's feedback into every
// profile. One broken profile never stops the pass: failures are
// counted and the remaining profiles still update.
func (s *Service) Run(ctx context.Context) (*inbound.DailyUpdateReport, error) {
	started := time.Now().UTC()

	userIDs, err := s.profiles.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &inbound.DailyUpdateReport{StartedAt: started}
	since := started.Add(-24 * time.Hour)

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.updateProfile(ctx, userID, since); err != nil {
			report.ProfilesFailed++
			s.logger.Error("Daily update failed for profile",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			continue
		}
		report.ProfilesUpdated++
	}

	report.FinishedAt = time.Now().UTC()
	if s.metrics != nil {
		s.metrics.DailyUpdatePass(report.ProfilesUpdated, report.ProfilesFailed)
	}
	s.logger.Info("Daily update pass complete",
		zap.Int("updated", report.ProfilesUpdated),
		zap.Int("failed", report.ProfilesFailed),
		zap.Duration("elapsed", report.FinishedAt.Sub(started)),
	)
	return report, nil
}

// updateProfile decays one profile, then replays its recent feedback so
// fresh signals are not weakened by the decay they just preceded.
func (s *Service) updateProfile(ctx context.Context, userID string, since time.Time) error {
	recent, err := s.records.FindByUserSince(ctx, userID, since)
	if err != nil {
		return apperrors.Wrap(err, "load recent feedback")
	}

	_, err = s.profiles.UpdateAtomic(ctx, userID, func(p *preference.Profile) error {
		p.ApplyDecay(s.decayFactor)
		for _, record := range recent {
			p.ApplyFeedback(record.Parsed, s.learningRate, s.effortWindow)
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "update profile")
	}
	return nil
}
