// Package feedback provides the application layer for recording user
// feedback and folding it into preference profiles
package feedback

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/ports/inbound"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	"github.com/pantrypilot/v1/pkg/errors"
)

// Service implements the feedback use cases
type Service struct {
	profiles outbound.ProfileRepository
	records  outbound.FeedbackRepository
	parser   outbound.ReviewParsingService
	metrics  outbound.MetricsRecorder
	logger   *zap.Logger

	learningRate float64
	effortWindow int
}

// NewService creates a new feedback service
func NewService(
	profiles outbound.ProfileRepository,
	records outbound.FeedbackRepository,
	parser outbound.ReviewParsingService,
	metrics outbound.MetricsRecorder,
	learningRate float64,
	effortWindow int,
	logger *zap.Logger,
) inbound.FeedbackService {
	return &Service{
		profiles:     profiles,
		records:      records,
		parser:       parser,
		metrics:      metrics,
		learningRate: learningRate,
		effortWindow: effortWindow,
		logger:       logger.Named("feedback-service"),
	}
}

// Submit validates one feedback submission, parses its review text,
// updates the user's profile atomically and appends the immutable
// record. The profile update and the record append both complete or the
// submission fails as a whole.
func (s *Service) Submit(ctx context.Context, cmd inbound.SubmitFeedbackCommand) (*inbound.ProfileSummary, error) {
	parsed := s.parseReview(ctx, cmd)
	record := preference.NewFeedbackRecord(cmd.UserID, cmd.RecipeID, cmd.Rating, cmd.ReviewText, parsed)
	if err := record.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.profiles.UpdateAtomic(ctx, cmd.UserID, func(p *preference.Profile) error {
		p.ApplyFeedback(parsed, s.learningRate, s.effortWindow)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.records.Append(ctx, record); err != nil {
		return nil, errors.NewDatabaseError("append feedback record", err)
	}

	if s.metrics != nil {
		s.metrics.FeedbackRecorded(string(parsed.Sentiment))
	}
	s.logger.Info("Feedback recorded",
		zap.String("user_id", cmd.UserID),
		zap.String("recipe_id", cmd.RecipeID),
		zap.Int("rating", cmd.Rating),
		zap.String("sentiment", string(parsed.Sentiment)),
	)

	return Summarize(profile), nil
}

// parseReview asks the parsing adapter for structured signals and falls
// back to keyword heuristics when the adapter is down. A dead parser
// must never block feedback ingestion.
func (s *Service) parseReview(ctx context.Context, cmd inbound.SubmitFeedbackCommand) preference.ParsedReview {
	text := strings.TrimSpace(cmd.ReviewText)
	if text == "" {
		return preference.ParsedReview{Sentiment: ratingSentiment(cmd.Rating)}
	}

	parsed, err := s.parser.ParseReview(ctx, text)
	if err != nil {
		s.logger.Warn("Review parsing unavailable, using heuristics",
			zap.String("user_id", cmd.UserID),
			zap.Error(err),
		)
		parsed = HeuristicParse(text)
	}
	if parsed.Sentiment == "" {
		parsed.Sentiment = ratingSentiment(cmd.Rating)
	}
	return parsed
}

// ratingSentiment maps a 1..5 star rating onto a sentiment when the
// review text gives no better signal
func ratingSentiment(rating int) preference.Sentiment {
	switch {
	case rating >= 4:
		return preference.SentimentPositive
	case rating <= 2:
		return preference.SentimentNegative
	default:
		return preference.SentimentNeutral
	}
}

// Summarize projects a profile onto its compact API view
func Summarize(p *preference.Profile) *inbound.ProfileSummary {
	flavors := make(map[string]float64, len(p.Flavors))
	for k, v := range p.Flavors {
		flavors[k] = v
	}
	return &inbound.ProfileSummary{
		UserID:          p.UserID,
		EffortTolerance: p.EffortTolerance,
		Flavors:         flavors,
		LikedCount:      len(p.Liked),
		DislikedCount:   len(p.Disliked),
		Restrictions:    p.Restrictions,
		LastUpdated:     p.LastUpdated,
	}
}
