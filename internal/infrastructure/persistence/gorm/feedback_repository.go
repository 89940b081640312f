package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	"github.com/pantrypilot/v1/pkg/errors"
)

// FeedbackRepository implements the feedback repository on GORM
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *gorm.DB) outbound.FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Append stores one immutable feedback record
func (r *FeedbackRepository) Append(ctx context.Context, record preference.FeedbackRecord) error {
	model, err := FeedbackToModel(record)
	if err != nil {
		return errors.NewDatabaseError("encode feedback record", err)
	}
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return errors.NewDatabaseError("append feedback record", result.Error)
	}
	return nil
}

// FindByUserSince returns the user's records newer than the cutoff,
// oldest first so replays apply in submission order
func (r *FeedbackRepository) FindByUserSince(ctx context.Context, userID string, since time.Time) ([]preference.FeedbackRecord, error) {
	var models []FeedbackModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp asc").
		Find(&models)
	if result.Error != nil {
		return nil, errors.NewDatabaseError("find feedback records", result.Error)
	}

	records := make([]preference.FeedbackRecord, 0, len(models))
	for i := range models {
		records = append(records, ModelToFeedback(&models[i]))
	}
	return records, nil
}
