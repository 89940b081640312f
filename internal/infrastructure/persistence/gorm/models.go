// Package gorm provides GORM model definitions and repository
// implementations for profiles and feedback records
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProfileModel is the persisted form of a preference profile
type ProfileModel struct {
	UserID          string      `gorm:"type:varchar(255);primaryKey"`
	Flavors         FloatMap    `gorm:"type:json"`
	Liked           StringSlice `gorm:"type:json"`
	Disliked        StringSlice `gorm:"type:json"`
	EffortTolerance string      `gorm:"type:varchar(20);not null;default:'medium'"`
	DishTypes       StringSlice `gorm:"type:json"`
	Diet            string      `gorm:"type:varchar(50)"`
	Intolerances    StringSlice `gorm:"type:json"`
	EffortWindow    StringSlice `gorm:"type:json"`
	HasFeedback     bool        `gorm:"default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the default table name
func (ProfileModel) TableName() string {
	return "preference_profiles"
}

// FeedbackModel is the persisted form of a feedback record
type FeedbackModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID     string    `gorm:"type:varchar(255);not null;index"`
	RecipeID   string    `gorm:"type:varchar(255);not null;index"`
	Rating     int       `gorm:"not null"`
	ReviewText string    `gorm:"type:text"`
	Parsed     JSONField `gorm:"type:json"`
	Timestamp  time.Time `gorm:"index"`
	CreatedAt  time.Time
}

// TableName overrides the default table name
func (FeedbackModel) TableName() string {
	return "feedback_records"
}

// StringSlice stores a string slice as JSON
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	return string(raw), err
}

func (s *StringSlice) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// FloatMap stores a string-to-float map as JSON
type FloatMap map[string]float64

func (m FloatMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	return string(raw), err
}

func (m *FloatMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// JSONField stores arbitrary JSON
type JSONField json.RawMessage

func (j JSONField) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "null", nil
	}
	return string(j), nil
}

func (j *JSONField) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		*j = append((*j)[:0], v...)
		return nil
	case string:
		*j = JSONField(v)
		return nil
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}

func scanJSON(value interface{}, out interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, out)
	case string:
		return json.Unmarshal([]byte(v), out)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
