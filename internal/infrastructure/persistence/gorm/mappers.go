package gorm

import (
	"encoding/json"

	"github.com/pantrypilot/v1/internal/domain/preference"
)

// ProfileToModel converts a domain profile to its persisted form
func ProfileToModel(p *preference.Profile) *ProfileModel {
	window := make(StringSlice, 0, len(p.EffortWindow))
	for _, level := range p.EffortWindow {
		window = append(window, string(level))
	}
	return &ProfileModel{
		UserID:          p.UserID,
		Flavors:         FloatMap(p.Flavors),
		Liked:           setToSlice(p.Liked),
		Disliked:        setToSlice(p.Disliked),
		EffortTolerance: string(p.EffortTolerance),
		DishTypes:       StringSlice(p.DishTypes),
		Diet:            p.Restrictions.Diet,
		Intolerances:    StringSlice(p.Restrictions.Intolerances),
		EffortWindow:    window,
		HasFeedback:     p.HasFeedback,
		UpdatedAt:       p.LastUpdated,
	}
}

// ModelToProfile converts a persisted profile back to the domain form
func ModelToProfile(m *ProfileModel) *preference.Profile {
	window := make([]preference.EffortLevel, 0, len(m.EffortWindow))
	for _, level := range m.EffortWindow {
		window = append(window, preference.EffortLevel(level))
	}
	flavors := map[string]float64(m.Flavors)
	if flavors == nil {
		flavors = make(map[string]float64)
	}
	return &preference.Profile{
		UserID:          m.UserID,
		Flavors:         flavors,
		Liked:           sliceToSet(m.Liked),
		Disliked:        sliceToSet(m.Disliked),
		EffortTolerance: preference.EffortLevel(m.EffortTolerance),
		DishTypes:       []string(m.DishTypes),
		Restrictions: preference.DietaryRestrictions{
			Diet:         m.Diet,
			Intolerances: []string(m.Intolerances),
		},
		EffortWindow: window,
		HasFeedback:  m.HasFeedback,
		LastUpdated:  m.UpdatedAt,
	}
}

// FeedbackToModel converts a domain feedback record to its persisted form
func FeedbackToModel(f preference.FeedbackRecord) (*FeedbackModel, error) {
	parsed, err := json.Marshal(f.Parsed)
	if err != nil {
		return nil, err
	}
	return &FeedbackModel{
		ID:         f.ID,
		UserID:     f.UserID,
		RecipeID:   f.RecipeID,
		Rating:     f.Rating,
		ReviewText: f.ReviewText,
		Parsed:     JSONField(parsed),
		Timestamp:  f.Timestamp,
	}, nil
}

// ModelToFeedback converts a persisted feedback record to the domain form
func ModelToFeedback(m *FeedbackModel) preference.FeedbackRecord {
	var parsed preference.ParsedReview
	if len(m.Parsed) > 0 {
		_ = json.Unmarshal([]byte(m.Parsed), &parsed)
	}
	return preference.FeedbackRecord{
		ID:         m.ID,
		UserID:     m.UserID,
		RecipeID:   m.RecipeID,
		Rating:     m.Rating,
		ReviewText: m.ReviewText,
		Parsed:     parsed,
		Timestamp:  m.Timestamp,
	}
}

func setToSlice(set map[string]bool) StringSlice {
	out := make(StringSlice, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}

func sliceToSet(slice StringSlice) map[string]bool {
	out := make(map[string]bool, len(slice))
	for _, name := range slice {
		out[name] = true
	}
	return out
}
