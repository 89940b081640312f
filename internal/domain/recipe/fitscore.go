package recipe

import "math"

// FitScore captures how much of a candidate's ingredient list is already
// in inventory. Recomputed per request; never cached across inventory
// changes.
type FitScore struct {
	HaveCount  int     `json:"have"`
	NeedCount  int     `json:"need_to_buy"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ComputeFit derives a fit score from per-ingredient match outcomes.
// matched[i] corresponds to c.Ingredients[i]. A candidate with zero
// ingredients is invalid input rather than a division by zero.
func ComputeFit(c *Candidate, matched []bool) (FitScore, error) {
	if err := c.Validate(); err != nil {
		return FitScore{}, err
	}

	have := 0
	for i := range c.Ingredients {
		if i < len(matched) && matched[i] {
			have++
		}
	}

	total := len(c.Ingredients)
	pct := float64(have) / float64(total) * 100

	return FitScore{
		HaveCount:  have,
		NeedCount:  total - have,
		Total:      total,
		Percentage: math.Round(pct*10) / 10,
	}, nil
}
