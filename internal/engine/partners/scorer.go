package partners

import (
	"fmt"
	"math"

	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/models"
)

// DefaultCriteria is used when a caller supplies no weights, or only zero weights.
var DefaultCriteria = models.SelectionCriteria{Price: 30, Quality: 40, Schedule: 20, Experience: 10}

// Policy switches the scoring and selection guards that the base formula leaves open.
type Policy struct {
	// CapExperience caps the experience factor at 100.
	CapExperience bool
	// ClampTotal clamps the weighted total to [0,100].
	ClampTotal bool
	// StrictCriteria rejects negative or zero-sum weights instead of repairing them.
	StrictCriteria bool
	// ValidateSelections rejects selections of candidates missing from the pool.
	ValidateSelections bool
}

// Breakdown holds the four factor scores behind a total.
type Breakdown struct {
	Price      float64 `json:"price"`
	Quality    float64 `json:"quality"`
	Schedule   float64 `json:"schedule"`
	Experience float64 `json:"experience"`
	Total      int     `json:"total"`
}

func priceScore(c models.SubcontractorCandidate) float64 {
	return float64(4-c.Pricing.CompetitiveRank) * 25
}

func qualityScore(c models.SubcontractorCandidate) float64 {
	return c.Rating * 20
}

func scheduleScore(c models.SubcontractorCandidate) float64 {
	switch c.Availability.ConflictRisk.Normalize() {
	case models.ConflictRiskLow:
		return 100
	case models.ConflictRiskMedium:
		return 70
	default:
		return 40
	}
}

func experienceScore(c models.SubcontractorCandidate) float64 {
	return float64(len(c.PastPerformance)) * 20
}

// ScoreBreakdown applies the weighted formula under the given policy. Criteria are used as given.
func ScoreBreakdown(c models.SubcontractorCandidate, criteria models.SelectionCriteria, policy Policy) Breakdown {
	b := Breakdown{
		Price:      priceScore(c),
		Quality:    qualityScore(c),
		Schedule:   scheduleScore(c),
		Experience: experienceScore(c),
	}
	if policy.CapExperience {
		b.Experience = math.Min(b.Experience, 100)
	}

	weighted := b.Price*criteria.Price +
		b.Quality*criteria.Quality +
		b.Schedule*criteria.Schedule +
		b.Experience*criteria.Experience
	total := math.Round(weighted / 100)
	if policy.ClampTotal {
		total = math.Max(0, math.Min(100, total))
	}
	b.Total = int(total)
	return b
}

// ScoreCandidate is the uncapped, unclamped dynamic score.
func ScoreCandidate(c models.SubcontractorCandidate, criteria models.SelectionCriteria) int {
	return ScoreBreakdown(c, criteria, Policy{}).Total
}

// NormalizeCriteria rescales weights to sum to 100. In lenient mode negative
// weights become 0 and an all-zero set becomes DefaultCriteria; strict mode
// returns INVALID_WEIGHT for both.
func NormalizeCriteria(c models.SelectionCriteria, strict bool) (models.SelectionCriteria, error) {
	weights := []*float64{&c.Price, &c.Quality, &c.Schedule, &c.Experience}
	for _, w := range weights {
		if math.IsNaN(*w) || math.IsInf(*w, 0) {
			return c, errors.NewInvalidWeightError("weights must be finite numbers")
		}
		if *w < 0 {
			if strict {
				return c, errors.NewInvalidWeightError(fmt.Sprintf("negative weight %g", *w))
			}
			*w = 0
		}
	}

	sum := c.Sum()
	if sum == 0 {
		if strict {
			return c, errors.NewInvalidWeightError("weights sum to zero")
		}
		return DefaultCriteria, nil
	}
	if sum == 100 {
		return c, nil
	}
	for _, w := range weights {
		*w = *w * 100 / sum
	}
	return c, nil
}
