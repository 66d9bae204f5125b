package difficulty

import (
	"fmt"
	"math"

	"lecture-qa/internal/domain"
)

const ratioTolerance = 1e-6

// Ratios is a target share per tier. Shares sum to 1.
type Ratios struct {
	Easy   float64 `json:"easy" mapstructure:"easy"`
	Medium float64 `json:"medium" mapstructure:"medium"`
	Hard   float64 `json:"hard" mapstructure:"hard"`
}

// IdealRatios is the reference distribution balance scores are measured against.
var IdealRatios = Ratios{Easy: 0.4, Medium: 0.4, Hard: 0.2}

// DefaultRatios is used when a caller does not supply a distribution.
func DefaultRatios() Ratios {
	return IdealRatios
}

// Of returns the share of a tier.
func (r Ratios) Of(tier domain.Difficulty) float64 {
	switch tier {
	case domain.DifficultyEasy:
		return r.Easy
	case domain.DifficultyMedium:
		return r.Medium
	case domain.DifficultyHard:
		return r.Hard
	}
	return 0
}

// ValidateRatios checks each share is within [0,1] and that they sum to 1.
func ValidateRatios(r Ratios) error {
	for _, tier := range domain.Difficulties {
		v := r.Of(tier)
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("ratio for %s must be between 0 and 1, got %v", tier, v)
		}
	}
	if sum := r.Easy + r.Medium + r.Hard; math.Abs(sum-1) > ratioTolerance {
		return fmt.Errorf("ratios must sum to 1, got %v", sum)
	}
	return nil
}

// Quota is a question count per tier.
type Quota struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Of returns the count for a tier.
func (q Quota) Of(tier domain.Difficulty) int {
	switch tier {
	case domain.DifficultyEasy:
		return q.Easy
	case domain.DifficultyMedium:
		return q.Medium
	case domain.DifficultyHard:
		return q.Hard
	}
	return 0
}

func (q Quota) with(tier domain.Difficulty, n int) Quota {
	switch tier {
	case domain.DifficultyEasy:
		q.Easy = n
	case domain.DifficultyMedium:
		q.Medium = n
	case domain.DifficultyHard:
		q.Hard = n
	}
	return q
}

// Total is the number of questions across all tiers.
func (q Quota) Total() int {
	return q.Easy + q.Medium + q.Hard
}

// Tiers expands the quota into one entry per generation unit, easy first.
func (q Quota) Tiers() []domain.Difficulty {
	units := make([]domain.Difficulty, 0, q.Total())
	for _, tier := range domain.Difficulties {
		for i := 0; i < q.Of(tier); i++ {
			units = append(units, tier)
		}
	}
	return units
}

// AllocateQuota splits total across tiers. Easy and medium get the floor of
// their share; hard takes the remainder so the counts always sum to total.
func AllocateQuota(total int, r Ratios) Quota {
	if total <= 0 {
		return Quota{}
	}
	easy := clamp(int(math.Floor(float64(total)*r.Easy)), 0, total)
	medium := clamp(int(math.Floor(float64(total)*r.Medium)), 0, total-easy)
	return Quota{Easy: easy, Medium: medium, Hard: total - easy - medium}
}

// DefaultDistribution is the per-slide split used outside comprehensive mode:
// easy and medium alternate, hard is never requested.
func DefaultDistribution(questionsPerSlide int) Quota {
	if questionsPerSlide <= 0 {
		return Quota{}
	}
	return Quota{
		Easy:   (questionsPerSlide + 1) / 2,
		Medium: questionsPerSlide / 2,
	}
}

// Pool is the remaining global tier budget during comprehensive allocation.
// It is a value; Take returns the shrunk pool instead of mutating it.
type Pool struct {
	Remaining Quota
}

// NewPool starts a pool from a global tier quota.
func NewPool(q Quota) Pool {
	return Pool{Remaining: q}
}

// Take allocates up to one question per tier, easy first, until n is used up
// or the pool is empty. It returns the slide quota and the pool that is left.
func (p Pool) Take(n int) (Quota, Pool) {
	var slide Quota
	for _, tier := range domain.Difficulties {
		if n <= 0 {
			break
		}
		available := p.Remaining.Of(tier)
		if available <= 0 {
			continue
		}
		slide = slide.with(tier, 1)
		p.Remaining = p.Remaining.with(tier, available-1)
		n--
	}
	return slide, p
}

// Empty reports whether every tier is exhausted.
func (p Pool) Empty() bool {
	return p.Remaining.Total() <= 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
