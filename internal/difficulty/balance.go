package difficulty

import (
	"fmt"
	"math"

	"lecture-qa/internal/domain"
)

// BalancedThreshold is the minimum score for a set to count as balanced.
const BalancedThreshold = 0.7

// BalanceReport is a diagnostic of how a generated set is spread across tiers.
type BalanceReport struct {
	TotalQuestions int     `json:"total_questions"`
	Counts         Quota   `json:"difficulty_counts"`
	Ratios         Ratios  `json:"difficulty_ratios"`
	BalanceScore   float64 `json:"balance_score"`
	IsBalanced     bool    `json:"is_balanced"`
}

// BalanceScore is 1 - 2*mean(|actual-ideal|) over the three tiers, clamped at 0.
func BalanceScore(actual Ratios) float64 {
	var sum float64
	for _, tier := range domain.Difficulties {
		sum += math.Abs(actual.Of(tier) - IdealRatios.Of(tier))
	}
	mean := sum / float64(len(domain.Difficulties))
	return math.Max(0, 1-mean*2)
}

// IsBalanced reports whether a score reaches BalancedThreshold.
func IsBalanced(score float64) bool {
	return score >= BalancedThreshold
}

// AnalyzeBalance counts questions per tier and scores the distribution.
// Questions without a difficulty count as medium.
func AnalyzeBalance(questions []domain.GeneratedQuestion) BalanceReport {
	var counts Quota
	for _, q := range questions {
		tier := q.Difficulty
		if tier == "" {
			tier = domain.DifficultyMedium
		}
		if tier.Valid() {
			counts = counts.with(tier, counts.Of(tier)+1)
		}
	}

	total := len(questions)
	var ratios Ratios
	if total > 0 {
		ratios = Ratios{
			Easy:   float64(counts.Easy) / float64(total),
			Medium: float64(counts.Medium) / float64(total),
			Hard:   float64(counts.Hard) / float64(total),
		}
	}

	score := BalanceScore(ratios)
	return BalanceReport{
		TotalQuestions: total,
		Counts:         counts,
		Ratios:         ratios,
		BalanceScore:   score,
		IsBalanced:     IsBalanced(score),
	}
}

// SuggestAdjustments lists how many questions per tier to add or remove to
// move from current to target.
func SuggestAdjustments(current, target Quota) []string {
	var suggestions []string
	for _, tier := range domain.Difficulties {
		have, want := current.Of(tier), target.Of(tier)
		switch {
		case have < want:
			suggestions = append(suggestions, fmt.Sprintf("%sの質問を%d問追加することを推奨", tier, want-have))
		case have > want:
			suggestions = append(suggestions, fmt.Sprintf("%sの質問を%d問削減することを推奨", tier, have-want))
		}
	}
	return suggestions
}
