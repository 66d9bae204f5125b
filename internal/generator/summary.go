package generator

import "lecture-qa/internal/domain"

// Summary totals a generation run.
type Summary struct {
	Slides    int `json:"slides"`
	Requested int `json:"requested"`
	Generated int `json:"generated"`
	Shortfall int `json:"shortfall"`
}

func Summarize(sets []domain.QuestionSet) Summary {
	s := Summary{Slides: len(sets)}
	for _, set := range sets {
		s.Requested += set.Requested
		s.Generated += len(set.Questions)
		s.Shortfall += set.Shortfall()
	}
	return s
}

// Questions flattens the sets in order.
func Questions(sets []domain.QuestionSet) []domain.GeneratedQuestion {
	var out []domain.GeneratedQuestion
	for _, set := range sets {
		out = append(out, set.Questions...)
	}
	return out
}
