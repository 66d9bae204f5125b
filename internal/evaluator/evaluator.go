// Package evaluator judges student responses with type-specific matching rules.
package evaluator

import (
	"strings"
	"unicode/utf8"

	"lecture-qa/internal/domain"
)

const (
	shortAnswerKeywordShare = 0.5
	essayKeywordShare       = 0.3
	// essayMinLength is the rune count an essay needs when the question has no keywords.
	essayMinLength = 50

	FullScore float64 = 100
	NoScore   float64 = 0
)

// Evaluate reports whether response answers q correctly. It is pure and never
// fails; blank responses and unknown question types are incorrect.
func Evaluate(q domain.GeneratedQuestion, response string) bool {
	answer := normalize(response)
	if answer == "" {
		return false
	}

	switch q.Type {
	case domain.QuestionTypeMultipleChoice, domain.QuestionTypeSingleChoice:
		return answer == normalize(q.CorrectAnswer)

	case domain.QuestionTypeShortAnswer:
		if keywords := normalizedKeywords(q.Keywords); len(keywords) > 0 {
			return countMatches(answer, keywords) >= ceilShare(len(keywords), shortAnswerKeywordShare)
		}
		reference := normalize(q.CorrectAnswer)
		if reference == "" {
			return false
		}
		return strings.Contains(answer, reference) || strings.Contains(reference, answer)

	case domain.QuestionTypeEssay:
		if keywords := normalizedKeywords(q.Keywords); len(keywords) > 0 {
			return countMatches(answer, keywords) >= max(1, floorShare(len(keywords), essayKeywordShare))
		}
		return utf8.RuneCountInString(strings.TrimSpace(response)) >= essayMinLength
	}
	return false
}

// Score maps a verdict to the binary 100/0 policy.
func Score(correct bool) float64 {
	if correct {
		return FullScore
	}
	return NoScore
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// normalizedKeywords folds case, drops blank keywords (they would match any
// response) and collapses duplicates so the threshold counts distinct terms.
func normalizedKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = normalize(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func countMatches(answer string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(answer, k) {
			n++
		}
	}
	return n
}

// ceilShare and floorShare compute ceil/floor(n*share) in integer percent
// steps so 0.3 and 0.5 do not pick up float rounding error.
func ceilShare(n int, share float64) int {
	pct := int(share*100 + 0.5)
	return (n*pct + 99) / 100
}

func floorShare(n int, share float64) int {
	pct := int(share*100 + 0.5)
	return n * pct / 100
}
