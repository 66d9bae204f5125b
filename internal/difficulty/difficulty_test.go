package difficulty

import (
	"testing"

	"lecture-qa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParametersFor(t *testing.T) {
	assert.Equal(t, "記憶・理解", ParametersFor(domain.DifficultyEasy).CognitiveLevel)
	assert.Equal(t, "1-2分", ParametersFor(domain.DifficultyMedium).ThinkingTime)
	assert.Equal(t, "複雑な概念統合", ParametersFor(domain.DifficultyHard).ConceptIntegration)
	// unknown tiers read as medium
	assert.Equal(t, ParametersFor(domain.DifficultyMedium), ParametersFor(domain.Difficulty("expert")))
}

func TestInstructions(t *testing.T) {
	easy := Instructions(domain.DifficultyEasy)
	assert.Contains(t, easy, "## 難易度: 易しい")
	assert.Contains(t, easy, "**認知レベル**: 記憶・理解")
	assert.Contains(t, easy, "- 30秒以内で回答できる内容")

	hard := Instructions(domain.DifficultyHard)
	assert.Contains(t, hard, "- 3分以上以上の深い思考を要求")
	assert.Contains(t, hard, "- 高度な専門用語や概念を含む")
	assert.NotContains(t, hard, "%s")
}

func TestFocusAreasAreCopies(t *testing.T) {
	areas := FocusAreas(domain.DifficultyEasy)
	require.Len(t, areas, 3)
	areas[0] = "changed"
	assert.Equal(t, "基本用語の定義", FocusAreas(domain.DifficultyEasy)[0])
	assert.Len(t, QuestionPatterns(domain.DifficultyMedium), 3)
}

func TestAllocateQuota(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		ratios Ratios
		want   Quota
	}{
		{"ideal ten", 10, IdealRatios, Quota{Easy: 4, Medium: 4, Hard: 2}},
		{"remainder goes to hard", 7, IdealRatios, Quota{Easy: 2, Medium: 2, Hard: 3}},
		{"zero", 0, IdealRatios, Quota{}},
		{"negative treated as zero", -5, IdealRatios, Quota{}},
		{"all easy", 3, Ratios{Easy: 1}, Quota{Easy: 3}},
		{"oversized ratios clamp", 4, Ratios{Easy: 0.9, Medium: 0.9}, Quota{Easy: 3, Medium: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllocateQuota(tt.total, tt.ratios))
		})
	}
}

func TestAllocateQuota_SumsToTotal(t *testing.T) {
	for total := 0; total <= 500; total++ {
		q := AllocateQuota(total, IdealRatios)
		require.Equal(t, total, q.Total(), "total %d", total)
		require.GreaterOrEqual(t, q.Easy, 0)
		require.GreaterOrEqual(t, q.Medium, 0)
		require.GreaterOrEqual(t, q.Hard, 0)
	}
}

func TestValidateRatios(t *testing.T) {
	assert.NoError(t, ValidateRatios(IdealRatios))
	assert.NoError(t, ValidateRatios(Ratios{Easy: 0.5, Medium: 0.3, Hard: 0.2}))
	assert.Error(t, ValidateRatios(Ratios{Easy: 0.5, Medium: 0.5, Hard: 0.5}))
	assert.Error(t, ValidateRatios(Ratios{Easy: -0.2, Medium: 1, Hard: 0.2}))
}

func TestDefaultDistribution(t *testing.T) {
	assert.Equal(t, Quota{Easy: 1, Medium: 1}, DefaultDistribution(2))
	assert.Equal(t, Quota{Easy: 1}, DefaultDistribution(1))
	assert.Equal(t, Quota{Easy: 2, Medium: 1}, DefaultDistribution(3))
	assert.Equal(t, Quota{}, DefaultDistribution(0))
}

func TestPool_Take(t *testing.T) {
	pool := NewPool(Quota{Easy: 1, Medium: 2, Hard: 1})

	slide, pool := pool.Take(2)
	assert.Equal(t, Quota{Easy: 1, Medium: 1}, slide)
	assert.Equal(t, Quota{Medium: 1, Hard: 1}, pool.Remaining)

	slide, pool = pool.Take(3)
	assert.Equal(t, Quota{Medium: 1, Hard: 1}, slide)
	assert.True(t, pool.Empty())

	slide, _ = pool.Take(2)
	assert.Equal(t, Quota{}, slide)
}

func TestPool_TakeDoesNotMutateReceiver(t *testing.T) {
	original := NewPool(Quota{Easy: 3})
	_, next := original.Take(1)
	assert.Equal(t, 3, original.Remaining.Easy)
	assert.Equal(t, 2, next.Remaining.Easy)
}

func TestQuota_Tiers(t *testing.T) {
	q := Quota{Easy: 2, Hard: 1}
	assert.Equal(t, []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyEasy, domain.DifficultyHard}, q.Tiers())
}

func TestBalanceScore(t *testing.T) {
	assert.InDelta(t, 1.0, BalanceScore(IdealRatios), 1e-9)
	assert.InDelta(t, 0.2, BalanceScore(Ratios{Easy: 1}), 1e-9)
	assert.InDelta(t, 0.0, BalanceScore(Ratios{Hard: 1}), 1e-9)
	assert.True(t, IsBalanced(0.7))
	assert.False(t, IsBalanced(0.69))
}

func TestAnalyzeBalance(t *testing.T) {
	questions := []domain.GeneratedQuestion{
		{Difficulty: domain.DifficultyEasy},
		{Difficulty: domain.DifficultyEasy},
		{Difficulty: domain.DifficultyMedium},
		{Difficulty: domain.DifficultyMedium},
		{Difficulty: domain.DifficultyHard},
	}
	report := AnalyzeBalance(questions)
	assert.Equal(t, 5, report.TotalQuestions)
	assert.Equal(t, Quota{Easy: 2, Medium: 2, Hard: 1}, report.Counts)
	assert.InDelta(t, 1.0, report.BalanceScore, 1e-9)
	assert.True(t, report.IsBalanced)

	empty := AnalyzeBalance(nil)
	assert.Equal(t, 0, empty.TotalQuestions)
	assert.False(t, empty.IsBalanced)
}

func TestSuggestAdjustments(t *testing.T) {
	got := SuggestAdjustments(Quota{Easy: 1, Medium: 4, Hard: 2}, Quota{Easy: 4, Medium: 4, Hard: 1})
	assert.Equal(t, []string{
		"easyの質問を3問追加することを推奨",
		"hardの質問を1問削減することを推奨",
	}, got)
	assert.Empty(t, SuggestAdjustments(Quota{Easy: 1}, Quota{Easy: 1}))
}
