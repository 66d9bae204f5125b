// Package difficulty holds the static difficulty-tier table and the quota
// arithmetic used to spread a question budget across tiers.
package difficulty

import (
	"fmt"
	"strings"

	"lecture-qa/internal/domain"
)

// Parameters describes what a tier demands from the learner. Values are used
// verbatim in generation prompts.
type Parameters struct {
	CognitiveLevel     string `json:"cognitive_level"`
	QuestionComplexity string `json:"question_complexity"`
	ContentDepth       string `json:"content_depth"`
	ThinkingTime       string `json:"thinking_time"`
	VocabularyLevel    string `json:"vocabulary_level"`
	ConceptIntegration string `json:"concept_integration"`
}

type tierProfile struct {
	params           Parameters
	label            string
	summary          string
	traits           []string
	directives       []string
	focusAreas       []string
	questionPatterns []string
	estimatedSeconds int
}

var profiles = map[domain.Difficulty]tierProfile{
	domain.DifficultyEasy: {
		params: Parameters{
			CognitiveLevel:     "記憶・理解",
			QuestionComplexity: "単純な事実確認",
			ContentDepth:       "表面的な内容",
			ThinkingTime:       "30秒以内",
			VocabularyLevel:    "基本的な専門用語",
			ConceptIntegration: "単一概念",
		},
		label:   "易しい",
		summary: "基本的な用語や概念の理解を確認する簡単な質問",
		traits: []string{
			"講義で直接説明された事実や定義を確認",
			"単純な用語の意味や基本概念を問う",
			"暗記や単純な理解で回答可能",
			"一つの概念に焦点を当てる",
		},
		directives: []string{
			"講義資料に明確に記載されている内容から出題",
			"専門用語は基本的なもののみ使用",
			"選択肢は明確に区別できるものにする",
			"%sで回答できる内容",
		},
		focusAreas: []string{"基本用語の定義", "明確に記載された事実", "単純な概念"},
		questionPatterns: []string{
			"〜とは何ですか？",
			"〜の定義として正しいものは？",
			"〜について正しい記述は？",
		},
		estimatedSeconds: 30,
	},
	domain.DifficultyMedium: {
		params: Parameters{
			CognitiveLevel:     "応用・分析",
			QuestionComplexity: "概念の関連付け",
			ContentDepth:       "中程度の理解",
			ThinkingTime:       "1-2分",
			VocabularyLevel:    "標準的な専門用語",
			ConceptIntegration: "複数概念の関連",
		},
		label:   "普通",
		summary: "概念の応用や関連性を問う中程度の質問",
		traits: []string{
			"概念の理解と簡単な応用を問う",
			"複数の概念間の関係を理解する必要がある",
			"具体例や応用場面を考えさせる",
			"推論や判断が必要",
		},
		directives: []string{
			"講義内容の概念を実際の状況に適用",
			"複数の概念を関連付けて考える必要がある",
			"紛らわしい選択肢を含める",
			"%s程度の思考時間を要する",
		},
		focusAreas: []string{"概念間の関係", "実際の応用例", "比較と対比"},
		questionPatterns: []string{
			"〜と〜の関係として正しいものは？",
			"〜を実際に適用する場合、どのようになりますか？",
			"〜の例として適切なものは？",
		},
		estimatedSeconds: 90,
	},
	domain.DifficultyHard: {
		params: Parameters{
			CognitiveLevel:     "評価・創造",
			QuestionComplexity: "批判的思考",
			ContentDepth:       "深い理解と応用",
			ThinkingTime:       "3分以上",
			VocabularyLevel:    "高度な専門用語",
			ConceptIntegration: "複雑な概念統合",
		},
		label:   "難しい",
		summary: "深い理解や批判的思考を要求する難しい質問",
		traits: []string{
			"深い理解と批判的思考を要求",
			"複数の概念を統合して新しい結論を導く",
			"問題解決や創造的思考が必要",
			"応用範囲が広く、抽象的思考を求める",
		},
		directives: []string{
			"講義内容を基に新しい状況を分析・評価",
			"複雑な概念の相互関係を理解する必要",
			"推論過程が重要で、単純な暗記では解けない",
			"%s以上の深い思考を要求",
			"高度な専門用語や概念を含む",
		},
		focusAreas: []string{"複雑な概念統合", "批判的分析", "創造的問題解決"},
		questionPatterns: []string{
			"〜について批判的に分析すると？",
			"〜の問題点と改善案は？",
			"〜を別の観点から見た場合、どのように評価できますか？",
		},
		estimatedSeconds: 180,
	},
}

func profileFor(tier domain.Difficulty) tierProfile {
	p, ok := profiles[tier]
	if !ok {
		// unknown tiers fall back to medium, like an unset difficulty does
		return profiles[domain.DifficultyMedium]
	}
	return p
}

// ParametersFor returns the descriptive record of a tier.
func ParametersFor(tier domain.Difficulty) Parameters {
	return profileFor(tier).params
}

// Summary is the one-line description of the question a tier asks for.
func Summary(tier domain.Difficulty) string {
	return profileFor(tier).summary
}

// Instructions renders the tier guidance block embedded in generation prompts.
func Instructions(tier domain.Difficulty) string {
	p := profileFor(tier)

	var b strings.Builder
	fmt.Fprintf(&b, "## 難易度: %s\n", p.label)
	fmt.Fprintf(&b, "**認知レベル**: %s\n", p.params.CognitiveLevel)
	b.WriteString("**質問の特徴**:\n")
	for _, trait := range p.traits {
		b.WriteString("- " + trait + "\n")
	}
	b.WriteString("\n**指示**:\n")
	for _, directive := range p.directives {
		if strings.Contains(directive, "%s") {
			directive = fmt.Sprintf(directive, p.params.ThinkingTime)
		}
		b.WriteString("- " + directive + "\n")
	}
	return b.String()
}

// FocusAreas lists the kinds of content a tier's questions should target.
func FocusAreas(tier domain.Difficulty) []string {
	return append([]string(nil), profileFor(tier).focusAreas...)
}

// QuestionPatterns lists sample question stems for a tier.
func QuestionPatterns(tier domain.Difficulty) []string {
	return append([]string(nil), profileFor(tier).questionPatterns...)
}

// EstimatedSeconds is the expected answering time stored with a question.
func EstimatedSeconds(tier domain.Difficulty) int {
	return profileFor(tier).estimatedSeconds
}
