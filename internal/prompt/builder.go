// Package prompt builds the system/user message pair sent to the question model.
package prompt

import (
	"fmt"
	"strings"

	"lecture-qa/internal/difficulty"
	"lecture-qa/internal/domain"
)

// Prompt is one system instruction and one user message.
type Prompt struct {
	System string
	User   string
}

const systemTemplate = `あなたは教育専門の質問作成者です。提供されたスライドの内容から、学生の理解度を測定するための質問を1つ生成してください。

## 指示:
1. 難易度: %s
2. 質問の種類: multiple_choice（4択）、single_choice（2択）、essay（記述式）、short_answer（短答式）のいずれか
3. 内容に基づいた具体的で明確な質問を作成
4. 選択式の場合は紛らわしい選択肢を含める
5. 正解と詳細な解説を提供

%s
## 難易度パラメータ:
- 認知レベル: %s
- 質問の複雑さ: %s
- 内容の深さ: %s
- 推定思考時間: %s
- 語彙レベル: %s
- 概念統合: %s

## 重点領域:
%s
## 質問パターン例:
%s
## 重要:
必ずJSON形式のみで回答してください。説明文は含めず、以下の形式の有効なJSONオブジェクトを1つだけ返してください。

JSON形式:
- question: 質問文
- question_type: 質問の種類 (%s)
- difficulty: %s
- choices: 選択肢の配列（選択式の場合のみ）またはnull
- correct_answer: 正解（選択式の場合は選択肢のいずれかと同じ文字列）
- explanation: 詳細な解説
- keywords: 関連キーワードの配列

注意: 選択式以外の場合はchoicesをnullにしてください。
`

const userTemplate = `## スライド情報:
- スライド番号: %d
- タイトル: %s
- 内容: %s
- 要点: %s
- 全体テキスト: %s

上記の内容から質問を1つ生成してください。
`

// Build composes the prompt for one (slide, tier) generation unit. Slide
// text is passed through verbatim.
func Build(slide domain.SlideRecord, tier domain.Difficulty) Prompt {
	params := difficulty.ParametersFor(tier)

	types := make([]string, 0, len(domain.QuestionTypes))
	for _, qt := range domain.QuestionTypes {
		types = append(types, string(qt))
	}

	system := fmt.Sprintf(systemTemplate,
		difficulty.Summary(tier),
		difficulty.Instructions(tier),
		params.CognitiveLevel,
		params.QuestionComplexity,
		params.ContentDepth,
		params.ThinkingTime,
		params.VocabularyLevel,
		params.ConceptIntegration,
		bulletList(difficulty.FocusAreas(tier)),
		bulletList(difficulty.QuestionPatterns(tier)),
		strings.Join(types, ", "),
		tier,
	)

	user := fmt.Sprintf(userTemplate,
		slide.SlideNumber,
		slide.Title,
		slide.BodyText,
		strings.Join(slide.BulletPoints, ", "),
		slide.FullText(),
	)

	return Prompt{System: system, User: user}
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}
