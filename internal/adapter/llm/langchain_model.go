package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lecture-qa/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// LangchainModel sends one system and one human message through a
// langchaingo model.
type LangchainModel struct {
	llm         llms.Model
	temperature float64
	timeout     time.Duration
	// mergeSystem folds the system instruction into the human message for
	// backends without a system role.
	mergeSystem bool
	logger      *zap.Logger
}

type Options struct {
	Temperature       float64
	Timeout           time.Duration
	MergeSystemPrompt bool
}

func NewLangchainModel(llm llms.Model, opts Options, logger *zap.Logger) *LangchainModel {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LangchainModel{
		llm:         llm,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
		mergeSystem: opts.MergeSystemPrompt,
		logger:      logger,
	}
}

// Invoke implements domain.QuestionModel
func (m *LangchainModel) Invoke(ctx context.Context, systemInstruction, userContent string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var messages []llms.MessageContent
	if m.mergeSystem {
		messages = []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, systemInstruction+"\n\n"+userContent),
		}
	} else {
		messages = []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, systemInstruction),
			llms.TextParts(llms.ChatMessageTypeHuman, userContent),
		}
	}

	resp, err := m.llm.GenerateContent(ctx, messages, llms.WithTemperature(m.temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			m.logger.Error("LLM request timed out", zap.Duration("timeout", m.timeout), zap.Error(err))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		m.logger.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	if len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", domain.NewLLMServiceError(errors.New("LLM returned no choices"))
	}

	reply := StripThinking(resp.Choices[0].Content)
	m.logger.Debug("LLM reply received", zap.Int("length", len(reply)))
	return reply, nil
}

// StripThinking removes a leading <think>...</think> block that reasoning
// models put in front of their answer.
func StripThinking(reply string) string {
	cleaned := strings.TrimSpace(reply)
	thinkStart := strings.Index(cleaned, "<think>")
	if thinkStart == -1 {
		return cleaned
	}
	thinkEnd := strings.Index(cleaned, "</think>")
	if thinkEnd == -1 || thinkEnd < thinkStart {
		return cleaned
	}
	return strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
}

var _ domain.QuestionModel = (*LangchainModel)(nil)
