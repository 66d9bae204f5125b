package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lecture-qa/internal/domain"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// contentGenerator is the part of *genai.Models the model needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenaiModel calls Gemini directly with the system instruction set on the
// request config.
type GenaiModel struct {
	models      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewGenaiModel creates a Gemini API client for the given key.
func NewGenaiModel(ctx context.Context, apiKey, model string, opts Options, logger *zap.Logger) (*GenaiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return newGenaiModel(client.Models, model, opts, logger), nil
}

func newGenaiModel(models contentGenerator, model string, opts Options, logger *zap.Logger) *GenaiModel {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenaiModel{
		models:      models,
		model:       model,
		temperature: float32(opts.Temperature),
		timeout:     opts.Timeout,
		logger:      logger,
	}
}

// Invoke implements domain.QuestionModel
func (m *GenaiModel) Invoke(ctx context.Context, systemInstruction, userContent string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	temperature := m.temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}
	contents := []*genai.Content{genai.NewContentFromText(userContent, genai.RoleUser)}

	result, err := m.models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		m.logger.Error("Gemini request failed", zap.String("model", m.model), zap.Error(err))
		return "", domain.NewLLMServiceError(err)
	}
	if result == nil {
		return "", domain.NewLLMServiceError(errors.New("gemini returned an empty response"))
	}
	return StripThinking(result.Text()), nil
}

var _ domain.QuestionModel = (*GenaiModel)(nil)
