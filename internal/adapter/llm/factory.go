// Package llm adapts generative model SDKs to domain.QuestionModel.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lecture-qa/internal/config"
	"lecture-qa/internal/domain"

	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const (
	ProviderGoogleAI = "googleai"
	ProviderGenai    = "genai"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
)

// NewQuestionModel builds the model selected by cfg.Provider.
func NewQuestionModel(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (domain.QuestionModel, error) {
	opts := Options{
		Temperature:       cfg.Temperature,
		Timeout:           cfg.Timeout,
		MergeSystemPrompt: cfg.MergeSystemPrompt,
	}

	switch cfg.Provider {
	case ProviderGoogleAI, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("googleai provider requires an API key")
		}
		client, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
			googleai.WithDefaultTemperature(cfg.Temperature),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create googleai client: %w", err)
		}
		logger.Info("Using googleai question model", zap.String("model", cfg.Model))
		return NewLangchainModel(client, opts, logger), nil

	case ProviderGenai:
		model, err := NewGenaiModel(ctx, cfg.APIKey, cfg.Model, opts, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using genai question model", zap.String("model", cfg.Model))
		return model, nil

	case ProviderOllama:
		client, err := ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: opts.timeoutOrDefault()}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		logger.Info("Using ollama question model", zap.String("model", cfg.Model), zap.String("server", cfg.ServerURL))
		return NewLangchainModel(client, opts, logger), nil

	case ProviderOpenAI:
		openaiOpts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.ServerURL != "" {
			openaiOpts = append(openaiOpts, openai.WithBaseURL(cfg.ServerURL))
		}
		client, err := openai.New(openaiOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		logger.Info("Using openai question model", zap.String("model", cfg.Model))
		return NewLangchainModel(client, opts, logger), nil
	}
	return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
}

func (o Options) timeoutOrDefault() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return defaultTimeout
}
