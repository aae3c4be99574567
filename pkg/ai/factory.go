package ai

import (
	"fmt"

	"mail-calendar-agent/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType

	GeminiAPIKey string
	GeminiModel  string

	// Ollama settings can be swapped at runtime through the getters; the
	// static values are used when no getter is supplied.
	OllamaBaseURL    string
	OllamaModel      string
	GetOllamaBaseURL func() string
	GetOllamaModel   func() string

	OpenAIAPIKey string
	OpenAIModel  string
}

// NewTextGenerator creates a TextGenerator based on the config.
// Every provider is wrapped in a circuit breaker.
func NewTextGenerator(cfg Config) (TextGenerator, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewBreakerGenerator(gemini.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)), nil

	case ProviderOllama:
		return NewBreakerGenerator(newOllamaFromConfig(cfg)), nil

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewBreakerGenerator(NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)), nil

	default:
		// Hosted providers first when keys are available, local Ollama last
		var providers []TextGenerator
		if cfg.GeminiAPIKey != "" {
			providers = append(providers, NewBreakerGenerator(gemini.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)))
		}
		if cfg.OpenAIAPIKey != "" {
			providers = append(providers, NewBreakerGenerator(NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)))
		}
		providers = append(providers, NewBreakerGenerator(newOllamaFromConfig(cfg)))
		if len(providers) == 1 {
			return providers[0], nil
		}
		return NewFallbackService(providers...), nil
	}
}

func newOllamaFromConfig(cfg Config) *OllamaService {
	if cfg.GetOllamaBaseURL != nil && cfg.GetOllamaModel != nil {
		return NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel)
	}
	return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)
}
