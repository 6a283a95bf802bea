package llm

import (
	"go.uber.org/zap"

	"schemeagent/internal/config"
)

// Hugging Face router generation settings.
const (
	huggingFaceMaxTokens   = 1024
	huggingFaceTemperature = 0.1
)

// NewBackends builds the fallback chain in priority order: Gemini, every
// OpenRouter model, the Hugging Face router, then every local Ollama model.
// Hosted backends without an API key are skipped.
func NewBackends(cfg config.LLMConfig, log *zap.Logger) []Provider {
	if log == nil {
		log = zap.NewNop()
	}
	var providers []Provider
	add := func(p Provider, err error) {
		if err != nil {
			log.Warn("llm backend disabled", zap.Error(err))
			return
		}
		providers = append(providers, p)
	}

	if cfg.GoogleAPIKey != "" {
		add(NewGemini(GeminiConfig{
			APIKey:  cfg.GoogleAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
		}))
	}

	if cfg.OpenRouterAPIKey != "" {
		client := NewHTTPClient(0)
		for _, model := range cfg.OpenRouterModels {
			add(NewChat(ChatConfig{
				Backend:            "openrouter",
				APIKey:             cfg.OpenRouterAPIKey,
				BaseURL:            cfg.OpenRouterBaseURL,
				Model:              model,
				JSONResponseFormat: true,
				HTTPClient:         client,
			}))
		}
	}

	if cfg.HuggingFaceAPIKey != "" {
		add(NewChat(ChatConfig{
			Backend:     "huggingface",
			APIKey:      cfg.HuggingFaceAPIKey,
			BaseURL:     cfg.HuggingFaceBaseURL,
			Model:       cfg.HuggingFaceModel,
			MaxTokens:   huggingFaceMaxTokens,
			Temperature: huggingFaceTemperature,
		}))
	}

	timeout := cfg.OllamaTimeout
	if timeout <= 0 {
		timeout = DefaultOllamaTimeout
	}
	client := NewHTTPClient(timeout)
	for _, model := range cfg.OllamaModels {
		add(NewOllama(OllamaConfig{
			BaseURL:    cfg.OllamaBaseURL,
			Model:      model,
			Timeout:    timeout,
			HTTPClient: client,
		}))
	}

	return providers
}

// Names lists provider names in order.
func Names(providers []Provider) []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}
