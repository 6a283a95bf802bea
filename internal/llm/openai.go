package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ChatConfig holds configuration for an OpenAI-compatible /chat/completions backend,
// such as OpenRouter or the Hugging Face router.
type ChatConfig struct {
	// Backend is the label used in Name, e.g. "openrouter".
	Backend string

	// APIKey is sent as a Bearer token (required).
	APIKey string

	// BaseURL is the API base URL without the /chat/completions suffix (required).
	BaseURL string

	// Model is the model identifier (required).
	Model string

	// JSONResponseFormat sends response_format {"type": "json_object"} in JSON mode.
	JSONResponseFormat bool

	MaxTokens   int
	Temperature float64

	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

// Chat calls an OpenAI-compatible chat completion endpoint.
type Chat struct {
	client         *http.Client
	backend        string
	baseURL        string
	apiKey         string
	model          string
	responseFormat bool
	maxTokens      int
	temperature    float64
}

var _ Provider = (*Chat)(nil)

type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatCompletionMsg `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    float64             `json:"temperature,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewChat creates an OpenAI-compatible backend.
func NewChat(cfg ChatConfig) (*Chat, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", cfg.Backend)
	}
	if cfg.BaseURL == "" || cfg.Model == "" {
		return nil, fmt.Errorf("%s: base URL and model are required", cfg.Backend)
	}
	if cfg.Backend == "" {
		cfg.Backend = "openai"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = NewHTTPClient(0)
	}
	return &Chat{
		client:         cfg.HTTPClient,
		backend:        cfg.Backend,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		responseFormat: cfg.JSONResponseFormat,
		maxTokens:      cfg.MaxTokens,
		temperature:    cfg.Temperature,
	}, nil
}

// Name implements Provider.
func (c *Chat) Name() string {
	return c.backend + ":" + c.model
}

// Generate implements Provider.
func (c *Chat) Generate(ctx context.Context, req Request) (string, error) {
	messages := []chatCompletionMsg{{Role: "user", Content: req.Prompt}}
	if req.JSON {
		messages = append([]chatCompletionMsg{{Role: "system", Content: strictJSONSystemPrompt}}, messages...)
	}

	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	if req.JSON && c.responseFormat {
		reqBody.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("%s error (status %d): %s", c.backend, resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("%s error: %s", c.backend, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s error (status %d): %s", c.backend, resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%s: no response choices returned", c.backend)
	}

	content := chatResp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
