package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/saint0x/ggsum/pkg/config"
)

const openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouter talks to the OpenRouter chat-completions API.
type OpenRouter struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient HTTPClient
}

// NewOpenRouter builds an OpenRouter provider from config.
func NewOpenRouter(cfg *config.Config) *OpenRouter {
	return &OpenRouter{
		apiKey:     cfg.OpenRouterKey,
		model:      cfg.OpenRouterModel,
		endpoint:   openRouterEndpoint,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Name implements Provider.
func (o *OpenRouter) Name() string { return config.ProviderOpenRouter }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete implements Provider.
func (o *OpenRouter) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	body := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling openrouter request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewBuffer(data))
	if err != nil {
		return nil, errors.Wrap(err, "building openrouter request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", "https://github.com/saint0x/ggsum")
	httpReq.Header.Set("X-Title", "ggsum")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "calling openrouter")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Provider: o.Name(), Code: resp.StatusCode, Body: string(raw)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decoding openrouter response")
	}
	if parsed.Error != nil {
		return nil, errors.Newf("openrouter error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("openrouter returned no choices")
	}

	out := &Response{Provider: o.Name(), Text: parsed.Choices[0].Message.Content}
	if parsed.Usage != nil {
		out.Usage = &Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
		}
	}
	return out, nil
}

// WithEndpoint overrides the API endpoint, for tests.
func (o *OpenRouter) WithEndpoint(url string) *OpenRouter {
	o.endpoint = url
	return o
}

// WithHTTPClient overrides the HTTP client, for tests.
func (o *OpenRouter) WithHTTPClient(c HTTPClient) *OpenRouter {
	o.httpClient = c
	return o
}
