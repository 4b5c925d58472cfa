package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/saint0x/ggsum/pkg/config"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini talks to the Google Generative Language API.
type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient HTTPClient
}

// NewGemini builds a Gemini provider from config.
func NewGemini(cfg *config.Config) *Gemini {
	return &Gemini{
		apiKey:     cfg.GeminiKey,
		model:      cfg.GeminiModel,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Name implements Provider.
func (g *Gemini) Name() string { return config.ProviderGemini }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// Complete implements Provider.
func (g *Gemini) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling gemini request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, errors.Wrap(err, "building gemini request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "calling gemini")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Provider: g.Name(), Code: resp.StatusCode, Body: string(raw)}
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decoding gemini response")
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("gemini returned no candidates")
	}

	out := &Response{Provider: g.Name(), Text: parsed.Candidates[0].Content.Parts[0].Text}
	if parsed.UsageMetadata != nil {
		out.Usage = &Usage{
			PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
			CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
		}
	}
	return out, nil
}

// WithBaseURL overrides the API base URL, for tests.
func (g *Gemini) WithBaseURL(url string) *Gemini {
	g.baseURL = url
	return g
}

// WithHTTPClient overrides the HTTP client, for tests.
func (g *Gemini) WithHTTPClient(c HTTPClient) *Gemini {
	g.httpClient = c
	return g
}
