package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/saint0x/ggsum/pkg/config"
)

// mockHTTPClient implements HTTPClient for testing
type mockHTTPClient struct {
	status   int
	response string
	err      error
	lastReq  *http.Request
	lastBody []byte
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	if req.Body != nil {
		m.lastBody, _ = io.ReadAll(req.Body)
	}
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(m.response)),
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		OpenRouterKey:   "or-key",
		GeminiKey:       "gm-key",
		OpenRouterModel: "test/model",
		GeminiModel:     "gemini-test",
		HTTPTimeout:     5 * time.Second,
	}
}

func TestOpenRouter_Complete(t *testing.T) {
	mock := &mockHTTPClient{
		response: `{"choices":[{"message":{"role":"assistant","content":"feat: add thing"}}],"usage":{"prompt_tokens":10,"completion_tokens":4}}`,
	}
	or := NewOpenRouter(testConfig()).WithHTTPClient(mock)

	resp, err := or.Complete(context.Background(), Request{Prompt: "hello", MaxTokens: 100, Temperature: 0.2})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "feat: add thing" {
		t.Errorf("unexpected completion %q", resp.Text)
	}
	if resp.Usage == nil || resp.Usage.PromptTokens != 10 {
		t.Errorf("usage metadata lost: %+v", resp.Usage)
	}

	if got := mock.lastReq.Header.Get("Authorization"); got != "Bearer or-key" {
		t.Errorf("wrong auth header %q", got)
	}

	var sent chatRequest
	if err := json.Unmarshal(mock.lastBody, &sent); err != nil {
		t.Fatalf("unmarshal sent body: %v", err)
	}
	if sent.Model != "test/model" {
		t.Errorf("expected configured model, got %q", sent.Model)
	}
	if len(sent.Messages) != 1 || sent.Messages[0].Content != "hello" {
		t.Errorf("prompt not forwarded: %+v", sent.Messages)
	}
}

func TestOpenRouter_StatusError(t *testing.T) {
	mock := &mockHTTPClient{status: http.StatusTooManyRequests, response: `{"error":{"message":"slow down"}}`}
	or := NewOpenRouter(testConfig()).WithHTTPClient(mock)

	_, err := or.Complete(context.Background(), Request{Prompt: "hello"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusTooManyRequests || !statusErr.Transient() {
		t.Errorf("rate limit should be transient, got %+v", statusErr)
	}
}

func TestGemini_Complete(t *testing.T) {
	mock := &mockHTTPClient{
		response: `{"candidates":[{"content":{"parts":[{"text":"## Summary\nwork happened"}]}}],"usageMetadata":{"promptTokenCount":20,"candidatesTokenCount":8}}`,
	}
	gm := NewGemini(testConfig()).WithHTTPClient(mock)

	resp, err := gm.Complete(context.Background(), Request{Prompt: "sum it", MaxTokens: 256, Temperature: 0.7})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "## Summary\nwork happened" {
		t.Errorf("unexpected completion %q", resp.Text)
	}
	if resp.Usage == nil || resp.Usage.CompletionTokens != 8 {
		t.Errorf("usage metadata lost: %+v", resp.Usage)
	}

	if got := mock.lastReq.Header.Get("x-goog-api-key"); got != "gm-key" {
		t.Errorf("wrong api key header %q", got)
	}
	if want := "/models/gemini-test:generateContent"; !bytes.Contains([]byte(mock.lastReq.URL.Path), []byte(want)) {
		t.Errorf("expected URL path containing %q, got %q", want, mock.lastReq.URL.Path)
	}

	var sent geminiRequest
	if err := json.Unmarshal(mock.lastBody, &sent); err != nil {
		t.Fatalf("unmarshal sent body: %v", err)
	}
	if len(sent.Contents) != 1 || sent.Contents[0].Parts[0].Text != "sum it" {
		t.Errorf("prompt not forwarded: %+v", sent.Contents)
	}
	if sent.GenerationConfig.MaxOutputTokens != 256 {
		t.Errorf("max tokens not forwarded: %+v", sent.GenerationConfig)
	}
}

func TestGemini_AuthError(t *testing.T) {
	mock := &mockHTTPClient{status: http.StatusForbidden, response: `{"error":{"message":"bad key"}}`}
	gm := NewGemini(testConfig()).WithHTTPClient(mock)

	_, err := gm.Complete(context.Background(), Request{Prompt: "x"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Transient() {
		t.Error("auth failure must not be transient")
	}
}

func TestGemini_NoCandidates(t *testing.T) {
	mock := &mockHTTPClient{response: `{"candidates":[]}`}
	gm := NewGemini(testConfig()).WithHTTPClient(mock)

	if _, err := gm.Complete(context.Background(), Request{Prompt: "x"}); err == nil {
		t.Error("empty candidate list should be an error")
	}
}
