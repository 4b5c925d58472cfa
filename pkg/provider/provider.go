// Package provider abstracts over the AI completion backends. Each backend
// implements Provider; the Gateway picks between them with retry and
// fallback.
package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Request is one completion attempt's inputs. Retries and fallbacks issue new
// Requests rather than mutating an old one.
type Request struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Usage is provider-reported token accounting, when available.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Response is the raw completion from one provider.
type Response struct {
	Provider string
	Text     string
	Usage    *Usage
}

// Provider is a single AI completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// HTTPClient interface for mocking http.Client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is a non-2xx response from a provider API.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.Code, e.Body)
}

// Transient reports whether retrying the same provider could help:
// rate limits and server-side failures, but never auth or other 4xx errors.
func (e *StatusError) Transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// transient classifies any error from an attempt. Network failures and
// timeouts are retryable; a StatusError decides for itself.
func transient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Transient()
	}
	// Connection resets, DNS failures, and client timeouts all reach here.
	return true
}
