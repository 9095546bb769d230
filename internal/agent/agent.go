// Package agent provides text-completion clients for the language model
// that scores redacted documents.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingAPIKey indicates no API key was configured for the provider.
	ErrMissingAPIKey = errors.New("agent api key required")
	// ErrEmptyCompletion indicates the provider returned no text.
	ErrEmptyCompletion = errors.New("completion returned no text")
)

// Request is a single system + user prompt exchange.
type Request struct {
	System string
	Prompt string
}

// Response is the text returned for a Request.
type Response struct {
	Content      string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// Client sends completion requests to a language model.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (*Response, error)

func (f ClientFunc) Complete(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// New creates a client for the configured provider. Every call is bounded
// by the configured timeout.
func New(cfg *Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: provider %s", ErrMissingAPIKey, cfg.Provider)
	}

	var c Client
	switch cfg.Provider {
	case ProviderOpenAI:
		c = newOpenAI(cfg)
	case ProviderAnthropic:
		c = newAnthropic(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}

	return WithTimeout(c, cfg.TimeoutDuration()), nil
}

// WithTimeout bounds every Complete call on c by d. A non-positive d
// returns c unchanged.
func WithTimeout(c Client, d time.Duration) Client {
	if d <= 0 {
		return c
	}
	return ClientFunc(func(ctx context.Context, req Request) (*Response, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return c.Complete(ctx, req)
	})
}
