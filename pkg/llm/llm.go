package llm

import (
	"context"
	"net/http"
	"time"
)

// LLM is a chat model that answers a single system+user exchange.
type LLM interface {
	Chat(ctx context.Context, system, prompt string) (string, error)
	GetModel() string
}

type settings struct {
	model    string
	endpoint string
	client   *http.Client
}

type Option func(*settings)

func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithEndpoint overrides the API URL, for proxies and tests.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) { s.endpoint = endpoint }
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) { s.client = client }
}

func apply(model, endpoint string, opts []Option) settings {
	s := settings{
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
