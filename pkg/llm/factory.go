package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/helmcode/ticketctl/pkg/config"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// ErrNotConfigured means no provider has an API key.
var ErrNotConfigured = errors.New("no LLM provider configured (set ANTHROPIC_API_KEY or OPENAI_API_KEY)")

// GetAvailableProviders returns a list of available LLM providers
func GetAvailableProviders() []Provider {
	return []Provider{ProviderClaude, ProviderOpenAI}
}

// CreateFromConfig creates an LLM instance from configuration. The
// overrides, usually from command-line flags, win over cfg.
//
// With no provider named, the first provider with an API key is used,
// Claude before OpenAI.
func CreateFromConfig(cfg config.LLMConfig, providerOverride, modelOverride string) (LLM, error) {
	provider := strings.ToLower(providerOverride)
	if provider == "" {
		provider = cfg.Provider
	}
	model := modelOverride
	if model == "" {
		model = cfg.Model
	}

	switch Provider(provider) {
	case ProviderClaude:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		if model == "" {
			model = cfg.ClaudeModel
		}
		return NewClaude(cfg.AnthropicAPIKey, WithModel(model)), nil

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		if model == "" {
			model = cfg.OpenAIModel
		}
		return NewOpenAI(cfg.OpenAIAPIKey, WithModel(model)), nil

	case "":
		switch {
		case cfg.AnthropicAPIKey != "":
			return CreateFromConfig(cfg, string(ProviderClaude), model)
		case cfg.OpenAIAPIKey != "":
			return CreateFromConfig(cfg, string(ProviderOpenAI), model)
		}
		return nil, ErrNotConfigured

	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: claude, openai)", provider)
	}
}
