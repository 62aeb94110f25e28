package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for ticketctl.
type Config struct {
	API    APIConfig
	Form   FormConfig
	LLM    LLMConfig
	Logger LoggerConfig
}

// APIConfig locates the ticket API.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// FormConfig tunes the suggestion debounce.
type FormConfig struct {
	DebounceMillis       int
	MinDescriptionLength int
	// Classifier is "remote" (ask the ticket API) or "local" (ask an LLM
	// directly).
	Classifier string
}

// LLMConfig selects the model used for local classification.
type LLMConfig struct {
	Provider        string
	Model           string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	ClaudeModel     string
	OpenAIModel     string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// File receives log output. Empty means stderr.
	File string
}

const (
	ClassifierRemote = "remote"
	ClassifierLocal  = "local"
)

// Load reads configuration from the environment (and a .env file when
// present), applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:        getEnv("TICKETS_API_BASE_URL", "http://localhost:8000/api"),
			TimeoutSeconds: getEnvAsInt("TICKETS_API_TIMEOUT_SECONDS", 30),
		},
		Form: FormConfig{
			DebounceMillis:       getEnvAsInt("FORM_DEBOUNCE_MS", 700),
			MinDescriptionLength: getEnvAsInt("FORM_MIN_DESCRIPTION_LENGTH", 15),
			Classifier:           strings.ToLower(getEnv("CLASSIFIER", ClassifierRemote)),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(os.Getenv("LLM_PROVIDER")),
			Model:           os.Getenv("LLM_MODEL"),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			ClaudeModel:     os.Getenv("CLAUDE_MODEL"),
			OpenAIModel:     os.Getenv("OPENAI_MODEL"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no safe fallback.
func (c *Config) Validate() error {
	switch c.Form.Classifier {
	case ClassifierRemote, ClassifierLocal:
	default:
		return fmt.Errorf("invalid CLASSIFIER %q (supported: remote, local)", c.Form.Classifier)
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("invalid TICKETS_API_BASE_URL %q: must start with http:// or https://", c.API.BaseURL)
	}
	return nil
}

// Timeout returns the per-request timeout for the ticket API.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Debounce returns the quiet period before a suggestion is requested.
func (f FormConfig) Debounce() time.Duration {
	return time.Duration(f.DebounceMillis) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
