// Package ai converts inspiration fragments into a structured article and
// social posts via a single call to an external generative-text provider.
//
// Two interchangeable backends are supported (Google Gemini and OpenAI).
// Both are asked for a JSON-formatted response at temperature 0.7 and must
// return the same canonical shape, which is validated strictly on the way
// back in. The package is stateless: credentials and provider selection are
// passed into every call, and the only side effect is the one outbound
// network request.
package ai

import (
	"context"
	"fmt"
)

// Provider names accepted by NewProvider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default models per provider, used when ProviderConfig.Model is empty.
const (
	defaultGeminiModel = "gemini-2.0-flash"
	defaultOpenAIModel = "gpt-4o-mini"
)

// temperature is the sampling temperature sent to every backend.
const temperature = 0.7

// Prompt is the normalized request both backends accept: a fixed system
// instruction plus the serialized fragments. Gemini submits the two parts as
// one concatenated string; OpenAI submits them as a system/user message pair.
type Prompt struct {
	System string
	User   string
}

// Provider is the capability interface implemented once per backend.
// Complete issues exactly one request and returns the raw response text;
// it performs no retry and no fallback to another backend.
type Provider interface {
	// Complete submits the prompt and returns the backend's raw text.
	// Failures are returned wrapped in ErrTransport.
	Complete(ctx context.Context, prompt Prompt) (string, error)

	// Name returns the provider tag, for logging.
	Name() string
}

// ProviderConfig selects and credentials a backend for a single call.
// The API key is caller-supplied and never persisted by this package.
type ProviderConfig struct {
	Provider string // "gemini" | "openai"
	APIKey   string
	Model    string // optional; provider default when empty
}

// NewProvider creates the appropriate provider for the given config.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiProvider(cfg.APIKey, cfg.Model), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", cfg.Provider)
	}
}
