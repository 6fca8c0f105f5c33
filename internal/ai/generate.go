package ai

import (
	"context"
	"log/slog"

	"github.com/typelesshq/typeless/internal/models"
)

// Generate converts the given fragments into an article and social posts
// with exactly one request to the configured provider.
//
// Input is checked defensively before any request is issued: an empty
// fragment list is ErrNoFragments and a missing credential is ErrNoAPIKey.
// On failure the error is ErrTransport or ErrSchema; no retry, no partial
// recovery, and no fallback to the other backend is attempted.
//
// The adapters impose no timeout of their own; the caller bounds the call
// through ctx and owns responsiveness around it (busy indicators etc.).
func Generate(ctx context.Context, cfg ProviderConfig, fragments []models.Fragment, promotion *models.PromotionInfo) (*models.GenerationResult, error) {
	if len(fragments) == 0 {
		return nil, ErrNoFragments
	}
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return GenerateWith(ctx, provider, fragments, promotion)
}

// GenerateWith is Generate with an already-constructed provider. Fragments
// must be non-empty.
func GenerateWith(ctx context.Context, provider Provider, fragments []models.Fragment, promotion *models.PromotionInfo) (*models.GenerationResult, error) {
	if len(fragments) == 0 {
		return nil, ErrNoFragments
	}

	prompt := Prompt{
		System: systemPrompt,
		User:   BuildUserPrompt(fragments, promotion),
	}

	slog.Info("generating content",
		"provider", provider.Name(),
		"fragments", len(fragments),
		"promotion", promotion.Set(),
	)

	raw, err := provider.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := ParseResult(raw)
	if err != nil {
		return nil, err
	}

	slog.Info("generation complete",
		"provider", provider.Name(),
		"title", result.Article.Title,
		"social_posts", len(result.SocialPosts),
	)
	return result, nil
}
