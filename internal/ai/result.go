package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/typelesshq/typeless/internal/models"
)

// ParseResult parses raw provider output into a GenerationResult, validating
// it strictly against the canonical shape. The backend's JSON mode is a
// best-effort hint, not a guarantee, so unknown keys, a missing article, or
// an empty social-post list are all ErrSchema rather than a best-effort
// partial result.
func ParseResult(raw string) (*models.GenerationResult, error) {
	cleaned := extractJSON(raw)

	// Pointer fields so that absent keys are distinguishable from
	// present-but-empty ones.
	var wire struct {
		Article     *models.Article      `json:"article"`
		SocialPosts *[]models.SocialPost `json:"socialPosts"`
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}

	if wire.Article == nil {
		return nil, fmt.Errorf("%w: missing article", ErrSchema)
	}
	if wire.Article.Title == "" {
		return nil, fmt.Errorf("%w: article has no title", ErrSchema)
	}
	if wire.Article.Content == "" {
		return nil, fmt.Errorf("%w: article has no content", ErrSchema)
	}
	if wire.SocialPosts == nil {
		return nil, fmt.Errorf("%w: missing socialPosts", ErrSchema)
	}
	if len(*wire.SocialPosts) == 0 {
		return nil, fmt.Errorf("%w: socialPosts is empty", ErrSchema)
	}

	return &models.GenerationResult{
		Article:     *wire.Article,
		SocialPosts: *wire.SocialPosts,
	}, nil
}

// extractJSON strips markdown code fences from a string that may contain
// JSON wrapped in ```json ... ``` or ``` ... ``` blocks. This handles the
// common case where LLMs return JSON inside code fences despite the JSON
// response directive.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Try ```json ... ``` first.
	if after, found := strings.CutPrefix(s, "```json"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	// Try plain ``` ... ```.
	if after, found := strings.CutPrefix(s, "```"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	return s
}
