package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/typelesshq/typeless/internal/ai"
	"github.com/typelesshq/typeless/internal/config"
	"github.com/typelesshq/typeless/internal/models"
	"github.com/typelesshq/typeless/internal/render"
	"github.com/typelesshq/typeless/internal/storage"
)

// GenerateFunc converts fragments into a generation result. It matches
// ai.Generate and exists so tests can avoid real provider calls.
type GenerateFunc func(ctx context.Context, cfg ai.ProviderConfig, fragments []models.Fragment, promotion *models.PromotionInfo) (*models.GenerationResult, error)

// generateRequest is the body of POST /api/projects/{id}/generate. Provider,
// API key, and model are optional per-request overrides; stored settings and
// then the config file fill the gaps.
type generateRequest struct {
	Provider  string                `json:"provider,omitempty"`
	APIKey    string                `json:"api_key,omitempty"`
	Model     string                `json:"model,omitempty"`
	Promotion *models.PromotionInfo `json:"promotion,omitempty"`
}

// generateResponse carries the result plus a rendered HTML preview of the
// article. Nothing here is persisted; the result lives only in this response.
type generateResponse struct {
	Provider        string              `json:"provider"`
	Article         models.Article      `json:"article"`
	ArticleMarkdown string              `json:"article_markdown"`
	ArticleHTML     string              `json:"article_html"`
	SocialPosts     []models.SocialPost `json:"social_posts"`
}

// Generate handles POST /api/projects/{id}/generate. It loads the project's
// fragments in display order, resolves the provider configuration, makes the
// single AI call, and returns the structured result.
//
// The call is bounded by the configured generation timeout; within that
// bound it blocks for the full network round trip. There is no retry and no
// fallback to the other provider.
func Generate(store *storage.Store, cfg *config.Config, generate GenerateFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		projectID, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if _, err := store.GetProject(ctx, projectID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Project not found")
				return
			}
			slog.Error("failed to look up project", "id", projectID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to look up project")
			return
		}

		var req generateRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid JSON body")
				return
			}
		}

		fragments, err := store.ListFragments(ctx, projectID)
		if err != nil {
			slog.Error("failed to list fragments", "project_id", projectID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list fragments")
			return
		}
		if len(fragments) == 0 {
			writeError(w, http.StatusBadRequest, "Project has no fragments to convert")
			return
		}

		providerCfg, err := resolveProviderConfig(ctx, store, cfg, req)
		if err != nil {
			slog.Error("failed to resolve provider config", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load settings")
			return
		}
		if providerCfg.APIKey == "" {
			writeError(w, http.StatusBadRequest,
				"No API key configured. Set one in settings or config.toml")
			return
		}

		ctx, cancel := context.WithTimeout(ctx,
			time.Duration(cfg.Generate.TimeoutSeconds)*time.Second)
		defer cancel()

		result, err := generate(ctx, providerCfg, fragments, req.Promotion)
		if err != nil {
			switch {
			case errors.Is(err, ai.ErrNoFragments), errors.Is(err, ai.ErrNoAPIKey):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ai.ErrSchema):
				slog.Error("generation returned malformed result", "error", err)
				writeError(w, http.StatusBadGateway, "generation failed: "+err.Error())
			default:
				slog.Error("generation failed", "error", err)
				writeError(w, http.StatusBadGateway, "generation failed: "+err.Error())
			}
			return
		}

		html, err := render.ArticleHTML(result.Article)
		if err != nil {
			slog.Error("failed to render article preview", "error", err)
			// The structured result is still usable without the preview.
			html = ""
		}

		writeJSON(w, http.StatusOK, generateResponse{
			Provider:        providerCfg.Provider,
			Article:         result.Article,
			ArticleMarkdown: render.ArticleMarkdown(result.Article),
			ArticleHTML:     html,
			SocialPosts:     result.SocialPosts,
		})
	}
}

// resolveProviderConfig assembles the per-call provider configuration:
// request overrides win, then stored settings, then the config file.
func resolveProviderConfig(ctx context.Context, store *storage.Store, cfg *config.Config, req generateRequest) (ai.ProviderConfig, error) {
	out := ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
	}

	var stored string
	if err := store.GetSetting(ctx, storage.SettingProvider, &stored); err == nil {
		out.Provider = stored
	} else if !errors.Is(err, storage.ErrNotFound) {
		return ai.ProviderConfig{}, err
	}

	var storedKey string
	if err := store.GetSetting(ctx, storage.SettingAPIKey, &storedKey); err == nil {
		out.APIKey = storedKey
	} else if !errors.Is(err, storage.ErrNotFound) {
		return ai.ProviderConfig{}, err
	}

	if req.Provider != "" {
		out.Provider = req.Provider
	}
	if req.APIKey != "" {
		out.APIKey = req.APIKey
	}
	if req.Model != "" {
		out.Model = req.Model
	}
	return out, nil
}
