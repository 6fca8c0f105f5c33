package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/typelesshq/typeless/internal/ai"
	"github.com/typelesshq/typeless/internal/storage"
)

// settingsResponse is what GET /api/settings returns. The stored API key is
// never echoed back in full; only a masked hint leaves the process.
type settingsResponse struct {
	Provider     string `json:"provider"`
	APIKeySet    bool   `json:"api_key_set"`
	APIKeyMasked string `json:"api_key_masked,omitempty"`
}

// maskKey hides all but the last four characters of a credential.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("•", len(key))
	}
	return "••••" + key[len(key)-4:]
}

// GetSettings handles GET /api/settings.
func GetSettings(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var resp settingsResponse
		if err := store.GetSetting(ctx, storage.SettingProvider, &resp.Provider); err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Error("failed to get settings", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get settings")
			return
		}

		var apiKey string
		if err := store.GetSetting(ctx, storage.SettingAPIKey, &apiKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Error("failed to get settings", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get settings")
			return
		}
		resp.APIKeySet = apiKey != ""
		resp.APIKeyMasked = maskKey(apiKey)

		writeJSON(w, http.StatusOK, resp)
	}
}

// UpdateSettings handles PUT /api/settings. It stores the provider selection
// and API key for later generation calls. An empty api_key leaves the stored
// key untouched so the UI can change providers without re-entering it.
func UpdateSettings(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body struct {
			Provider string `json:"provider"`
			APIKey   string `json:"api_key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		switch body.Provider {
		case ai.ProviderGemini, ai.ProviderOpenAI:
			// valid
		default:
			writeError(w, http.StatusBadRequest, "Provider must be \"gemini\" or \"openai\"")
			return
		}

		if err := store.SetSetting(ctx, storage.SettingProvider, body.Provider); err != nil {
			slog.Error("failed to save provider setting", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}

		if body.APIKey != "" {
			if err := store.SetSetting(ctx, storage.SettingAPIKey, body.APIKey); err != nil {
				slog.Error("failed to save api key setting", "error", err)
				writeError(w, http.StatusInternalServerError, "Failed to save settings")
				return
			}
		}

		GetSettings(store).ServeHTTP(w, r)
	}
}
