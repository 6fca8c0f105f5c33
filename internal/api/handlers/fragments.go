package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/typelesshq/typeless/internal/clip"
	"github.com/typelesshq/typeless/internal/models"
	"github.com/typelesshq/typeless/internal/storage"
)

// ClipFunc extracts readable excerpts from URLs. It matches clip.FromURLs
// and exists so tests can avoid real network fetches.
type ClipFunc func(ctx context.Context, urls []string) ([]clip.Result, []clip.Failure)

// ListFragments handles GET /api/projects/{id}/fragments. Fragments come
// back newest-first.
func ListFragments(store *storage.Store) http.HandlerFunc {
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

		fragments, err := store.ListFragments(ctx, projectID)
		if err != nil {
			slog.Error("failed to list fragments", "project_id", projectID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list fragments")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"fragments": fragments})
	}
}

// AddFragment handles POST /api/projects/{id}/fragments.
func AddFragment(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		projectID, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var body struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		fragment, err := store.AddFragment(ctx, projectID, body.Content)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, fragment)
	}
}

// DeleteFragment handles DELETE /api/fragments/{id}.
func DeleteFragment(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.DeleteFragment(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Fragment not found")
				return
			}
			slog.Error("failed to delete fragment", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete fragment")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ClipFragments handles POST /api/projects/{id}/fragments/clip. Each URL's
// readable excerpt is saved as a new fragment; per-URL failures are reported
// alongside the successes rather than failing the request.
func ClipFragments(store *storage.Store, clipURLs ClipFunc) http.HandlerFunc {
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

		var body struct {
			URLs []string `json:"urls"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if len(body.URLs) == 0 {
			writeError(w, http.StatusBadRequest, "No URLs to clip")
			return
		}

		results, failures := clipURLs(ctx, body.URLs)

		fragments := make([]models.Fragment, 0, len(results))
		for _, res := range results {
			content := res.Excerpt
			if res.Title != "" {
				content = fmt.Sprintf("%s\n\n— %s（%s）", res.Excerpt, res.Title, res.URL)
			}
			fragment, err := store.AddFragment(ctx, projectID, content)
			if err != nil {
				slog.Error("failed to save clipped fragment", "url", res.URL, "error", err)
				failures = append(failures, clip.Failure{URL: res.URL, Error: err.Error()})
				continue
			}
			fragments = append(fragments, *fragment)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"fragments": fragments,
			"failed":    failures,
		})
	}
}
