package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/typelesshq/typeless/internal/storage"
)

// ListProjects handles GET /api/projects. It returns all projects plus the
// ID of the currently selected project, if any.
func ListProjects(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		projects, err := store.ListProjects(ctx)
		if err != nil {
			slog.Error("failed to list projects", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list projects")
			return
		}

		var currentID int64
		if err := store.GetSetting(ctx, storage.SettingCurrentProject, &currentID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Error("failed to read current project", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to read current project")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"projects":   projects,
			"current_id": currentID,
		})
	}
}

// CreateProject handles POST /api/projects. The new project becomes the
// current one, matching the original flow of creating and switching at once.
func CreateProject(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		project, err := store.CreateProject(ctx, body.Name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.SetSetting(ctx, storage.SettingCurrentProject, project.ID); err != nil {
			slog.Error("failed to set current project", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to select new project")
			return
		}

		writeJSON(w, http.StatusCreated, project)
	}
}

// DeleteProject handles DELETE /api/projects/{id}. Fragments are removed by
// cascade.
func DeleteProject(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.DeleteProject(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Project not found")
				return
			}
			slog.Error("failed to delete project", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete project")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// SelectProject handles PUT /api/projects/current. It persists the selected
// project ID so the UI reopens where the user left off.
func SelectProject(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body struct {
			ID int64 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if _, err := store.GetProject(ctx, body.ID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Project not found")
				return
			}
			slog.Error("failed to look up project", "id", body.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to look up project")
			return
		}

		if err := store.SetSetting(ctx, storage.SettingCurrentProject, body.ID); err != nil {
			slog.Error("failed to set current project", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to select project")
			return
		}

		writeJSON(w, http.StatusOK, map[string]int64{"current_id": body.ID})
	}
}
