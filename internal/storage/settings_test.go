package storage

import (
	"context"
	"errors"
	"testing"
)

func TestSettings_SetAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetSetting(ctx, SettingProvider, "gemini"); err != nil {
		t.Fatalf("SetSetting() error: %v", err)
	}

	var got string
	if err := store.GetSetting(ctx, SettingProvider, &got); err != nil {
		t.Fatalf("GetSetting() error: %v", err)
	}
	if got != "gemini" {
		t.Errorf("got %q, want %q", got, "gemini")
	}
}

func TestSettings_SetOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetSetting(ctx, SettingProvider, "gemini"); err != nil {
		t.Fatalf("first SetSetting() error: %v", err)
	}
	if err := store.SetSetting(ctx, SettingProvider, "openai"); err != nil {
		t.Fatalf("second SetSetting() error: %v", err)
	}

	var got string
	if err := store.GetSetting(ctx, SettingProvider, &got); err != nil {
		t.Fatalf("GetSetting() error: %v", err)
	}
	if got != "openai" {
		t.Errorf("got %q, want %q", got, "openai")
	}
}

func TestSettings_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	var got string
	err := store.GetSetting(context.Background(), "nonexistent", &got)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestGetAllSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetSetting(ctx, SettingProvider, "openai"); err != nil {
		t.Fatalf("SetSetting(provider) error: %v", err)
	}
	if err := store.SetSetting(ctx, SettingCurrentProject, int64(7)); err != nil {
		t.Fatalf("SetSetting(current_project) error: %v", err)
	}

	settings, err := store.GetAllSettings(ctx)
	if err != nil {
		t.Fatalf("GetAllSettings() error: %v", err)
	}
	if len(settings) != 2 {
		t.Fatalf("got %d settings, want 2", len(settings))
	}
	if string(settings[SettingProvider]) != `"openai"` {
		t.Errorf("settings[%s] = %s, want %q", SettingProvider, settings[SettingProvider], `"openai"`)
	}
	if string(settings[SettingCurrentProject]) != `7` {
		t.Errorf("settings[%s] = %s, want 7", SettingCurrentProject, settings[SettingCurrentProject])
	}
}
