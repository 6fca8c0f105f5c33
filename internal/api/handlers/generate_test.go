package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/typelesshq/typeless/internal/ai"
	"github.com/typelesshq/typeless/internal/config"
	"github.com/typelesshq/typeless/internal/models"
	"github.com/typelesshq/typeless/internal/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		AI:       config.AIConfig{Provider: "gemini", APIKey: "file-key"},
		Generate: config.GenerateConfig{TimeoutSeconds: 5},
	}
}

// stubGenerate returns a fixed result and records the config it was called with.
func stubGenerate(result *models.GenerationResult, err error, got *ai.ProviderConfig) GenerateFunc {
	return func(_ context.Context, cfg ai.ProviderConfig, _ []models.Fragment, _ *models.PromotionInfo) (*models.GenerationResult, error) {
		if got != nil {
			*got = cfg
		}
		return result, err
	}
}

func sampleResult() *models.GenerationResult {
	return &models.GenerationResult{
		Article: models.Article{Title: "慢下來的一週", Content: "## 開始\n\n這是一篇測試文章。"},
		SocialPosts: []models.SocialPost{
			{Platform: "Threads", Content: "貼文一"},
			{Platform: "Instagram", Content: "貼文二"},
			{Platform: "Facebook", Content: "貼文三"},
			{Platform: "Twitter/X", Content: "貼文四"},
		},
	}
}

func newGenerateRequest(projectID int64, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(http.MethodPost, "/api/projects/1/generate", nil)
	} else {
		r = httptest.NewRequest(http.MethodPost, "/api/projects/1/generate", bytes.NewBufferString(body))
	}
	return withURLParam(r, "id", fmt.Sprintf("%d", projectID))
}

func TestGenerateSuccess(t *testing.T) {
	store := newTestStore(t)
	project := createTestProject(t, store, "essay")
	if _, err := store.AddFragment(context.Background(), project.ID, "一個想法"); err != nil {
		t.Fatalf("adding fragment: %v", err)
	}

	var gotCfg ai.ProviderConfig
	handler := Generate(store, testConfig(), stubGenerate(sampleResult(), nil, &gotCfg))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newGenerateRequest(project.ID, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp generateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Article.Title != "慢下來的一週" {
		t.Errorf("got title %q, want %q", resp.Article.Title, "慢下來的一週")
	}
	if len(resp.SocialPosts) != 4 {
		t.Errorf("got %d social posts, want 4", len(resp.SocialPosts))
	}
	if !strings.HasPrefix(resp.ArticleMarkdown, "# 慢下來的一週") {
		t.Errorf("markdown missing title heading: %q", resp.ArticleMarkdown)
	}
	if !strings.Contains(resp.ArticleHTML, "<h2") {
		t.Errorf("HTML preview missing rendered heading: %q", resp.ArticleHTML)
	}
	if gotCfg.APIKey != "file-key" {
		t.Errorf("got api key %q, want the config file fallback", gotCfg.APIKey)
	}
}

func TestGenerateProjectNotFound(t *testing.T) {
	store := newTestStore(t)

	handler := Generate(store, testConfig(), stubGenerate(sampleResult(), nil, nil))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newGenerateRequest(99999, ""))

	if w.Code != http.StatusNotFound {
		t.Errorf("got status %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGenerateNoFragments(t *testing.T) {
	store := newTestStore(t)
	project := createTestProject(t, store, "empty")

	called := false
	handler := Generate(store, testConfig(), func(_ context.Context, _ ai.ProviderConfig, _ []models.Fragment, _ *models.PromotionInfo) (*models.GenerationResult, error) {
		called = true
		return nil, nil
	})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newGenerateRequest(project.ID, ""))

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if called {
		t.Error("generate func should not run for an empty project")
	}
}

func TestGenerateNoAPIKey(t *testing.T) {
	store := newTestStore(t)
	project := createTestProject(t, store, "essay")
	if _, err := store.AddFragment(context.Background(), project.ID, "一個想法"); err != nil {
		t.Fatalf("adding fragment: %v", err)
	}

	cfg := testConfig()
	cfg.AI.APIKey = ""

	handler := Generate(store, cfg, stubGenerate(sampleResult(), nil, nil))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newGenerateRequest(project.ID, ""))

	if w.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"transport error", fmt.Errorf("%w: connection refused", ai.ErrTransport), http.StatusBadGateway},
		{"schema error", fmt.Errorf("%w: missing article", ai.ErrSchema), http.StatusBadGateway},
		{"no api key sentinel", ai.ErrNoAPIKey, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			project := createTestProject(t, store, "essay")
			if _, err := store.AddFragment(context.Background(), project.ID, "一個想法"); err != nil {
				t.Fatalf("adding fragment: %v", err)
			}

			handler := Generate(store, testConfig(), stubGenerate(nil, tt.err, nil))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newGenerateRequest(project.ID, ""))

			if w.Code != tt.want {
				t.Errorf("got status %d, want %d; body: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGenerateResolvesOverrides(t *testing.T) {
	store := newTestStore(t)
	project := createTestProject(t, store, "essay")
	if _, err := store.AddFragment(context.Background(), project.ID, "一個想法"); err != nil {
		t.Fatalf("adding fragment: %v", err)
	}

	// Stored settings should beat the config file.
	ctx := context.Background()
	if err := store.SetSetting(ctx, storage.SettingProvider, "openai"); err != nil {
		t.Fatalf("saving provider setting: %v", err)
	}
	if err := store.SetSetting(ctx, storage.SettingAPIKey, "stored-key"); err != nil {
		t.Fatalf("saving api key setting: %v", err)
	}

	var gotCfg ai.ProviderConfig
	handler := Generate(store, testConfig(), stubGenerate(sampleResult(), nil, &gotCfg))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newGenerateRequest(project.ID, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if gotCfg.Provider != "openai" || gotCfg.APIKey != "stored-key" {
		t.Errorf("got provider=%q key=%q, want stored settings to win over the config file", gotCfg.Provider, gotCfg.APIKey)
	}

	// A request body override should beat both.
	body := `{"provider": "gemini", "api_key": "request-key", "model": "gemini-2.5-pro"}`
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, newGenerateRequest(project.ID, body))

	if w2.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d; body: %s", w2.Code, http.StatusOK, w2.Body.String())
	}
	if gotCfg.Provider != "gemini" || gotCfg.APIKey != "request-key" || gotCfg.Model != "gemini-2.5-pro" {
		t.Errorf("got %+v, want request overrides to win", gotCfg)
	}
}

func TestGeneratePassesPromotion(t *testing.T) {
	store := newTestStore(t)
	project := createTestProject(t, store, "essay")
	if _, err := store.AddFragment(context.Background(), project.ID, "一個想法"); err != nil {
		t.Fatalf("adding fragment: %v", err)
	}

	var gotPromo *models.PromotionInfo
	handler := Generate(store, testConfig(), func(_ context.Context, _ ai.ProviderConfig, _ []models.Fragment, promotion *models.PromotionInfo) (*models.GenerationResult, error) {
		gotPromo = promotion
		return sampleResult(), nil
	})

	body := `{"promotion": {"product_name": "寫作課", "link": "https://example.com/course"}}`
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newGenerateRequest(project.ID, body))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if gotPromo == nil || gotPromo.ProductName != "寫作課" || gotPromo.Link != "https://example.com/course" {
		t.Errorf("got promotion %+v, want it forwarded from the request body", gotPromo)
	}
}
