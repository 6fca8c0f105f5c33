package ai

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// Compile-time interface check.
var _ Provider = (*GeminiProvider)(nil)

// GeminiProvider implements Provider using the Google Gemini API.
//
// Gemini takes the whole prompt as one concatenated string and is steered to
// JSON output via the response MIME type.
type GeminiProvider struct {
	apiKey string
	model  string
}

// NewGeminiProvider creates a GeminiProvider. An empty model selects the
// default Gemini model.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

// Name returns the provider tag.
func (p *GeminiProvider) Name() string { return ProviderGemini }

// Complete submits the concatenated system+user prompt in a single request
// and returns the raw response text.
func (p *GeminiProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: p.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("%w: creating gemini client: %w", ErrTransport, err)
	}

	full := prompt.System + "\n\n" + prompt.User

	slog.Debug("calling Gemini API", "model", p.model)

	resp, err := client.Models.GenerateContent(ctx,
		p.model,
		genai.Text(full),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", ErrTransport, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini: empty response", ErrTransport)
	}
	return text, nil
}
