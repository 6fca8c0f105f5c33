package ai

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Compile-time interface check.
var _ Provider = (*OpenAIProvider)(nil)

// OpenAIProvider implements Provider using the OpenAI Chat Completions API
// via the official openai-go SDK.
//
// OpenAI takes the prompt as a system/user message pair and is steered to
// JSON output via the json_object response format.
type OpenAIProvider struct {
	apiKey string
	model  string
}

// NewOpenAIProvider creates an OpenAIProvider. An empty model selects the
// default OpenAI model.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{apiKey: apiKey, model: model}
}

// Name returns the provider tag.
func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

// Complete submits the system/user message pair in a single request and
// returns the raw content of the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(option.WithAPIKey(p.apiKey))

	slog.Debug("calling OpenAI API", "model", p.model)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		Temperature: openai.Float(temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %w", ErrTransport, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai: empty choices", ErrTransport)
	}
	return resp.Choices[0].Message.Content, nil
}
