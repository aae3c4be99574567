package ai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIService implements TextGenerator using the OpenAI chat completions API
type OpenAIService struct {
	client openai.Client
	model  string
}

// NewOpenAIService creates a new OpenAI service. Extra request options are
// appended after the API key, e.g. option.WithBaseURL for a compatible server.
func NewOpenAIService(apiKey, model string, opts ...option.RequestOption) *OpenAIService {
	if model == "" {
		model = DefaultOpenAIModel
	}
	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIService{
		client: openai.NewClient(reqOpts...),
		model:  model,
	}
}

func (o *OpenAIService) Name() string {
	return "openai"
}

// Generate implements TextGenerator
func (o *OpenAIService) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		Model:       shared.ChatModel(o.model),
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return completion.Choices[0].Message.Content, nil
}
