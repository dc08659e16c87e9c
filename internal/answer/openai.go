package answer

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openaiSystemPrompt = `You are a helpful assistant that answers questions based ONLY on the provided context.
Rules:
1. Answer only based on the context provided.
2. If the answer isn't in the context, say "I don't have that information in my documents".
3. Be concise but complete.
4. Don't make up information.`

// OpenAIGenerator generates answers via an OpenAI-compatible chat API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// OpenAIConfig configures the generator.
type OpenAIConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
}

// NewOpenAIGenerator creates the generator. A missing API key is a
// construction error so misconfiguration surfaces at startup.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("answer: missing API key in env %s", cfg.APIKeyEnv)
	}
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIGenerator{client: openai.NewClient(opts...), model: model}, nil
}

// Name identifies the generator in logs.
func (g *OpenAIGenerator) Name() string { return "openai" }

// Generate asks the chat model to answer from the retrieved context.
func (g *OpenAIGenerator) Generate(ctx context.Context, query, contextBlock string) (string, error) {
	prompt := fmt.Sprintf("Context: %s\n\nQuestion: %s\n\nAnswer:", contextBlock, query)
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openaiSystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %s returned no choices", g.model)
	}
	return resp.Choices[0].Message.Content, nil
}
