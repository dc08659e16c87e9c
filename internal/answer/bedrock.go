package answer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// bedrockAPI is the subset of the Bedrock runtime client used here,
// extracted for tests.
type bedrockAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockGenerator generates answers with an Anthropic model on AWS Bedrock.
type BedrockGenerator struct {
	client  bedrockAPI
	modelID string
}

// NewBedrockGenerator creates the generator, resolving AWS credentials from
// the default chain.
func NewBedrockGenerator(ctx context.Context, modelID, region string) (*BedrockGenerator, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &BedrockGenerator{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}, nil
}

// Name identifies the generator in logs.
func (g *BedrockGenerator) Name() string { return "bedrock" }

type bedrockRequest struct {
	Prompt            string  `json:"prompt"`
	MaxTokensToSample int     `json:"max_tokens_to_sample"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
}

type bedrockResponse struct {
	Completion string `json:"completion"`
}

// Generate invokes the model with the retrieved context and returns its
// completion.
func (g *BedrockGenerator) Generate(ctx context.Context, query, contextBlock string) (string, error) {
	prompt := fmt.Sprintf(`Based on the following context, please answer the question. If the answer isn't in the context, say so.

Context:
%s

Question: %s

Answer:`, contextBlock, query)

	body, err := json.Marshal(bedrockRequest{
		Prompt:            fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
		MaxTokensToSample: 500,
		Temperature:       0.1,
		TopP:              0.9,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoke model %s: %w", g.modelID, err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.Completion == "" {
		return "", fmt.Errorf("model %s returned no completion", g.modelID)
	}
	return resp.Completion, nil
}
