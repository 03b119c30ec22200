package oracle

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"choreflow/internal/logging"
)

// GeminiClient implements Client using Google's GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", ErrConfiguration)
	}
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create GenAI client: %v", ErrConfiguration, err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// GenerateDistribution sends the distribution prompt and returns the raw
// completion text.
func (c *GeminiClient) GenerateDistribution(ctx context.Context, req Request) (string, error) {
	prompt := BuildDistributionPrompt(req)
	logging.APIDebug("gemini request: model=%s, prompt=%d bytes", c.model, len(prompt))

	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.1), // low temperature for structured output
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("no completion returned")
	}

	logging.APIDebug("gemini response: %d bytes", len(text))
	return text, nil
}

// SetModel changes the model used for generation.
func (c *GeminiClient) SetModel(model string) {
	c.model = model
}

// GetModel returns the current model.
func (c *GeminiClient) GetModel() string {
	return c.model
}
