package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/reviewlens/reviewlens/internal/config"
)

type llmClient struct {
	llm         llms.Model
	temperature float64
	maxTokens   int
}

func newLLMClient(cfg Config) (*llmClient, error) {
	if cfg.ModelName == "" {
		return nil, config.Errorf("llm model name is required")
	}

	client, err := ollama.New(
		ollama.WithModel(cfg.ModelName),
		ollama.WithServerURL(cfg.OllamaURL),
		ollama.WithKeepAlive("5m"),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	return &llmClient{
		llm:         client,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
	}, nil
}

func (c *llmClient) generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("llm call timed out: %w", err)
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty llm response")
	}
	return resp.Choices[0].Content, nil
}
