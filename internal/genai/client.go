package genai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/uniflow-app/uniflow-api/internal/config"
	"go.uber.org/zap"
)

// Image is an inline image handed to the vision path
type Image struct {
	MediaType string
	Data      []byte
}

// Generator produces text completions. The prompt layer assembles a single
// user message; conversation state lives in the proposal document itself.
type Generator interface {
	// Complete sends a plain text prompt and returns the raw model output
	Complete(ctx context.Context, prompt string) (string, error)
	// CompleteWithImages sends a prompt together with inline images
	CompleteWithImages(ctx context.Context, prompt string, images []Image) (string, error)
}

// OpenAIClient implements Generator against the OpenAI chat completions API
type OpenAIClient struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIClient creates a generation client. Returns ErrNotConfigured
// when no API key is present so callers can degrade to 503 instead of
// failing at request time.
func NewOpenAIClient(cfg *config.AIConfig, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))

	logger.Info("generation client configured", zap.String("model", cfg.Model))

	return &OpenAIClient{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// Complete sends a single user message and returns the model output
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		c.logger.Error("chat completion failed", zap.Error(err))
		return "", Classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Reason: ReasonOther, Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteWithImages sends the prompt with inline images as data URLs
func (c *OpenAIClient) CompleteWithImages(ctx context.Context, prompt string, images []Image) (string, error) {
	if len(images) == 0 {
		return c.Complete(ctx, prompt)
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
	}
	for _, img := range images {
		dataURL := fmt.Sprintf("data:%s;base64,%s", img.MediaType, base64.StdEncoding.EncodeToString(img.Data))
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}))
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
	})
	if err != nil {
		c.logger.Error("vision completion failed", zap.Error(err))
		return "", Classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Reason: ReasonOther, Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}
