// Package studio wraps the image side of the model API: turning a short
// description into a detailed image prompt, and rendering a prompt into an
// image. Both calls are single request/response operations that share the
// completion client with the post pipeline but nothing else.
package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Yates-Labs/postcraft/internal/llm"
	"go.uber.org/zap"
)

var (
	ErrEmptyInput = errors.New("input cannot be empty")
)

const imagePromptInstruction = `You are an assistant that take a description and style and generate a prompt that will be used later to generate images, make it a very long and descriptive explanation, and write a lot of things for the renderer like, if it's realistic describe the camera`

// picturePromptSchema forces the model to answer with a single "prompt" field.
var picturePromptSchema = llm.Schema{
	Name: "picturePrompt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{"type": "string"},
		},
		"required":             []string{"prompt"},
		"additionalProperties": false,
	},
}

// Config holds the model identifiers used by the studio.
type Config struct {
	// PromptModel must support schema-constrained output
	PromptModel string

	// ImageModel renders images (e.g., "dall-e-3")
	ImageModel string
}

// DefaultConfig returns the models used for image prompts and images.
func DefaultConfig() Config {
	return Config{
		PromptModel: "gpt-4o-2024-08-06",
		ImageModel:  "dall-e-3",
	}
}

// Studio generates image prompts and images.
type Studio struct {
	client llm.Client
	config Config
	logger *zap.Logger
}

// New creates a studio backed by client.
func New(client llm.Client, config Config, logger *zap.Logger) (*Studio, error) {
	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}
	defaults := DefaultConfig()
	if config.PromptModel == "" {
		config.PromptModel = defaults.PromptModel
	}
	if config.ImageModel == "" {
		config.ImageModel = defaults.ImageModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Studio{client: client, config: config, logger: logger}, nil
}

// GenerateImagePrompt expands description into a detailed image prompt.
// It returns an empty string when the model declines to fill the prompt.
func (s *Studio) GenerateImagePrompt(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("%w: description", ErrEmptyInput)
	}

	schema := picturePromptSchema
	completions, err := s.client.Complete(ctx, llm.CompletionRequest{
		Model: s.config.PromptModel,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: imagePromptInstruction},
			{Role: llm.RoleUser, Content: "prompt: " + description},
		},
		Schema: &schema,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate image prompt: %w", err)
	}

	if len(completions) == 0 {
		s.logger.Warn("Image prompt response had no choices")
		return "", nil
	}
	choice := completions[0]
	if choice.Refusal != "" {
		s.logger.Warn("Model refused image prompt", zap.String("refusal", choice.Refusal))
		return "", nil
	}

	var parsed struct {
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal([]byte(choice.Content), &parsed); err != nil {
		s.logger.Warn("Image prompt response was not valid JSON", zap.Error(err))
		return "", nil
	}

	return parsed.Prompt, nil
}

// GenerateImage renders prompt into one image and returns its URL, or its
// base64 payload when wantURL is false. A response without the requested
// field yields an empty string.
func (s *Studio) GenerateImage(ctx context.Context, prompt string, wantURL bool) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt", ErrEmptyInput)
	}

	format := llm.ImageFormatBase64
	if wantURL {
		format = llm.ImageFormatURL
	}

	img, err := s.client.GenerateImage(ctx, llm.ImageRequest{
		Prompt: prompt,
		Model:  s.config.ImageModel,
		Format: format,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}

	if wantURL {
		return img.URL, nil
	}
	return img.B64JSON, nil
}
