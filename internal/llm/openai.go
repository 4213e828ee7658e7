package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"golang.org/x/time/rate"
)

// OpenAIClient implements the Client interface using OpenAI's API.
type OpenAIClient struct {
	client  openai.Client
	limiter *rate.Limiter
}

// NewOpenAIClient creates an OpenAI-backed client.
// Returns an error if the API key is missing.
func NewOpenAIClient(config Config, opts ...option.RequestOption) (*OpenAIClient, error) {
	// Use config API key or fall back to environment variable
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set OPENAI_API_KEY or provide in config)", ErrInvalidConfig)
	}
	if config.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("%w: requests per second must not be negative", ErrInvalidConfig)
	}

	// Failed requests are surfaced to the caller, never retried
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(config.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	c := &OpenAIClient{
		client: openai.NewClient(clientOpts...),
	}
	if config.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return c, nil
}

// Complete sends the request to the chat completions endpoint.
func (o *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) ([]Completion, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("%w: at least one message is required", ErrInvalidConfig)
	}
	if req.Model == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: toOpenAIMessages(req.Messages),
	}

	// Set optional parameters if configured
	if req.N > 0 {
		params.N = openai.Int(int64(req.N))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.Schema != nil {
		schema := openai.ResponseFormatJSONSchemaJSONSchemaParam{
			Name:   req.Schema.Name,
			Schema: req.Schema.Definition,
			Strict: openai.Bool(true),
		}
		if req.Schema.Description != "" {
			schema.Description = openai.String(req.Schema.Description)
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schema},
		}
	}

	if err := o.wait(ctx); err != nil {
		return nil, err
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLLMFailed, err)
	}

	out := make([]Completion, len(completion.Choices))
	for i, choice := range completion.Choices {
		out[i] = Completion{
			Content: choice.Message.Content,
			Refusal: choice.Message.Refusal,
		}
	}
	return out, nil
}

// GenerateImage requests one image from the images endpoint.
func (o *OpenAIClient) GenerateImage(ctx context.Context, req ImageRequest) (Image, error) {
	if req.Prompt == "" {
		return Image{}, fmt.Errorf("%w: prompt cannot be empty", ErrInvalidConfig)
	}

	format := openai.ImageGenerateParamsResponseFormatURL
	if req.Format == ImageFormatBase64 {
		format = openai.ImageGenerateParamsResponseFormatB64JSON
	}

	params := openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openai.ImageModel(req.Model),
		ResponseFormat: format,
	}

	if err := o.wait(ctx); err != nil {
		return Image{}, err
	}

	resp, err := o.client.Images.Generate(ctx, params)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrLLMFailed, err)
	}
	if len(resp.Data) == 0 {
		return Image{}, nil
	}

	return Image{
		URL:     resp.Data[0].URL,
		B64JSON: resp.Data[0].B64JSON,
	}, nil
}

func (o *OpenAIClient) wait(ctx context.Context) error {
	if o.limiter == nil {
		return nil
	}
	if err := o.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", ErrLLMFailed, err)
	}
	return nil
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
