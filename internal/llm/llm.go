// Package llm defines the completion client used by postcraft. It exposes a
// provider-agnostic Client interface with a concrete implementation for the
// OpenAI API (and compatible endpoints) and a scripted mock for testing.
package llm

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
)

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// Schema constrains a completion to a named JSON schema.
type Schema struct {
	// Name identifies the schema to the provider (e.g., "picturePrompt")
	Name string

	// Description is optional guidance sent alongside the schema
	Description string

	// Definition is the JSON schema document
	Definition map[string]any
}

// CompletionRequest describes one call to the completion endpoint.
type CompletionRequest struct {
	// Model is passed through to the provider untouched
	Model string

	Messages []Message

	// N is the number of independent samples (0 = provider default)
	N int

	// Temperature controls sampling randomness (nil = provider default)
	Temperature *float64

	// Schema, if set, requests schema-constrained output
	Schema *Schema
}

// Completion is one sample returned by the provider.
type Completion struct {
	// Content is the raw text of the sample; it may be empty
	Content string

	// Refusal is set when the model declined to answer
	Refusal string
}

// ImageFormat selects how a generated image is returned.
type ImageFormat string

const (
	ImageFormatURL    ImageFormat = "url"
	ImageFormatBase64 ImageFormat = "b64_json"
)

// ImageRequest describes one call to the image generation endpoint.
type ImageRequest struct {
	Prompt string
	Model  string
	Format ImageFormat
}

// Image is a generated image, populated according to the requested format.
type Image struct {
	URL     string
	B64JSON string
}

// Client defines the interface for interacting with language and image models.
// Implementations must be thread-safe; a single client is shared by every
// concurrent request in the process.
type Client interface {
	// Complete issues one completion request and returns every sample.
	Complete(ctx context.Context, req CompletionRequest) ([]Completion, error)

	// GenerateImage requests a single image.
	GenerateImage(ctx context.Context, req ImageRequest) (Image, error)
}

// Config holds connection options for LLM providers.
type Config struct {
	// APIKey is the authentication key for the provider
	APIKey string

	// BaseURL overrides the provider endpoint (empty = provider default)
	BaseURL string

	// RequestsPerSecond paces outgoing requests (0 = unlimited)
	RequestsPerSecond float64
}

// Float returns a pointer to v, for optional request fields.
func Float(v float64) *float64 {
	return &v
}
