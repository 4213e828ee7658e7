package llm

import (
	"context"
	"sync"
)

// MockClient is a deterministic Client implementation for testing.
// Responses are scripted per call; it is safe for concurrent use.
type MockClient struct {
	// Completions maps the first message's content (the instruction) to the
	// samples returned for it. Requests with no entry fall back to Default.
	Completions map[string][]Completion

	// Default is returned when no instruction-specific entry matches.
	// If empty, one empty completion per requested sample is returned.
	Default []Completion

	// Errors maps an instruction to the error returned for it.
	Errors map[string]error

	// Error, if set, is returned by every call instead of a response.
	Error error

	// Image is returned by GenerateImage.
	Image Image

	mu       sync.Mutex
	requests []CompletionRequest
	images   []ImageRequest
}

// NewMockClient creates a mock that returns the given samples for every request.
func NewMockClient(contents ...string) *MockClient {
	m := &MockClient{}
	for _, c := range contents {
		m.Default = append(m.Default, Completion{Content: c})
	}
	return m
}

// NewMockClientWithError creates a mock that always returns an error.
func NewMockClientWithError(err error) *MockClient {
	return &MockClient{Error: err}
}

// Complete records the request and returns the scripted samples.
func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) ([]Completion, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Error != nil {
		return nil, m.Error
	}

	instruction := ""
	if len(req.Messages) > 0 {
		instruction = req.Messages[0].Content
	}
	if err, ok := m.Errors[instruction]; ok {
		return nil, err
	}
	if samples, ok := m.Completions[instruction]; ok {
		return append([]Completion(nil), samples...), nil
	}
	if len(m.Default) > 0 {
		return append([]Completion(nil), m.Default...), nil
	}

	n := req.N
	if n == 0 {
		n = 1
	}
	return make([]Completion, n), nil
}

// GenerateImage records the request and returns the configured image.
func (m *MockClient) GenerateImage(ctx context.Context, req ImageRequest) (Image, error) {
	m.mu.Lock()
	m.images = append(m.images, req)
	m.mu.Unlock()

	if m.Error != nil {
		return Image{}, m.Error
	}
	return m.Image, nil
}

// Requests returns a copy of every completion request received so far.
func (m *MockClient) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CompletionRequest(nil), m.requests...)
}

// ImageRequests returns a copy of every image request received so far.
func (m *MockClient) ImageRequests() []ImageRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ImageRequest(nil), m.images...)
}

// LastRequest returns the most recent completion request.
func (m *MockClient) LastRequest() (CompletionRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return CompletionRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}
