package llm

import (
	"context"
	"errors"
	"testing"
)

func TestMockClient_Complete(t *testing.T) {
	tests := []struct {
		name        string
		mock        *MockClient
		req         CompletionRequest
		wantErr     bool
		wantContent []string
	}{
		{
			name:        "default samples",
			mock:        NewMockClient("a", "b"),
			req:         CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}},
			wantContent: []string{"a", "b"},
		},
		{
			name:    "error response",
			mock:    NewMockClientWithError(errors.New("mock error")),
			req:     CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}},
			wantErr: true,
		},
		{
			name: "instruction specific",
			mock: &MockClient{
				Completions: map[string][]Completion{"thread": {{Content: "t1"}}},
				Default:     []Completion{{Content: "d"}},
			},
			req:         CompletionRequest{Messages: []Message{{Role: RoleAssistant, Content: "thread"}}},
			wantContent: []string{"t1"},
		},
		{
			name: "instruction specific error",
			mock: &MockClient{
				Errors: map[string]error{"thread": errors.New("down")},
			},
			req:     CompletionRequest{Messages: []Message{{Role: RoleAssistant, Content: "thread"}}},
			wantErr: true,
		},
		{
			name:        "empty samples sized by N",
			mock:        &MockClient{},
			req:         CompletionRequest{N: 3, Messages: []Message{{Role: RoleUser, Content: "x"}}},
			wantContent: []string{"", "", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.mock.Complete(context.Background(), tt.req)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != len(tt.wantContent) {
				t.Fatalf("expected %d completions, got %d", len(tt.wantContent), len(got))
			}
			for i, c := range got {
				if c.Content != tt.wantContent[i] {
					t.Errorf("completion %d = %q, want %q", i, c.Content, tt.wantContent[i])
				}
			}

			last, ok := tt.mock.LastRequest()
			if !ok || len(last.Messages) != len(tt.req.Messages) {
				t.Error("mock did not record the request")
			}
		})
	}
}

func TestMockClient_GenerateImage(t *testing.T) {
	mock := &MockClient{Image: Image{URL: "https://img"}}

	img, err := mock.GenerateImage(context.Background(), ImageRequest{Prompt: "p", Format: ImageFormatURL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.URL != "https://img" {
		t.Errorf("unexpected url %q", img.URL)
	}
	if reqs := mock.ImageRequests(); len(reqs) != 1 || reqs[0].Prompt != "p" {
		t.Errorf("image request not recorded: %+v", reqs)
	}
}

func TestMockClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockClient("a").Complete(ctx, CompletionRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
