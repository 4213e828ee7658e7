package extract

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func texts(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Text
	}
	return out
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "preamble before array",
			raw:  `Sure! [{"post": "hello world"}]`,
			want: []string{"hello world"},
		},
		{
			name: "no brackets",
			raw:  "no brackets here",
			want: []string{},
		},
		{
			name: "markdown fence",
			raw:  "```json\n[\n  {\"post\": \"first\"},\n  {\"post\": \"second\"}\n]\n```",
			want: []string{"first", "second"},
		},
		{
			name: "trailing commentary",
			raw:  `[{"post": "a"}, {"post": "b"}, {"post": "c"}] Let me know if you want more!`,
			want: []string{"a", "b", "c"},
		},
		{
			name: "newline inside string value is flattened",
			raw:  "[{\"post\": \"line one\nline two\"}]",
			want: []string{"line one line two"},
		},
		{
			name: "empty array",
			raw:  "Nothing to say: []",
			want: []string{},
		},
		{
			name: "invalid json between brackets",
			raw:  `[{"post": "unterminated}]`,
			want: []string{},
		},
		{
			name: "missing closing bracket",
			raw:  `[{"post": "x"}`,
			want: []string{},
		},
		{
			name: "empty input",
			raw:  "",
			want: []string{},
		},
		{
			name: "object without array",
			raw:  `{"post": "solo"}`,
			want: []string{},
		},
		{
			name: "element without post field",
			raw:  `[{"text": "wrong key"}, {"post": "right"}]`,
			want: []string{"", "right"},
		},
		{
			name: "non-object elements accepted",
			raw:  `[1, "two", {"post": "three"}]`,
			want: []string{"", "", "three"},
		},
		{
			// Known limitation: a closing bracket after the array widens the span.
			name: "trailing bracket in commentary breaks heuristic",
			raw:  `[{"post": "a"}] see [1]`,
			want: []string{},
		},
		{
			name: "bracket inside string value",
			raw:  `[{"post": "use [brackets] carefully"}]`,
			want: []string{"use [brackets] carefully"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBracketExtractor(nil).Extract(tt.raw)
			if got == nil {
				t.Fatal("Extract returned nil slice")
			}
			if diff := cmp.Diff(tt.want, texts(got)); diff != "" {
				t.Errorf("Extract(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestExtract_PreservesRawElements(t *testing.T) {
	got := Extract(`Here: [{"post": "hi", "tags": ["a"]}, 7]`)
	if len(got) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(got))
	}
	if string(got[0].Raw) != `{"post": "hi", "tags": ["a"]}` {
		t.Errorf("unexpected raw element: %s", got[0].Raw)
	}
	if string(got[1].Raw) != "7" {
		t.Errorf("unexpected raw element: %s", got[1].Raw)
	}
}

func TestExtract_ValidArrayRoundTrip(t *testing.T) {
	want := []string{"alpha", "beta with \"quotes\"", "gamma, delta", "ünïcødé ✓"}
	for n := 0; n <= len(want); n++ {
		elems := make([]map[string]string, n)
		for i := 0; i < n; i++ {
			elems[i] = map[string]string{"post": want[i]}
		}
		arr, err := json.Marshal(elems)
		if err != nil {
			t.Fatal(err)
		}

		raw := fmt.Sprintf("Model chatter before %s and after.", arr)
		got := texts(Extract(raw))
		if diff := cmp.Diff(want[:n], got); diff != "" {
			t.Errorf("n=%d mismatch (-want +got):\n%s", n, diff)
		}
	}
}

func TestExtract_WhitespaceIdempotence(t *testing.T) {
	compact := `[{"post":"one"},{"post":"two"}]`
	variants := []string{
		"[\n{\"post\":\"one\"},\n\n{\"post\":\"two\"}\n]",
		"[   {\"post\":   \"one\"},      {\"post\":\"two\"}   ]",
		"[\r\n  {\"post\": \"one\"},\r\n  {\"post\": \"two\"}\r\n]",
		"[\t{\"post\":\"one\"},\n    {\"post\":\"two\"}]",
	}

	base := texts(Extract(compact))
	for _, v := range variants {
		if diff := cmp.Diff(base, texts(Extract(v))); diff != "" {
			t.Errorf("whitespace changed result for %q (-want +got):\n%s", v, diff)
		}
	}
}

func TestBracketExtractor_CountsFailures(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := NewBracketExtractor(zap.New(core))

	e.Extract(`[{"post": "ok"}]`)
	e.Extract("garbage")
	e.Extract(`[{"post": }]`)

	if got := e.Failures(); got != 2 {
		t.Errorf("expected 2 failures, got %d", got)
	}
	if n := logs.FilterMessage("extraction failed").Len(); n != 2 {
		t.Errorf("expected 2 failure logs, got %d", n)
	}
}

func TestExtract_LongInputPreviewTruncated(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := NewBracketExtractor(zap.New(core))

	e.Extract(strings.Repeat("x", 500))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	p := entries[0].ContextMap()["preview"].(string)
	if len(p) != 123 {
		t.Errorf("expected truncated preview, got %d chars", len(p))
	}
}

func TestPost_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want string
	}{
		{name: "raw preserved", post: Post{Text: "x", Raw: json.RawMessage(`{"post":"x","n":1}`)}, want: `{"post":"x","n":1}`},
		{name: "text only", post: Post{Text: "hello"}, want: `{"post":"hello"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.post)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestArraySpan(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "a[b]c", want: "b"},
		{raw: "abc", want: "ab"},
		{raw: "[abc", want: "ab"},
		{raw: "ab]c", want: "ab"},
		{raw: "]x[", want: ""},
		{raw: "", want: ""},
		{raw: "[[1],[2]]", want: "[1],[2]"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := arraySpan(tt.raw); got != tt.want {
				t.Errorf("arraySpan(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
